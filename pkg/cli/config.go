package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

const redacted = "[REDACTED]"

var secretKeys = map[string]bool{
	"identity_passphrase": true,
	"slack_webhook":       true,
	"webhook_secret":      true,
}

func cmdConfig(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Print the loaded configuration with secrets redacted",
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := rt.load(ctx, c); err != nil {
				return err
			}
			return printSettings(rt.stdout, rt.settings)
		},
	}
}

func printSettings(w io.Writer, s model.Settings) error {
	header := color.New(color.FgGreen, color.Bold)

	for i, section := range s.Sections() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := header.Fprintf(w, "[%s]\n", section); err != nil {
			return err
		}
		for _, key := range s.Keys(section) {
			value := s.Get(section, key)
			if secretKeys[key] && value != "" {
				value = redacted
			}
			if _, err := fmt.Fprintf(w, "%s = %s\n", key, value); err != nil {
				return err
			}
		}
	}
	return nil
}
