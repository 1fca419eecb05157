package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub configuration
type GitHub struct {
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret (default [serve] webhook_secret)",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("WEBSHIP_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// ResolveSecret returns the flag value or [serve] webhook_secret. One of them is required.
func (c *GitHub) ResolveSecret(s model.Settings) (string, error) {
	if c.WebhookSecret != "" {
		return c.WebhookSecret, nil
	}
	if v := s.Get(model.SectionServe, "webhook_secret"); v != "" {
		return v, nil
	}
	return "", goerr.Wrap(model.ErrMissingArgument, "webhook secret is required: pass --github-webhook-secret or set [serve] webhook_secret")
}
