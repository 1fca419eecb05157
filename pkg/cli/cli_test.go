package cli_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/webship/pkg/cli"
	"github.com/m-mizutani/webship/pkg/domain/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webship.ini")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const testConfig = `
[project]
name = shop

[fetch]
repo = https://github.com/acme/shop.git

[deploy]
hosts = deploy@web1, web2:2222
insecure_ignore_host_key = yes
`

func TestRun_DryRunSync(t *testing.T) {
	path := writeConfig(t, testConfig)
	buildDir := t.TempDir()

	err := cli.Run(context.Background(), []string{
		"webship", "--config", path, "--build-dir", buildDir, "--dry-run", "--log-level", "error",
		"sync", "shop", "1.0",
	})
	gt.NoError(t, err)

	entries, err := os.ReadDir(buildDir)
	gt.NoError(t, err)
	gt.A(t, entries).Length(0)
}

func TestRun_DryRunEachTask(t *testing.T) {
	path := writeConfig(t, testConfig)

	for _, args := range [][]string{
		{"fetch"},
		{"build", "shop", "1.0"},
		{"run", "shop", "1.0", "--", "manage.py", "check"},
		{"deploy", "shop", "1.0", "--hosts", "web9"},
		{"config"},
	} {
		t.Run(args[0], func(t *testing.T) {
			base := []string{"webship", "-c", path, "--build-dir", t.TempDir(), "--dry-run", "--log-level", "error"}
			gt.NoError(t, cli.Run(context.Background(), append(base, args...)))
		})
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{"webship", "--log-level", "loud", "config"})
		gt.Error(t, err)
	})

	t.Run("explicit config file missing", func(t *testing.T) {
		err := cli.Run(context.Background(), []string{
			"webship", "--log-level", "error", "--config", filepath.Join(t.TempDir(), "missing.ini"), "config",
		})
		gt.True(t, errors.Is(err, model.ErrConfigNotFound))
	})

	t.Run("deploy without hosts", func(t *testing.T) {
		path := writeConfig(t, "[project]\nname = shop\n")
		err := cli.Run(context.Background(), []string{
			"webship", "--log-level", "error", "-c", path, "--dry-run", "deploy", "shop", "1.0",
		})
		gt.True(t, errors.Is(err, model.ErrNoHosts))
	})

	t.Run("build without version", func(t *testing.T) {
		path := writeConfig(t, "[project]\nname = shop\n")
		err := cli.Run(context.Background(), []string{
			"webship", "--log-level", "error", "-c", path, "--dry-run", "build",
		})
		gt.True(t, errors.Is(err, model.ErrMissingArgument))
	})

	t.Run("fetch over an existing clone", func(t *testing.T) {
		path := writeConfig(t, testConfig)
		buildDir := t.TempDir()
		gt.NoError(t, os.Mkdir(filepath.Join(buildDir, "shop"), 0o755))

		err := cli.Run(context.Background(), []string{
			"webship", "--log-level", "error", "-c", path, "--build-dir", buildDir, "--dry-run", "fetch",
		})
		gt.True(t, errors.Is(err, model.ErrAlreadyFetched))
	})

	t.Run("serve without webhook secret", func(t *testing.T) {
		path := writeConfig(t, testConfig)
		t.Setenv("WEBSHIP_GITHUB_WEBHOOK_SECRET", "")
		err := cli.Run(context.Background(), []string{
			"webship", "--log-level", "error", "-c", path, "serve",
		})
		gt.True(t, errors.Is(err, model.ErrMissingArgument))
	})
}
