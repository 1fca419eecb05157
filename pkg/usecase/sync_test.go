package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/usecase"
)

func syncInput() model.SyncInput {
	r := model.Release{Project: "shop", Version: "1.0"}
	deploy := deployInput()
	deploy.Hosts = deploy.Hosts[:1]
	return model.SyncInput{
		Fetch:  model.FetchInput{Repo: "https://github.com/acme/shop.git", Project: "shop", Ref: "1.0"},
		Build:  model.BuildInput{Release: r, Image: "python:3.8", Runtime: "podman", Command: "make", Excludes: []string{".git"}},
		Deploy: deploy,
	}
}

func TestSync(t *testing.T) {
	t.Run("runs every stage", func(t *testing.T) {
		buildDir := setupArtifact(t)
		gt.NoError(t, os.Mkdir(filepath.Join(buildDir, "shop"), 0o755))

		shell := &MockShell{}
		dialer := &MockDialer{}
		uc := usecase.New(shell, dialer, usecase.WithBuildDir(buildDir))

		gt.NoError(t, uc.Sync(context.Background(), syncInput()))

		lines := shell.Lines()
		gt.Equal(t, lines[1], "rm -rf shop")
		gt.True(t, strings.HasPrefix(lines[2], "git clone --branch 1.0 "))
		gt.True(t, strings.HasPrefix(lines[3], "podman run"))
		gt.True(t, strings.HasPrefix(lines[4], "tar czf shop-1.0.tar.gz"))
		gt.A(t, dialer.sessions).Length(1)
	})

	t.Run("build failure skips deploy", func(t *testing.T) {
		shell := &MockShell{failOn: "podman run"}
		dialer := &MockDialer{}
		uc := usecase.New(shell, dialer, usecase.WithBuildDir(setupArtifact(t)))

		err := uc.Sync(context.Background(), syncInput())
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("build stage failed")
		gt.A(t, dialer.dialed).Length(0)
	})
}
