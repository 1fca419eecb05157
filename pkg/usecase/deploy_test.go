package usecase_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/domain/shellcmd"
	"github.com/m-mizutani/webship/pkg/usecase"
)

const archive = "fake tarball content"

func setupArtifact(t *testing.T) string {
	t.Helper()
	buildDir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(buildDir, "shop-1.0.tar.gz"), []byte(archive), 0o600))
	return buildDir
}

func deployInput() model.DeployInput {
	return model.DeployInput{
		Release: model.Release{Project: "shop", Version: "1.0"},
		Hosts: []model.Host{
			{User: "deploy", Name: "web1", Port: 22},
			{User: "deploy", Name: "web2", Port: 2222},
		},
		Path:        "/app/releases",
		SSH:         model.SSHOptions{KnownHosts: "/home/ci/.ssh/known_hosts"},
		CurrentLink: true,
		PostDeploy:  "./bin/restart",
	}
}

func TestDeploy(t *testing.T) {
	sum := sha256.Sum256([]byte(archive))
	checksum := hex.EncodeToString(sum[:])
	r := model.Release{Project: "shop", Version: "1.0"}

	t.Run("deploys every host in order", func(t *testing.T) {
		dialer := &MockDialer{}
		notifier := &MockNotifier{}
		prompter := &MockPrompter{}
		uc := usecase.New(&MockShell{}, dialer,
			usecase.WithBuildDir(setupArtifact(t)),
			usecase.WithPrompter(prompter),
			usecase.WithNotifier(notifier),
			usecase.WithIDGenerator(func() string { return "run1" }),
		)

		gt.NoError(t, uc.Deploy(context.Background(), deployInput()))

		gt.A(t, dialer.sessions).Length(2)
		gt.Equal(t, dialer.dialed[1].Port, 2222)
		gt.Equal(t, dialer.options[0].KnownHosts, "/home/ci/.ssh/known_hosts")
		gt.Equal(t, prompter.questions, []string{
			"Deploy shop-1.0 to deploy@web1:22?",
			"Deploy shop-1.0 to deploy@web2:2222?",
		})

		sess := dialer.sessions[0]
		gt.True(t, sess.closed)
		gt.Equal(t, sess.uploads["/app/releases/shop-1.0.tar.gz"], archive)
		gt.Equal(t, sess.commands, []string{
			"mkdir -p /app/releases",
			shellcmd.VerifyChecksum("/app/releases", "shop-1.0.tar.gz", checksum),
			shellcmd.Unpack("/app/releases", r, "run1"),
			"ln -sfn /app/releases/shop-1.0 /app/releases/shop-current",
			"cd /app/releases/shop-1.0 && ./bin/restart",
		})

		gt.A(t, notifier.notifications).Length(1)
		gt.True(t, notifier.notifications[0].Success)
		gt.Equal(t, notifier.notifications[0].Title, "Deployed shop-1.0")
	})

	t.Run("declined host is skipped", func(t *testing.T) {
		dialer := &MockDialer{}
		notifier := &MockNotifier{}
		uc := usecase.New(&MockShell{}, dialer,
			usecase.WithBuildDir(setupArtifact(t)),
			usecase.WithPrompter(&MockPrompter{answers: []bool{false, true}}),
			usecase.WithNotifier(notifier),
		)

		gt.NoError(t, uc.Deploy(context.Background(), deployInput()))
		gt.A(t, dialer.dialed).Length(1)
		gt.Equal(t, dialer.dialed[0].Name, "web2")

		var skipped string
		for _, f := range notifier.notifications[0].Fields {
			if f.Name == "Skipped" {
				skipped = f.Value
			}
		}
		gt.Equal(t, skipped, "deploy@web1:22")
	})

	t.Run("all hosts declined sends nothing", func(t *testing.T) {
		notifier := &MockNotifier{}
		uc := usecase.New(&MockShell{}, &MockDialer{},
			usecase.WithBuildDir(setupArtifact(t)),
			usecase.WithPrompter(&MockPrompter{answers: []bool{false, false}}),
			usecase.WithNotifier(notifier),
		)

		gt.NoError(t, uc.Deploy(context.Background(), deployInput()))
		gt.A(t, notifier.notifications).Length(0)
	})

	t.Run("first failing host stops the deployment", func(t *testing.T) {
		dialer := &MockDialer{failOn: "sha256sum"}
		notifier := &MockNotifier{}
		uc := usecase.New(&MockShell{}, dialer,
			usecase.WithBuildDir(setupArtifact(t)),
			usecase.WithNotifier(notifier),
		)

		err := uc.Deploy(context.Background(), deployInput())
		gt.Error(t, err)
		gt.String(t, err.Error()).Contains("deploy@web1:22")
		gt.A(t, dialer.dialed).Length(1)
		gt.True(t, dialer.sessions[0].closed)

		gt.A(t, notifier.notifications).Length(1)
		gt.False(t, notifier.notifications[0].Success)
	})

	t.Run("dial failure", func(t *testing.T) {
		dialer := &MockDialer{dialErr: errors.New("connection refused")}
		uc := usecase.New(&MockShell{}, dialer, usecase.WithBuildDir(setupArtifact(t)))

		err := uc.Deploy(context.Background(), deployInput())
		gt.Error(t, err)
		gt.A(t, dialer.dialed).Length(1)
	})

	t.Run("missing artifact", func(t *testing.T) {
		dialer := &MockDialer{}
		uc := usecase.New(&MockShell{}, dialer, usecase.WithBuildDir(t.TempDir()))

		err := uc.Deploy(context.Background(), deployInput())
		gt.True(t, errors.Is(err, model.ErrArtifactNotFound))
		gt.A(t, dialer.dialed).Length(0)
	})

	t.Run("no current link and no hook", func(t *testing.T) {
		dialer := &MockDialer{}
		uc := usecase.New(&MockShell{}, dialer, usecase.WithBuildDir(setupArtifact(t)))

		in := deployInput()
		in.Hosts = in.Hosts[:1]
		in.CurrentLink = false
		in.PostDeploy = ""

		gt.NoError(t, uc.Deploy(context.Background(), in))
		gt.A(t, dialer.sessions[0].commands).Length(3)
	})
}
