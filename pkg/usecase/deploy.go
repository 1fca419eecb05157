package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/domain/shellcmd"
)

// Deploy uploads and unpacks the release archive on every host, one host at
// a time. A declined confirmation skips the host. The first failure stops.
func (x *UseCases) Deploy(ctx context.Context, in model.DeployInput) error {
	logger := ctxlog.From(ctx)
	r := in.Release

	buildDir, err := x.absBuildDir()
	if err != nil {
		return err
	}
	artifact := filepath.Join(buildDir, r.Tarball())
	if err := x.checkArtifact(ctx, artifact); err != nil {
		return err
	}

	var deployed, skipped []string
	var deployErr error
	for _, host := range in.Hosts {
		ok, err := x.prompter.Confirm(ctx, fmt.Sprintf("Deploy %s to %s?", r.Name(), host))
		if err != nil {
			deployErr = goerr.Wrap(err, "confirmation failed", goerr.V("host", host.String()))
			break
		}
		if !ok {
			logger.Info("Skipped host", "host", host.String(), "release", r.Name())
			skipped = append(skipped, host.String())
			continue
		}

		if err := x.deployHost(ctx, in, host, artifact); err != nil {
			deployErr = goerr.Wrap(err, "failed to deploy to "+host.String(),
				goerr.V("host", host.String()),
				goerr.V("release", r.Name()),
			)
			break
		}
		logger.Info("Deployed", "host", host.String(), "release", r.Name())
		deployed = append(deployed, host.String())
	}

	if len(deployed) > 0 || deployErr != nil {
		x.notify(ctx, deployNotification(in, deployed, skipped, deployErr))
	}
	return deployErr
}

func (x *UseCases) deployHost(ctx context.Context, in model.DeployInput, host model.Host, artifact string) error {
	r := in.Release

	sess, err := x.dialer.Dial(ctx, host, in.SSH)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			ctxlog.From(ctx).Warn("Failed to close session", "host", host.String(), "error", err)
		}
	}()

	if err := sess.Run(ctx, shellcmd.MakeDir(in.Path)); err != nil {
		return err
	}

	src, err := x.openArtifact(artifact)
	if err != nil {
		return err
	}
	defer src.Close()

	hash := sha256.New()
	if err := sess.Upload(ctx, io.TeeReader(src, hash), path.Join(in.Path, r.Tarball())); err != nil {
		return err
	}
	sum := hex.EncodeToString(hash.Sum(nil))

	steps := []string{
		shellcmd.VerifyChecksum(in.Path, r.Tarball(), sum),
		shellcmd.Unpack(in.Path, r, x.newID()),
	}
	if in.CurrentLink {
		steps = append(steps, shellcmd.LinkCurrent(in.Path, r))
	}
	if in.PostDeploy != "" {
		steps = append(steps, shellcmd.PostDeploy(in.Path, r, in.PostDeploy))
	}

	for _, line := range steps {
		if err := sess.Run(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func (x *UseCases) openArtifact(artifact string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Clean(artifact))
	if err != nil {
		if x.dryRun && os.IsNotExist(err) {
			return io.NopCloser(strings.NewReader("")), nil
		}
		return nil, goerr.Wrap(err, "failed to open artifact", goerr.V("artifact", artifact))
	}
	return f, nil
}

func (x *UseCases) notify(ctx context.Context, n *model.Notification) {
	if err := x.notifier.Notify(ctx, n); err != nil {
		ctxlog.From(ctx).Warn("Failed to send notification", "title", n.Title, "error", err)
	}
}

func deployNotification(in model.DeployInput, deployed, skipped []string, deployErr error) *model.Notification {
	n := &model.Notification{
		Title:   "Deployed " + in.Release.Name(),
		Success: deployErr == nil,
		Fields: []model.NotificationField{
			{Name: "Release", Value: in.Release.Name()},
			{Name: "Path", Value: in.Path},
		},
	}
	if deployErr != nil {
		n.Title = "Deployment of " + in.Release.Name() + " failed"
	}
	if len(deployed) > 0 {
		n.Fields = append(n.Fields, model.NotificationField{Name: "Deployed", Value: strings.Join(deployed, ", ")})
	}
	if len(skipped) > 0 {
		n.Fields = append(n.Fields, model.NotificationField{Name: "Skipped", Value: strings.Join(skipped, ", ")})
	}
	if deployErr != nil {
		n.Fields = append(n.Fields, model.NotificationField{Name: "Error", Value: deployErr.Error()})
	}
	return n
}
