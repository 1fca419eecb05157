package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/usecase"
)

type MockSync struct {
	inputs []model.SyncInput
	err    error
}

func (m *MockSync) Sync(ctx context.Context, in model.SyncInput) error {
	m.inputs = append(m.inputs, in)
	return m.err
}

// inlineDispatcher runs jobs synchronously
type inlineDispatcher struct {
	names []string
	errs  []error
}

func (d *inlineDispatcher) Dispatch(ctx context.Context, name string, job func(ctx context.Context) error) {
	d.names = append(d.names, name)
	d.errs = append(d.errs, job(ctx))
}

func webhookSettings() model.Settings {
	s := model.Settings{}
	s.Set("fetch", "repo", "git@github.com:acme/shop.git")
	s.Set("deploy", "hosts", "web1")
	s.Set("sync", "use_version_as_ref", "true")
	return s
}

func releaseEvent(tag string) *model.WebhookEvent {
	return &model.WebhookEvent{
		ID:         "delivery-1",
		Type:       model.EventTypeRelease,
		Action:     "released",
		Repository: "acme/shop",
		RepoName:   "shop",
		Sender:     "octocat",
		Tag:        tag,
		ReceivedAt: time.Now(),
	}
}

func TestWebhookUseCase_ProcessEvent(t *testing.T) {
	t.Run("published release starts a sync", func(t *testing.T) {
		syncUC := &MockSync{}
		d := &inlineDispatcher{}
		uc := usecase.NewWebhook(syncUC, webhookSettings(), usecase.WithDispatcher(d), usecase.WithHome("/home/ci"))

		gt.NoError(t, uc.ProcessEvent(context.Background(), releaseEvent("v1.2.0")))

		gt.Equal(t, d.names, []string{"sync shop-v1.2.0"})
		gt.A(t, syncUC.inputs).Length(1)
		in := syncUC.inputs[0]
		gt.Equal(t, in.Build.Release, model.Release{Project: "shop", Version: "v1.2.0"})
		gt.Equal(t, in.Fetch.Ref, "v1.2.0")
		gt.True(t, in.Fetch.Force)
		gt.Equal(t, in.Deploy.SSH.KnownHosts, "/home/ci/.ssh/known_hosts")
	})

	t.Run("project name from settings", func(t *testing.T) {
		s := webhookSettings()
		s.Set("project", "name", "storefront")
		syncUC := &MockSync{}
		uc := usecase.NewWebhook(syncUC, s, usecase.WithDispatcher(&inlineDispatcher{}))

		gt.NoError(t, uc.ProcessEvent(context.Background(), releaseEvent("2.0")))
		gt.Equal(t, syncUC.inputs[0].Build.Release.Project, "storefront")
	})

	t.Run("other actions are ignored", func(t *testing.T) {
		syncUC := &MockSync{}
		uc := usecase.NewWebhook(syncUC, webhookSettings(), usecase.WithDispatcher(&inlineDispatcher{}))

		ev := releaseEvent("v1.2.0")
		ev.Action = "created"
		gt.NoError(t, uc.ProcessEvent(context.Background(), ev))

		ping := &model.WebhookEvent{ID: "delivery-2", Type: model.EventTypePing}
		gt.NoError(t, uc.ProcessEvent(context.Background(), ping))

		gt.A(t, syncUC.inputs).Length(0)
	})

	t.Run("repository filter", func(t *testing.T) {
		s := webhookSettings()
		s.Set("serve", "repository", "acme/other")
		syncUC := &MockSync{}
		uc := usecase.NewWebhook(syncUC, s, usecase.WithDispatcher(&inlineDispatcher{}))

		gt.NoError(t, uc.ProcessEvent(context.Background(), releaseEvent("v1")))
		gt.A(t, syncUC.inputs).Length(0)

		s.Set("serve", "repository", "ACME/shop")
		gt.NoError(t, uc.ProcessEvent(context.Background(), releaseEvent("v1")))
		gt.A(t, syncUC.inputs).Length(1)
	})

	t.Run("tag that is not a valid version", func(t *testing.T) {
		syncUC := &MockSync{}
		uc := usecase.NewWebhook(syncUC, webhookSettings(), usecase.WithDispatcher(&inlineDispatcher{}))

		err := uc.ProcessEvent(context.Background(), releaseEvent("release/1.0"))
		gt.True(t, errors.Is(err, model.ErrInvalidRelease))
		gt.A(t, syncUC.inputs).Length(0)
	})

	t.Run("missing deploy hosts", func(t *testing.T) {
		s := model.Settings{}
		s.Set("fetch", "repo", "git@github.com:acme/shop.git")
		uc := usecase.NewWebhook(&MockSync{}, s, usecase.WithDispatcher(&inlineDispatcher{}))

		err := uc.ProcessEvent(context.Background(), releaseEvent("v1"))
		gt.True(t, errors.Is(err, model.ErrNoHosts))
	})

	t.Run("sync failure is reported by the dispatcher", func(t *testing.T) {
		d := &inlineDispatcher{}
		uc := usecase.NewWebhook(&MockSync{err: errors.New("boom")}, webhookSettings(), usecase.WithDispatcher(d))

		gt.NoError(t, uc.ProcessEvent(context.Background(), releaseEvent("v1")))
		gt.Error(t, d.errs[0])
	})

	t.Run("default dispatcher runs in the background", func(t *testing.T) {
		done := make(chan model.SyncInput, 1)
		syncUC := syncFunc(func(ctx context.Context, in model.SyncInput) error {
			done <- in
			return nil
		})
		uc := usecase.NewWebhook(syncUC, webhookSettings())

		gt.NoError(t, uc.ProcessEvent(context.Background(), releaseEvent("v3")))
		select {
		case in := <-done:
			gt.Equal(t, in.Build.Release.Version, "v3")
		case <-time.After(time.Second):
			t.Fatal("sync was not started")
		}
	})
}

type syncFunc func(ctx context.Context, in model.SyncInput) error

func (f syncFunc) Sync(ctx context.Context, in model.SyncInput) error {
	return f(ctx, in)
}
