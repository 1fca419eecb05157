package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/utils/async"
)

// Dispatcher runs a job in the background
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, job func(ctx context.Context) error)
}

type webhookUseCase struct {
	sync       interfaces.SyncUseCase
	settings   model.Settings
	home       string
	dispatcher Dispatcher
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithHome sets the home directory used to locate known_hosts
func WithHome(home string) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.home = home
	}
}

// WithDispatcher replaces the background runner. By default pipelines run
// one at a time in the order their releases arrived.
func WithDispatcher(d Dispatcher) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatcher = d
	}
}

// NewWebhook creates a use case that starts a sync for every published release
func NewWebhook(syncUC interfaces.SyncUseCase, settings model.Settings, opts ...WebhookOption) interfaces.WebhookUseCase {
	uc := &webhookUseCase{
		sync:       syncUC,
		settings:   settings,
		dispatcher: async.NewQueue(async.DefaultQueueSize),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessEvent validates the event synchronously and runs the sync in the background
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"tag", event.Tag,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Debug("Ignoring event", "type", event.Type, "action", event.Action)
		return nil
	}

	if want := uc.settings.Get(model.SectionServe, "repository"); want != "" && !strings.EqualFold(want, event.Repository) {
		logger.Info("Ignoring release of another repository", "repository", event.Repository, "expected", want)
		return nil
	}

	project := uc.settings.GetOr(model.SectionProject, "name", event.RepoName)
	release, err := model.NewRelease(project, event.Tag, uc.settings)
	if err != nil {
		return goerr.Wrap(err, "cannot derive release from event", goerr.V("tag", event.Tag))
	}

	in, err := model.SyncInput{Build: model.BuildInput{Release: release}}.Complete(uc.settings, uc.home)
	if err != nil {
		return goerr.Wrap(err, "incomplete sync configuration", goerr.V("release", release.Name()))
	}

	logger.Info("Scheduling sync", "release", release.Name(), "delivery", event.ID)
	uc.dispatcher.Dispatch(ctx, "sync "+release.Name(), func(ctx context.Context) error {
		return uc.sync.Sync(ctx, in)
	})
	return nil
}
