package interfaces

import (
	"context"

	"github.com/m-mizutani/webship/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// SyncUseCase runs the whole fetch, build and deploy pipeline
type SyncUseCase interface {
	Sync(ctx context.Context, in model.SyncInput) error
}
