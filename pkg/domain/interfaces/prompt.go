package interfaces

import (
	"context"

	"github.com/m-mizutani/webship/pkg/domain/model"
)

// Prompter asks the operator before destructive operations
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// Notifier publishes deployment results
type Notifier interface {
	Notify(ctx context.Context, n *model.Notification) error
}

// RevisionReader inspects a cloned repository
type RevisionReader interface {
	Head(ctx context.Context, dir string) (*model.Revision, error)
}
