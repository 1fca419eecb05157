// Package slack posts deployment results to a Slack incoming webhook.
package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/slack-go/slack"
)

const (
	colorSuccess = "good"
	colorFailure = "danger"
)

// Notifier sends notifications to one incoming webhook
type Notifier struct {
	webhookURL string
	channel    string
}

// Option configures a Notifier
type Option func(*Notifier)

// WithChannel overrides the webhook's default channel
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		n.channel = channel
	}
}

// New creates a Notifier posting to webhookURL
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{webhookURL: webhookURL}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts n as a single colored attachment
func (x *Notifier) Notify(ctx context.Context, n *model.Notification) error {
	msg := buildMessage(n)
	msg.Channel = x.channel

	if err := slack.PostWebhookContext(ctx, x.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification", goerr.V("title", n.Title))
	}

	ctxlog.From(ctx).Debug("Slack notification sent", "title", n.Title, "success", n.Success)
	return nil
}

func buildMessage(n *model.Notification) *slack.WebhookMessage {
	color := colorSuccess
	if !n.Success {
		color = colorFailure
	}

	fields := make([]slack.AttachmentField, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, slack.AttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: len(f.Value) < 40,
		})
	}

	return &slack.WebhookMessage{
		Text: n.Title,
		Attachments: []slack.Attachment{
			{
				Color:  color,
				Fields: fields,
				Footer: "webship",
			},
		},
	}
}

// Nop drops every notification
type Nop struct{}

// Notify does nothing
func (Nop) Notify(ctx context.Context, n *model.Notification) error {
	return nil
}
