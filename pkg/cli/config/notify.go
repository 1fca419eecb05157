package config

import (
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
	"github.com/m-mizutani/webship/pkg/domain/model"
	"github.com/m-mizutani/webship/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Notify holds deployment notification configuration
type Notify struct {
	SlackWebhook string `masq:"secret"`
	SlackChannel string
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook",
			Usage:       "Slack incoming webhook URL (default [notify] slack_webhook)",
			Destination: &c.SlackWebhook,
			Sources:     cli.EnvVars("WEBSHIP_SLACK_WEBHOOK"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel override (default [notify] slack_channel)",
			Destination: &c.SlackChannel,
			Sources:     cli.EnvVars("WEBSHIP_SLACK_CHANNEL"),
		},
	}
}

// Notifier returns a Slack notifier, or a no-op one when no webhook is configured
func (c *Notify) Notifier(s model.Settings) interfaces.Notifier {
	url := c.SlackWebhook
	if url == "" {
		url = s.Get(model.SectionNotify, "slack_webhook")
	}
	if url == "" {
		return slack.Nop{}
	}

	channel := c.SlackChannel
	if channel == "" {
		channel = s.Get(model.SectionNotify, "slack_channel")
	}

	var opts []slack.Option
	if channel != "" {
		opts = append(opts, slack.WithChannel(channel))
	}
	return slack.New(url, opts...)
}
