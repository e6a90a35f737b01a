package config

import (
	"log/slog"

	"github.com/hashcare/hashcare/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack configures on-call forwarding of critical notifications
type Slack struct {
	botToken  string
	channelID string
	apiURL    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("HASHCARE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Channel receiving critical and error notifications",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("HASHCARE_SLACK_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Override the Slack API base URL",
			Category:    "Slack",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("HASHCARE_SLACK_API_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel-id", x.channelID),
	)
}

// IsConfigured reports whether forwarding is enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" || x.channelID != ""
}

// Configure returns the forwarder, or nil when Slack is not configured
func (x *Slack) Configure() (*slack.Forwarder, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.botToken == "" || x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "both --slack-bot-token and --slack-channel-id are required")
	}

	var opts []slack.Option
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}
	svc, err := slack.New(x.botToken, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack client")
	}
	return slack.NewForwarder(svc, x.channelID), nil
}
