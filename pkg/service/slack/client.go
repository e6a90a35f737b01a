package slack

import (
	"context"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// maxSectionBytes keeps section text under the Block Kit limit
const maxSectionBytes = 3000

// client implements Service interface
type client struct {
	api *slack.Client
}

// Option is a functional option for client configuration
type Option func(*options)

type options struct {
	apiURL string
}

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(o *options) {
		o.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var apiOpts []slack.Option
	if o.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &client{api: slack.New(token, apiOpts...)}, nil
}

// PostMessage posts a Block Kit message and returns its timestamp
func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post Slack message", goerr.V("channel_id", channelID))
	}
	return ts, nil
}

// truncateToMaxBytes cuts s to at most n bytes without splitting a rune
func truncateToMaxBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
