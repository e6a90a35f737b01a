package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service is the subset of the Slack API used to page on-call staff
type Service interface {
	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)
}
