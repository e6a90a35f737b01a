package slack

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/bus"
	"github.com/hashcare/hashcare/pkg/utils/errutil"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// DefaultForwardKinds are the notification kinds paged to the on-call channel
var DefaultForwardKinds = []types.NotificationKind{types.NotificationCritical, types.NotificationError}

// Forwarder posts urgent bus notifications to a Slack channel
type Forwarder struct {
	svc       Service
	channelID string
	kinds     []types.NotificationKind
}

type ForwarderOption func(*Forwarder)

// WithKinds replaces the forwarded notification kinds
func WithKinds(kinds ...types.NotificationKind) ForwarderOption {
	return func(f *Forwarder) {
		f.kinds = kinds
	}
}

func NewForwarder(svc Service, channelID string, opts ...ForwarderOption) *Forwarder {
	f := &Forwarder{
		svc:       svc,
		channelID: channelID,
		kinds:     DefaultForwardKinds,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run forwards published events until ctx is done or events is closed.
// A failed post is reported and does not stop forwarding.
func (f *Forwarder) Run(ctx context.Context, events <-chan bus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != bus.EventPublished || ev.Notification == nil {
				continue
			}
			if err := f.Forward(ctx, *ev.Notification); err != nil {
				errutil.Handle(ctx, err, "failed to forward notification to Slack")
			}
		}
	}
}

// Forward posts one notification when its kind is forwarded
func (f *Forwarder) Forward(ctx context.Context, n model.Notification) error {
	if !slices.Contains(f.kinds, n.Kind) {
		return nil
	}

	ts, err := f.svc.PostMessage(ctx, f.channelID, buildBlocks(n), fmt.Sprintf("%s: %s", n.Title, n.Message))
	if err != nil {
		return err
	}

	logging.From(ctx).Info("notification forwarded to Slack",
		"notification_id", n.ID,
		"kind", n.Kind,
		"channel_id", f.channelID,
		"ts", ts)
	return nil
}

func kindEmoji(kind types.NotificationKind) string {
	switch kind {
	case types.NotificationCritical:
		return ":rotating_light:"
	case types.NotificationError:
		return ":x:"
	case types.NotificationWarning:
		return ":warning:"
	case types.NotificationSuccess:
		return ":white_check_mark:"
	default:
		return ":information_source:"
	}
}

func buildBlocks(n model.Notification) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, truncateToMaxBytes(n.Title, 150), false, false),
	)
	body := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			truncateToMaxBytes(fmt.Sprintf("%s %s", kindEmoji(n.Kind), n.Message), maxSectionBytes),
			false, false),
		nil, nil,
	)
	footer := slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*%s* | %s", n.Kind, n.CreatedAt.Format("2006-01-02 15:04:05 MST")),
			false, false),
	)
	return []slack.Block{header, body, footer}
}
