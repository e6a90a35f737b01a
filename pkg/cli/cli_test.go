package cli_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/hashcare/hashcare/pkg/cli"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/bus"
	"github.com/hashcare/hashcare/pkg/service/gateway"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

func TestPrintEvent(t *testing.T) {
	color.NoColor = true

	created := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)
	testCases := []struct {
		name string
		ev   bus.Event
		want string
	}{
		{
			name: "published notification",
			ev: bus.Event{
				Type: bus.EventPublished,
				Notification: &model.Notification{
					ID:        "n1",
					Kind:      types.NotificationCritical,
					Title:     "High Heart Rate Alert",
					Message:   "Patient heart rate exceeded 120 bpm",
					CreatedAt: created,
				},
				UnreadCount: 1,
			},
			want: "14:05:09 [critical] High Heart Rate Alert: Patient heart rate exceeded 120 bpm\n",
		},
		{
			name: "dismissed toast",
			ev:   bus.Event{Type: bus.EventDismissed, ID: "n1", UnreadCount: 1},
			want: "dismissed n1 (unread 1)\n",
		},
		{
			name: "cleared history",
			ev:   bus.Event{Type: bus.EventCleared},
			want: "cleared   all (unread 0)\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			cli.PrintEvent(&buf, tc.ev)
			gt.Equal(t, buf.String(), tc.want)
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	testCases := []struct {
		path string
		data []byte
		want string
	}{
		{path: "report.pdf", want: "application/pdf"},
		{path: "scan.jpeg", want: "image/jpeg"},
		{path: "notes.txt", want: "text/plain"},
		{path: "unknown", data: []byte("plain words"), want: "text/plain; charset=utf-8"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			gt.Equal(t, cli.DetectMimeType(tc.path, tc.data), tc.want)
		})
	}
}

func TestRun_Chat(t *testing.T) {
	ctx := context.Background()

	t.Run("daily tip without gemini", func(t *testing.T) {
		gt.NoError(t, cli.Run(ctx, []string{"hashcare", "chat", "--tip"}, "test"))
	})

	t.Run("message is required", func(t *testing.T) {
		err := cli.Run(ctx, []string{"hashcare", "chat"}, "test")
		gt.Error(t, err).Is(model.ErrInvalidInput)
	})
}

func TestRun_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("simulated analysis", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "transcript.txt")
		gt.NoError(t, os.WriteFile(path, []byte("Take metformin twice daily."), 0600)).Required()
		gt.NoError(t, cli.Run(ctx, []string{"hashcare", "analyze", "--transcript", path}, "test"))
	})

	t.Run("file argument is required", func(t *testing.T) {
		err := cli.Run(ctx, []string{"hashcare", "analyze"}, "test")
		gt.Error(t, err).Is(model.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		err := cli.Run(ctx, []string{"hashcare", "analyze", filepath.Join(t.TempDir(), "missing.pdf")}, "test")
		gt.Error(t, err)
	})
}

func TestRun_Watch(t *testing.T) {
	err := cli.Run(context.Background(), []string{"hashcare", "watch", "--no-color", "--duration", "50ms"}, "test")
	gt.NoError(t, err)
}

func TestRun_WatchUnknownScenario(t *testing.T) {
	err := cli.Run(context.Background(), []string{"hashcare", "watch", "--no-color", "--duration", "1s", "--scenario", "no-such-scenario"}, "test")
	gt.Error(t, err).Is(model.ErrNotFound)
}

type brokenLLMConfig struct{}

func (brokenLLMConfig) Configure(ctx context.Context) (gollem.LLMClient, error) {
	return nil, goerr.New("credentials not found")
}

func (brokenLLMConfig) LogAttrs() []slog.Attr { return nil }

func TestNewGateway_FallsBackWhenClientFails(t *testing.T) {
	ctx := context.Background()
	gw := cli.NewGateway(ctx, brokenLLMConfig{})
	gt.V(t, gw == nil).Equal(false)
	gt.V(t, gw.Chat(ctx, "hello", "")).Equal(gateway.SimulatedChatReply)
}
