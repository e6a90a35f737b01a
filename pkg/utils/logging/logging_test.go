package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestFrom(t *testing.T) {
	t.Run("returns default when context has no logger", func(t *testing.T) {
		gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
	})

	t.Run("returns logger bound to context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		ctx := logging.With(context.Background(), logger)

		logging.From(ctx).Info("bound", "k", "v")
		gt.String(t, buf.String()).Contains(`"msg":"bound"`)
	})
}

func TestSetDefault(t *testing.T) {
	orig := logging.Default()
	t.Cleanup(func() { logging.SetDefault(orig) })

	var buf bytes.Buffer
	logging.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	logging.Default().Info("replaced")
	gt.String(t, buf.String()).Contains("replaced")
}
