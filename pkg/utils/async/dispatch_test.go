package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/hashcare/hashcare/pkg/utils/async"
	"github.com/m-mizutani/gt"
)

func TestGroup(t *testing.T) {
	t.Run("waits for every dispatched handler", func(t *testing.T) {
		var g async.Group
		var count atomic.Int32

		for range 5 {
			g.Dispatch(context.Background(), func(ctx context.Context) error {
				count.Add(1)
				return nil
			})
		}
		g.Wait()

		gt.Number(t, count.Load()).Equal(5)
	})

	t.Run("recovers from panic and error", func(t *testing.T) {
		var g async.Group
		g.Dispatch(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
		g.Dispatch(context.Background(), func(ctx context.Context) error {
			return errors.New("failed")
		})
		g.Wait()
	})

	t.Run("handler context is detached from caller cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var g async.Group
		var ctxErr error
		g.Dispatch(ctx, func(ctx context.Context) error {
			ctxErr = ctx.Err()
			return nil
		})
		g.Wait()

		gt.NoError(t, ctxErr)
	})
}
