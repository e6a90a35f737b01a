package async

import (
	"context"
	"sync"

	"github.com/hashcare/hashcare/pkg/utils/errutil"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler on a new goroutine with a detached context that
// keeps the caller's logger. Errors and panics are logged and reported,
// never propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := detach(ctx)
	go run(bgCtx, handler)
}

// Group tracks dispatched handlers so shutdown can wait for in-flight work
type Group struct {
	wg sync.WaitGroup
}

// Dispatch is the tracked variant of the package level Dispatch
func (g *Group) Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := detach(ctx)
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		run(bgCtx, handler)
	}()
}

// Wait blocks until every handler dispatched through g has returned
func (g *Group) Wait() {
	g.wg.Wait()
}

func detach(ctx context.Context) context.Context {
	bgCtx := context.Background()
	if logger := logging.From(ctx); logger != nil {
		bgCtx = logging.With(bgCtx, logger)
	}
	return bgCtx
}

func run(ctx context.Context, handler func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			errutil.Handle(ctx, goerr.New("panic in async handler", goerr.V("panic", r)), "async handler panicked")
		}
	}()

	if err := handler(ctx); err != nil {
		errutil.Handle(ctx, err, "async handler failed")
	}
}
