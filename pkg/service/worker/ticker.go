package worker

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/utils/errutil"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Ticker drives one simulator at a fixed interval in the background.
//
// Architecture assumptions:
// - Single server instance, the simulated state lives in process memory
// - A failed tick is logged and the next interval runs as usual
type Ticker struct {
	name      string
	sim       interfaces.Simulator
	interval  time.Duration
	clock     clock.Clock
	immediate bool

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	started bool
}

type Option func(*Ticker)

// WithClock replaces the wall clock
func WithClock(clk clock.Clock) Option {
	return func(t *Ticker) {
		t.clock = clk
	}
}

// WithImmediate runs one tick as soon as the worker starts
func WithImmediate() Option {
	return func(t *Ticker) {
		t.immediate = true
	}
}

// NewTicker creates a worker that calls sim.Tick every interval
func NewTicker(name string, sim interfaces.Simulator, interval time.Duration, opts ...Option) *Ticker {
	t := &Ticker{
		name:     name,
		sim:      sim,
		interval: interval,
		clock:    clock.New(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name identifies the worker in logs
func (t *Ticker) Name() string { return t.name }

// Start begins the background loop. It does not block.
func (t *Ticker) Start(ctx context.Context) error {
	if t.interval <= 0 {
		return goerr.New("ticker interval must be positive",
			goerr.V("name", t.name),
			goerr.V("interval", t.interval.String()))
	}

	logging.From(ctx).Info("ticker worker starting",
		"name", t.name,
		"interval", t.interval.String())

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return goerr.New("ticker already started", goerr.V("name", t.name))
	}
	t.started = true

	// created before the goroutine so that no tick is lost between Start
	// and the first select
	tc := t.clock.Ticker(t.interval)
	go t.run(ctx, tc)

	return nil
}

// Stop signals the worker to stop and waits for completion. Calling Stop
// more than once, or on a ticker that never started, is safe.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopCh)
	})
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()
	if !started {
		return
	}
	<-t.doneCh
	logging.Default().Info("ticker worker stopped", "name", t.name)
}

func (t *Ticker) run(ctx context.Context, tc *clock.Ticker) {
	defer close(t.doneCh)
	defer tc.Stop()

	if t.immediate {
		t.tick(ctx)
	}

	for {
		select {
		case <-tc.C:
			t.tick(ctx)

		case <-t.stopCh:
			return

		case <-ctx.Done():
			logging.From(ctx).Info("ticker worker context cancelled", "name", t.name)
			return
		}
	}
}

func (t *Ticker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			_ = errutil.Handle(ctx, goerr.New("panic in simulator tick",
				goerr.V("name", t.name),
				goerr.V("panic", r)), "ticker worker recovered")
		}
	}()

	if err := t.sim.Tick(ctx); err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "simulator tick failed", goerr.V("name", t.name)),
			"ticker worker tick failed (will retry next interval)")
	}
}

// Pool owns a set of tickers and starts or stops them together
type Pool struct {
	tickers []*Ticker
}

func NewPool(tickers ...*Ticker) *Pool {
	return &Pool{tickers: tickers}
}

// Add registers more tickers. It must be called before Start.
func (p *Pool) Add(tickers ...*Ticker) {
	p.tickers = append(p.tickers, tickers...)
}

// Len returns the number of registered tickers
func (p *Pool) Len() int { return len(p.tickers) }

// Start starts every ticker. If one fails, the ones already started are
// stopped again.
func (p *Pool) Start(ctx context.Context) error {
	for i, t := range p.tickers {
		if err := t.Start(ctx); err != nil {
			for _, started := range p.tickers[:i] {
				started.Stop()
			}
			return goerr.Wrap(err, "failed to start worker pool", goerr.V("name", t.Name()))
		}
	}
	return nil
}

// Stop stops every ticker concurrently and waits for all of them
func (p *Pool) Stop() {
	var eg errgroup.Group
	for _, t := range p.tickers {
		eg.Go(func() error {
			t.Stop()
			return nil
		})
	}
	_ = eg.Wait()
}
