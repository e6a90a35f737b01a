package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/hashcare/hashcare/pkg/cli/config"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/hashcare/hashcare/pkg/service/bus"
	"github.com/hashcare/hashcare/pkg/service/worker"
	"github.com/hashcare/hashcare/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

const watchEventBuffer = 128

var kindColors = map[types.NotificationKind]*color.Color{
	types.NotificationInfo:     color.New(color.FgCyan),
	types.NotificationSuccess:  color.New(color.FgGreen),
	types.NotificationWarning:  color.New(color.FgYellow),
	types.NotificationError:    color.New(color.FgRed),
	types.NotificationCritical: color.New(color.FgHiRed, color.Bold),
}

var dimColor = color.New(color.Faint)

// printEvent writes one line per bus event. Published notifications are
// colored by kind; other events are dimmed.
func printEvent(w io.Writer, ev bus.Event) {
	if ev.Type != bus.EventPublished || ev.Notification == nil {
		target := string(ev.ID)
		if target == "" {
			target = "all"
		}
		_, _ = dimColor.Fprintf(w, "%-9s %s (unread %d)\n", ev.Type, target, ev.UnreadCount)
		return
	}

	n := ev.Notification
	c, ok := kindColors[n.Kind]
	if !ok {
		c = kindColors[types.NotificationInfo]
	}
	_, _ = fmt.Fprintf(w, "%s ", n.CreatedAt.Format(time.TimeOnly))
	_, _ = c.Fprintf(w, "[%-8s]", n.Kind)
	_, _ = fmt.Fprintf(w, " %s: %s\n", n.Title, n.Message)
}

func cmdWatch() *cli.Command {
	var seedPath string
	var duration time.Duration
	var scenarios []string
	var noColor bool

	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Run the simulation headless and print the notification feed",
		Flags: []cli.Flag{
			seedFlag(&seedPath),
			&cli.DurationFlag{
				Name:        "duration",
				Usage:       "Stop after this long (0 runs until interrupted)",
				Sources:     cli.EnvVars("HASHCARE_WATCH_DURATION"),
				Destination: &duration,
			},
			&cli.StringSliceFlag{
				Name:        "scenario",
				Usage:       "Scenario ID to trigger on the admin agent at start (repeatable)",
				Destination: &scenarios,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Sources:     cli.EnvVars("NO_COLOR"),
				Destination: &noColor,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if noColor {
				color.NoColor = true
			}

			seed, err := loadSeed(ctx, seedPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load seed file")
			}

			uc := usecase.New(memory.New(), usecase.WithSeed(seed))
			defer uc.Shutdown()

			runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer cancel()
			if duration > 0 {
				var cancelTimeout context.CancelFunc
				runCtx, cancelTimeout = context.WithTimeout(runCtx, duration)
				defer cancelTimeout()
			}

			events, unsubscribe := uc.Bus.Subscribe(watchEventBuffer)
			defer unsubscribe()

			pool := worker.NewPool(uc.Workers(worker.WithImmediate())...)
			if err := pool.Start(runCtx); err != nil {
				return goerr.Wrap(err, "failed to start simulation workers")
			}
			defer pool.Stop()

			admin, err := uc.Agent(types.RoleAdmin)
			if err != nil {
				return err
			}
			for _, id := range scenarios {
				if _, err := admin.TriggerScenario(runCtx, types.ScenarioID(id)); err != nil {
					return goerr.Wrap(err, "failed to trigger scenario", goerr.V(config.IDKey, id))
				}
			}

			out := c.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			for {
				select {
				case <-runCtx.Done():
					_, _ = fmt.Fprintf(out, "unread notifications: %d\n", uc.Bus.UnreadCount())
					return nil
				case ev, ok := <-events:
					if !ok {
						return nil
					}
					printEvent(out, ev)
				}
			}
		},
	}
}
