package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashcare/hashcare/pkg/cli/config"
	httpctrl "github.com/hashcare/hashcare/pkg/controller/http"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/service/gateway"
	"github.com/hashcare/hashcare/pkg/service/worker"
	"github.com/hashcare/hashcare/pkg/usecase"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/urfave/cli/v3"
)

// slackEventBuffer sizes the bus subscription feeding the Slack forwarder
const slackEventBuffer = 32

// seedFlag is shared by every command that builds the simulation
func seedFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "seed",
		Usage:       "TOML file overriding the built-in fleet, hospital and scenario data",
		Sources:     cli.EnvVars("HASHCARE_SEED"),
		Destination: dst,
	}
}

// loadSeed returns nil when no seed file was given
func loadSeed(ctx context.Context, path string) (*model.Seed, error) {
	if path == "" {
		return nil, nil
	}
	seed, err := config.LoadSeed(path)
	if err != nil {
		return nil, err
	}
	logging.From(ctx).Info("Loaded seed file",
		"path", path,
		"ambulances", len(seed.Ambulances),
		"staff", len(seed.Staff),
		"inventory", len(seed.Inventory),
		"scenarios", len(seed.Scenarios),
	)
	return seed, nil
}

// llmConfig is satisfied by config.Gemini
type llmConfig interface {
	Configure(ctx context.Context) (gollem.LLMClient, error)
	LogAttrs() []slog.Attr
}

// newGateway builds the AI gateway. Without a configured project, or when
// the client cannot be created, it answers with simulated replies.
func newGateway(ctx context.Context, cfg llmConfig) *gateway.Gateway {
	client, err := cfg.Configure(ctx)
	if err != nil {
		logging.From(ctx).Warn("Gemini client unavailable, using simulated replies", "error", err)
		return gateway.New(nil)
	}
	if client == nil {
		logging.From(ctx).Info("Gemini project not configured, using simulated replies")
		return gateway.New(nil)
	}
	logging.From(ctx).LogAttrs(ctx, slog.LevelInfo, "Gemini gateway enabled", cfg.LogAttrs()...)
	return gateway.New(client)
}

func cmdServe() *cli.Command {
	var addr string
	var staticDir string
	var seedPath string
	var geminiCfg config.Gemini
	var repoCfg config.Repository
	var storageCfg config.Storage
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HASHCARE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "static",
			Usage:       "Directory with the built dashboard; unknown paths fall back to its index.html",
			Sources:     cli.EnvVars("HASHCARE_STATIC"),
			Destination: &staticDir,
		},
		seedFlag(&seedPath),
	}

	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and the live simulation",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			seed, err := loadSeed(ctx, seedPath)
			if err != nil {
				return goerr.Wrap(err, "failed to load seed file")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			store, closeStore, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize document store")
			}
			defer closeStore()

			gw := newGateway(ctx, &geminiCfg)

			forwarder, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack forwarding")
			}

			uc := usecase.New(repo,
				usecase.WithGateway(gw),
				usecase.WithDocumentStore(store),
				usecase.WithSeed(seed),
			)
			defer uc.Shutdown()

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			pool := worker.NewPool(uc.Workers()...)
			if err := pool.Start(runCtx); err != nil {
				return goerr.Wrap(err, "failed to start simulation workers")
			}
			defer pool.Stop()

			if forwarder != nil {
				events, unsubscribe := uc.Bus.Subscribe(slackEventBuffer)
				defer unsubscribe()
				go forwarder.Run(runCtx, events)
				logging.Default().Info("Slack forwarding enabled", "slack", slackCfg)
			}

			var httpOpts []httpctrl.Options
			if staticDir != "" {
				httpOpts = append(httpOpts, httpctrl.WithStatic(os.DirFS(staticDir)))
			}
			handler := httpctrl.New(uc, httpOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "static", staticDir)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				handler.Close()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
			}

			// websocket connections are hijacked and not closed by Shutdown
			handler.Close()

			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelShutdown()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
