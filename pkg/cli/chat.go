package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashcare/hashcare/pkg/cli/config"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdChat() *cli.Command {
	var geminiCfg config.Gemini
	var healthBot bool
	var language string
	var patientContext string
	var tip bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "healthbot",
			Usage:       "Ask the health bot instead of the clinical assistant",
			Destination: &healthBot,
		},
		&cli.StringFlag{
			Name:        "language",
			Usage:       "Reply language for the health bot",
			Value:       "English",
			Destination: &language,
		},
		&cli.StringFlag{
			Name:        "context",
			Usage:       "Patient context passed to the clinical assistant",
			Destination: &patientContext,
		},
		&cli.BoolFlag{
			Name:        "tip",
			Usage:       "Print the daily wellness tip and exit",
			Destination: &tip,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "chat",
		Aliases:   []string{"c"},
		Usage:     "Send one message to the AI gateway and print the reply",
		ArgsUsage: "MESSAGE...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			gw := newGateway(ctx, &geminiCfg)

			out := c.Root().Writer
			if out == nil {
				out = os.Stdout
			}

			if tip {
				_, _ = fmt.Fprintln(out, gw.DailyTip(ctx))
				return nil
			}

			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if message == "" {
				return goerr.Wrap(model.ErrInvalidInput, "message is required")
			}

			var reply string
			if healthBot {
				reply = gw.HealthBot(ctx, message, language)
			} else {
				reply = gw.Chat(ctx, message, patientContext)
			}
			_, _ = fmt.Fprintln(out, reply)
			return nil
		},
	}
}
