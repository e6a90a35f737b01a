package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashcare/hashcare/pkg/cli/config"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// mimeTypes covers the upload formats the dashboard accepts
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".txt":  "text/plain",
}

func detectMimeType(path string, data []byte) string {
	if t, ok := mimeTypes[filepath.Ext(path)]; ok {
		return t
	}
	return http.DetectContentType(data)
}

func cmdAnalyze() *cli.Command {
	var geminiCfg config.Gemini
	var transcript bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "transcript",
			Usage:       "Treat the file as a consultation transcript",
			Destination: &transcript,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze a medical document or transcript and print the result as JSON",
		ArgsUsage: "FILE",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.Wrap(model.ErrInvalidInput, "file argument is required")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return goerr.Wrap(err, "failed to read file", goerr.V("path", path))
			}

			gw := newGateway(ctx, &geminiCfg)

			var result any
			if transcript {
				result = gw.AnalyzeTranscript(ctx, string(data))
			} else {
				result = gw.AnalyzeDocument(ctx, data, detectMimeType(path, data))
			}

			out := c.Root().Writer
			if out == nil {
				out = os.Stdout
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return goerr.Wrap(err, "failed to encode analysis")
			}
			return nil
		},
	}
}
