package config

import (
	"context"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/repository/gcs"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage selects where uploaded medical documents are kept
type Storage struct {
	backend string
	bucket  string
	prefix  string
}

func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Document store backend (memory or gcs)",
			Category:    "Storage",
			Value:       "memory",
			Sources:     cli.EnvVars("HASHCARE_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "Cloud Storage bucket (gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("HASHCARE_GCS_BUCKET"),
			Destination: &s.bucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Usage:       "Object name prefix in the bucket",
			Category:    "Storage",
			Value:       "hashcare",
			Sources:     cli.EnvVars("HASHCARE_GCS_PREFIX"),
			Destination: &s.prefix,
		},
	}
}

// Configure returns the document store and a closer for it
func (s *Storage) Configure(ctx context.Context) (interfaces.DocumentStore, func(), error) {
	switch s.backend {
	case "gcs":
		if s.bucket == "" {
			return nil, nil, goerr.Wrap(ErrInvalidConfig, "gcs-bucket is required when using gcs backend")
		}
		store, err := gcs.New(ctx, s.bucket, gcs.WithPrefix(s.prefix))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to initialize document store")
		}
		logging.From(ctx).Info("Using Cloud Storage document store", "bucket", s.bucket, "prefix", s.prefix)
		closer := func() {
			if err := store.Close(); err != nil {
				logging.Default().Error("failed to close document store", "error", err)
			}
		}
		return store, closer, nil

	case "memory":
		return memory.NewDocumentStore(), func() {}, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "invalid storage backend", goerr.V(BackendKey, s.backend))
	}
}
