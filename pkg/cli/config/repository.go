package config

import (
	"context"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/repository/file"
	"github.com/hashcare/hashcare/pkg/repository/firestore"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for the account directory backend
type Repository struct {
	backend    string
	path       string
	projectID  string
	databaseID string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Account directory backend (memory, file or firestore)",
			Category:    "Repository",
			Value:       "memory",
			Sources:     cli.EnvVars("HASHCARE_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "repository-path",
			Usage:       "JSON file holding accounts (file backend)",
			Category:    "Repository",
			Value:       "hashcare_users.json",
			Sources:     cli.EnvVars("HASHCARE_REPOSITORY_PATH"),
			Destination: &r.path,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("HASHCARE_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("HASHCARE_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
	}
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "firestore":
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.From(ctx).Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case "file":
		if r.path == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "repository-path is required when using file backend")
		}
		repo, err := file.New(ctx, r.path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file repository")
		}
		logging.From(ctx).Info("Using file repository", "path", r.path)
		return repo, nil

	case "memory":
		logging.From(ctx).Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid repository backend", goerr.V(BackendKey, r.backend))
	}
}
