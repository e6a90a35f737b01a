package interfaces

import (
	"context"

	"github.com/hashcare/hashcare/pkg/domain/model"
)

// Repository defines the interface for data persistence
type Repository interface {
	Account() AccountRepository
	Close() error
}

// AccountRepository is the account directory keyed by normalized email.
// Implementations wrap model.ErrNotFound and model.ErrAlreadyExists with
// goerr.
type AccountRepository interface {
	Get(ctx context.Context, email string) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
	Create(ctx context.Context, account *model.Account) error
	Update(ctx context.Context, account *model.Account) error
}

// DocumentStore holds raw uploaded medical documents. Get wraps
// model.ErrNotFound for unknown keys.
type DocumentStore interface {
	Put(ctx context.Context, key string, mimeType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
}
