package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client  *firestore.Client
	account *accountRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.account.collectionPrefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default
// database. The default accounts are created when the directory is empty.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var (
		client *firestore.Client
		err    error
	)
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:  client,
		account: newAccountRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	if err := f.account.ensureDefaults(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}

	return f, nil
}

func (f *Firestore) Account() interfaces.AccountRepository {
	return f.account
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
