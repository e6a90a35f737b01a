// Package file keeps the account directory in a JSON file on local disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type File struct {
	account *accountRepository
}

var _ interfaces.Repository = &File{}

// New opens the account file at path. A missing, empty or malformed file
// yields the default accounts; the file is written on the first change.
func New(ctx context.Context, path string) (*File, error) {
	if path == "" {
		return nil, goerr.New("account file path is required")
	}

	accounts, err := load(ctx, path)
	if err != nil {
		return nil, err
	}

	return &File{
		account: &accountRepository{path: path, accounts: accounts},
	}, nil
}

func (f *File) Account() interfaces.AccountRepository {
	return f.account
}

func (f *File) Close() error {
	return nil
}

func load(ctx context.Context, path string) ([]model.Account, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return normalize(model.DefaultAccounts()), nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read account file", goerr.V("path", path))
	}

	var accounts []model.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		logging.From(ctx).Warn("account file is malformed, using default accounts",
			"path", path,
			"error", err.Error())
		return normalize(model.DefaultAccounts()), nil
	}
	if len(accounts) == 0 {
		return normalize(model.DefaultAccounts()), nil
	}
	return normalize(accounts), nil
}

func normalize(accounts []model.Account) []model.Account {
	for i := range accounts {
		accounts[i].Email = model.NormalizeEmail(accounts[i].Email)
	}
	return accounts
}

type accountRepository struct {
	path string

	mu       sync.RWMutex
	accounts []model.Account
}

var _ interfaces.AccountRepository = &accountRepository{}

func (r *accountRepository) index(email string) int {
	key := model.NormalizeEmail(email)
	return slices.IndexFunc(r.accounts, func(a model.Account) bool { return a.Email == key })
}

func (r *accountRepository) Get(ctx context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.index(email)
	if idx < 0 {
		return nil, goerr.Wrap(model.ErrNotFound, "account not found", goerr.V(model.EmailKey, model.NormalizeEmail(email)))
	}
	a := r.accounts[idx]
	return &a, nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accounts = append(accounts, &a)
	}
	slices.SortFunc(accounts, func(a, b *model.Account) int {
		return strings.Compare(a.Email, b.Email)
	})
	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(account.Email) >= 0 {
		return goerr.Wrap(model.ErrAlreadyExists, "account already exists", goerr.V(model.EmailKey, model.NormalizeEmail(account.Email)))
	}

	a := *account
	a.Email = model.NormalizeEmail(a.Email)
	next := append(slices.Clone(r.accounts), a)
	if err := r.save(next); err != nil {
		return err
	}
	r.accounts = next
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.index(account.Email)
	if idx < 0 {
		return goerr.Wrap(model.ErrNotFound, "account not found", goerr.V(model.EmailKey, model.NormalizeEmail(account.Email)))
	}

	a := *account
	a.Email = model.NormalizeEmail(a.Email)
	next := slices.Clone(r.accounts)
	next[idx] = a
	if err := r.save(next); err != nil {
		return err
	}
	r.accounts = next
	return nil
}

// save replaces the file atomically through a temp file in the same directory
func (r *accountRepository) save(accounts []model.Account) error {
	raw, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode accounts")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return goerr.Wrap(err, "failed to create account directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, ".accounts-*.json")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp account file", goerr.V("dir", dir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write temp account file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temp account file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return goerr.Wrap(err, "failed to replace account file", goerr.V("path", r.path))
	}
	return nil
}
