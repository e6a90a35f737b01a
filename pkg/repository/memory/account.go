package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*model.Account
}

var _ interfaces.AccountRepository = &accountRepository{}

func newAccountRepository(seed []model.Account) *accountRepository {
	r := &accountRepository{
		accounts: make(map[string]*model.Account, len(seed)),
	}
	for _, a := range seed {
		a.Email = model.NormalizeEmail(a.Email)
		r.accounts[a.Email] = &a
	}
	return r
}

// Get retrieves an account by email
func (r *accountRepository) Get(ctx context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := model.NormalizeEmail(email)
	a, ok := r.accounts[key]
	if !ok {
		return nil, goerr.Wrap(model.ErrNotFound, "account not found", goerr.V(model.EmailKey, key))
	}

	// Return a copy to prevent external modifications
	accountCopy := *a
	return &accountCopy, nil
}

// List returns every account ordered by email
func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		accountCopy := *a
		accounts = append(accounts, &accountCopy)
	}
	slices.SortFunc(accounts, func(a, b *model.Account) int {
		return strings.Compare(a.Email, b.Email)
	})
	return accounts, nil
}

// Create adds a new account. The email must not be registered yet.
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountCopy := *account
	accountCopy.Email = model.NormalizeEmail(account.Email)
	if _, exists := r.accounts[accountCopy.Email]; exists {
		return goerr.Wrap(model.ErrAlreadyExists, "account already exists", goerr.V(model.EmailKey, accountCopy.Email))
	}

	r.accounts[accountCopy.Email] = &accountCopy
	return nil
}

// Update replaces an existing account
func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountCopy := *account
	accountCopy.Email = model.NormalizeEmail(account.Email)
	if _, exists := r.accounts[accountCopy.Email]; !exists {
		return goerr.Wrap(model.ErrNotFound, "account not found", goerr.V(model.EmailKey, accountCopy.Email))
	}

	r.accounts[accountCopy.Email] = &accountCopy
	return nil
}
