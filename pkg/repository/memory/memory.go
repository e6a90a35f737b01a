package memory

import (
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	account *accountRepository
}

var _ interfaces.Repository = &Memory{}

// New creates an in-memory repository seeded with the default accounts
func New() *Memory {
	return &Memory{
		account: newAccountRepository(model.DefaultAccounts()),
	}
}

func (m *Memory) Account() interfaces.AccountRepository {
	return m.account
}

func (m *Memory) Close() error {
	return nil
}
