package usecase

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type AccountUseCase struct {
	repo interfaces.Repository
}

func NewAccountUseCase(repo interfaces.Repository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Login checks the credential and returns the public profile
func (uc *AccountUseCase) Login(ctx context.Context, email, password string) (*model.UserProfile, error) {
	account, err := uc.repo.Account().Get(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrInvalidCredentials, "unknown account", goerr.V(model.EmailKey, model.NormalizeEmail(email)))
		}
		return nil, goerr.Wrap(err, "failed to get account")
	}

	if subtle.ConstantTimeCompare([]byte(account.Password), []byte(password)) != 1 {
		return nil, goerr.Wrap(ErrInvalidCredentials, "password mismatch", goerr.V(model.EmailKey, account.Email))
	}

	logging.From(ctx).Info("user logged in", "email", account.Email, "role", account.Role)
	profile := account.UserProfile
	return &profile, nil
}

// Register creates a new account. The email is normalized before storing.
func (uc *AccountUseCase) Register(ctx context.Context, account model.Account) (*model.UserProfile, error) {
	account.Email = model.NormalizeEmail(account.Email)
	if err := account.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Account().Create(ctx, &account); err != nil {
		return nil, err
	}

	logging.From(ctx).Info("account registered", "email", account.Email, "role", account.Role)
	profile := account.UserProfile
	return &profile, nil
}

func (uc *AccountUseCase) Profile(ctx context.Context, email string) (*model.UserProfile, error) {
	account, err := uc.repo.Account().Get(ctx, email)
	if err != nil {
		return nil, err
	}
	profile := account.UserProfile
	return &profile, nil
}

// UpdateProfile applies a partial update. Email, role and password are kept.
func (uc *AccountUseCase) UpdateProfile(ctx context.Context, email string, update model.ProfileUpdate) (*model.UserProfile, error) {
	account, err := uc.repo.Account().Get(ctx, email)
	if err != nil {
		return nil, err
	}

	account.UserProfile = update.Apply(account.UserProfile)
	if account.Name == "" {
		return nil, goerr.Wrap(model.ErrInvalidAccount, "name is required", goerr.V(model.FieldKey, "name"))
	}

	if err := uc.repo.Account().Update(ctx, account); err != nil {
		return nil, err
	}

	profile := account.UserProfile
	return &profile, nil
}
