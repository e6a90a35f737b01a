package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/repository/file"
	"github.com/hashcare/hashcare/pkg/repository/firestore"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func runAccountRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("default accounts are present", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		admin, err := repo.Account().Get(ctx, "admin@hospital.com")
		gt.NoError(t, err).Required()
		gt.V(t, admin.Role).Equal(types.RoleAdmin)
		gt.V(t, admin.Password).Equal("admin")

		user, err := repo.Account().Get(ctx, "  USER@hashcare.com ")
		gt.NoError(t, err).Required()
		gt.V(t, user.Name).Equal("Anurag Verma")
		gt.V(t, user.Role).Equal(types.RolePatient)
	})

	t.Run("Create and Get", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		email := fmt.Sprintf("Nurse.%d@Hospital.com", time.Now().UnixNano())
		account := &model.Account{
			UserProfile: model.UserProfile{Name: "Nurse Priya", Email: email, Role: types.RolePatient, BloodType: "A+"},
			Password:    "secret",
		}
		gt.NoError(t, repo.Account().Create(ctx, account)).Required()

		got, err := repo.Account().Get(ctx, email)
		gt.NoError(t, err).Required()
		gt.V(t, got.Email).Equal(model.NormalizeEmail(email))
		gt.V(t, got.BloodType).Equal("A+")
		gt.V(t, got.Password).Equal("secret")

		accounts, err := repo.Account().List(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(accounts)).GreaterOrEqual(3)
	})

	t.Run("Create rejects duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account := &model.Account{
			UserProfile: model.UserProfile{Name: "Impostor", Email: "Admin@Hospital.com", Role: types.RoleAdmin},
			Password:    "x",
		}
		gt.Error(t, repo.Account().Create(ctx, account)).Is(model.ErrAlreadyExists)
	})

	t.Run("Update", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account, err := repo.Account().Get(ctx, "user@hashcare.com")
		gt.NoError(t, err).Required()
		account.Weight = "68 kg"
		gt.NoError(t, repo.Account().Update(ctx, account)).Required()

		got, err := repo.Account().Get(ctx, "user@hashcare.com")
		gt.NoError(t, err).Required()
		gt.V(t, got.Weight).Equal("68 kg")
	})

	t.Run("returned accounts are copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		account, err := repo.Account().Get(ctx, "admin@hospital.com")
		gt.NoError(t, err).Required()
		account.Name = "changed"

		got, err := repo.Account().Get(ctx, "admin@hospital.com")
		gt.NoError(t, err).Required()
		gt.V(t, got.Name).Equal("Dr. Vikram Malhotra")
	})

	t.Run("unknown account", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Account().Get(ctx, "nobody@example.com")
		gt.Error(t, err).Is(model.ErrNotFound)

		err = repo.Account().Update(ctx, &model.Account{UserProfile: model.UserProfile{Email: "nobody@example.com"}})
		gt.Error(t, err).Is(model.ErrNotFound)
	})
}

func TestMemoryAccountRepository(t *testing.T) {
	runAccountRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFileAccountRepository(t *testing.T) {
	runAccountRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		repo, err := file.New(context.Background(), filepath.Join(t.TempDir(), "accounts.json"))
		gt.NoError(t, err).Required()
		return repo
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestFirestoreAccountRepository(t *testing.T) {
	runAccountRepositoryTest(t, newFirestoreRepository)
}

func TestFileAccountRepository_Fallback(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: "{not json"},
		{name: "empty array", content: "[]"},
		{name: "wrong shape", content: `{"email": "a@b.c"}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "accounts.json")
			gt.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600)).Required()

			repo, err := file.New(ctx, path)
			gt.NoError(t, err).Required()

			accounts, err := repo.Account().List(ctx)
			gt.NoError(t, err).Required()
			gt.A(t, accounts).Length(2)
		})
	}
}

func TestFileAccountRepository_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "accounts.json")

	repo, err := file.New(ctx, path)
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Account().Create(ctx, &model.Account{
		UserProfile: model.UserProfile{Name: "Raj", Email: "raj@hashcare.com", Role: types.RolePatient},
		Password:    "pw",
	})).Required()

	reopened, err := file.New(ctx, path)
	gt.NoError(t, err).Required()
	got, err := reopened.Account().Get(ctx, "raj@hashcare.com")
	gt.NoError(t, err).Required()
	gt.V(t, got.Name).Equal("Raj")

	accounts, err := reopened.Account().List(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, accounts).Length(3)
}
