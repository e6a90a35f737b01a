package usecase_test

import (
	"context"
	"testing"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/repository/memory"
	"github.com/hashcare/hashcare/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func strPtr(s string) *string { return &s }

func TestAccountUseCase_Login(t *testing.T) {
	testCases := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantRole types.UserRole
	}{
		{name: "admin", email: "admin@hospital.com", password: "admin", wantRole: types.RoleAdmin},
		{name: "patient with mixed case email", email: " User@HashCare.com", password: "user", wantRole: types.RolePatient},
		{name: "wrong password", email: "admin@hospital.com", password: "user", wantErr: usecase.ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@hashcare.com", password: "admin", wantErr: usecase.ErrInvalidCredentials},
		{name: "empty password", email: "user@hashcare.com", password: "", wantErr: usecase.ErrInvalidCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := usecase.NewAccountUseCase(memory.New())
			profile, err := uc.Login(context.Background(), tc.email, tc.password)
			if tc.wantErr != nil {
				gt.Error(t, err).Is(tc.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.V(t, profile.Role).Equal(tc.wantRole)
		})
	}
}

func TestAccountUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("register then login", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(memory.New())
		profile, err := uc.Register(ctx, model.Account{
			UserProfile: model.UserProfile{Name: "Meera", Email: "Meera@HashCare.com", Role: types.RolePatient},
			Password:    "pw",
		})
		gt.NoError(t, err).Required()
		gt.V(t, profile.Email).Equal("meera@hashcare.com")

		got, err := uc.Login(ctx, "meera@hashcare.com", "pw")
		gt.NoError(t, err).Required()
		gt.V(t, got.Name).Equal("Meera")
	})

	t.Run("duplicate email", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(memory.New())
		_, err := uc.Register(ctx, model.Account{
			UserProfile: model.UserProfile{Name: "Copy", Email: "USER@hashcare.com", Role: types.RolePatient},
			Password:    "pw",
		})
		gt.Error(t, err).Is(model.ErrAlreadyExists)
	})

	t.Run("invalid account", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(memory.New())
		_, err := uc.Register(ctx, model.Account{
			UserProfile: model.UserProfile{Name: "No Mail", Email: "not-an-email", Role: types.RolePatient},
			Password:    "pw",
		})
		gt.Error(t, err).Is(model.ErrInvalidAccount)
	})
}

func TestAccountUseCase_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewAccountUseCase(memory.New())

	profile, err := uc.UpdateProfile(ctx, "user@hashcare.com", model.ProfileUpdate{
		Weight:               strPtr("68 kg"),
		EmergencyContactName: strPtr("Rahul Verma"),
	})
	gt.NoError(t, err).Required()
	gt.V(t, profile.Weight).Equal("68 kg")
	gt.V(t, profile.EmergencyContactName).Equal("Rahul Verma")
	gt.V(t, profile.Height).Equal("175 cm")
	gt.V(t, profile.Role).Equal(types.RolePatient)

	// the credential survives a profile update
	_, err = uc.Login(ctx, "user@hashcare.com", "user")
	gt.NoError(t, err)

	_, err = uc.UpdateProfile(ctx, "user@hashcare.com", model.ProfileUpdate{Name: strPtr("")})
	gt.Error(t, err).Is(model.ErrInvalidAccount)

	_, err = uc.UpdateProfile(ctx, "ghost@hashcare.com", model.ProfileUpdate{})
	gt.Error(t, err).Is(model.ErrNotFound)
}
