package model

import (
	"net/mail"
	"strings"

	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// UserProfile is the public part of an account
type UserProfile struct {
	Name                  string         `json:"name" firestore:"name"`
	Email                 string         `json:"email" firestore:"email"`
	Role                  types.UserRole `json:"role" firestore:"role"`
	Height                string         `json:"height,omitempty" firestore:"height"`
	Weight                string         `json:"weight,omitempty" firestore:"weight"`
	BloodType             string         `json:"bloodType,omitempty" firestore:"blood_type"`
	Gender                string         `json:"gender,omitempty" firestore:"gender"`
	EmergencyContactName  string         `json:"emergencyContactName,omitempty" firestore:"emergency_contact_name"`
	EmergencyContactPhone string         `json:"emergencyContactPhone,omitempty" firestore:"emergency_contact_phone"`
	Avatar                string         `json:"avatar,omitempty" firestore:"avatar"`
}

// Account is a registered user with a credential
type Account struct {
	UserProfile
	Password string `json:"password" firestore:"password" masq:"secret"`
}

// NormalizeEmail is the directory key for an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Account) Validate() error {
	if a.Name == "" {
		return goerr.Wrap(ErrInvalidAccount, "name is required", goerr.V(FieldKey, "name"))
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return goerr.Wrap(ErrInvalidAccount, "invalid email", goerr.V(EmailKey, a.Email))
	}
	if a.Password == "" {
		return goerr.Wrap(ErrInvalidAccount, "password is required", goerr.V(FieldKey, "password"))
	}
	if !a.Role.IsValid() {
		return goerr.Wrap(ErrInvalidAccount, "invalid role", goerr.V("role", a.Role))
	}
	return nil
}

// ProfileUpdate is a partial profile update. Nil fields are left unchanged.
// Email and role cannot be changed.
type ProfileUpdate struct {
	Name                  *string `json:"name,omitempty"`
	Height                *string `json:"height,omitempty"`
	Weight                *string `json:"weight,omitempty"`
	BloodType             *string `json:"bloodType,omitempty"`
	Gender                *string `json:"gender,omitempty"`
	EmergencyContactName  *string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone *string `json:"emergencyContactPhone,omitempty"`
	Avatar                *string `json:"avatar,omitempty"`
}

// Apply returns a copy of p with the update applied
func (u ProfileUpdate) Apply(p UserProfile) UserProfile {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, u.Name)
	set(&p.Height, u.Height)
	set(&p.Weight, u.Weight)
	set(&p.BloodType, u.BloodType)
	set(&p.Gender, u.Gender)
	set(&p.EmergencyContactName, u.EmergencyContactName)
	set(&p.EmergencyContactPhone, u.EmergencyContactPhone)
	set(&p.Avatar, u.Avatar)
	return p
}

// DefaultAccounts are used whenever the account store is empty or unreadable
func DefaultAccounts() []Account {
	return []Account{
		{
			UserProfile: UserProfile{
				Name:                  "Dr. Vikram Malhotra",
				Email:                 "admin@hospital.com",
				Role:                  types.RoleAdmin,
				Height:                "180 cm",
				Weight:                "78 kg",
				Gender:                "Male",
				BloodType:             "O+",
				EmergencyContactName:  "Hospital HQ",
				EmergencyContactPhone: "011-4567-8900",
			},
			Password: "admin",
		},
		{
			UserProfile: UserProfile{
				Name:                  "Anurag Verma",
				Email:                 "user@hashcare.com",
				Role:                  types.RolePatient,
				Height:                "175 cm",
				Weight:                "70 kg",
				Gender:                "Male",
				BloodType:             "B+",
				EmergencyContactName:  "Priya Verma",
				EmergencyContactPhone: "+91 98765 43210",
			},
			Password: "user",
		},
	}
}
