package usecase

import (
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for use case layer
var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike
	ErrInvalidCredentials = goerr.New("Invalid email or password.")

	// ErrUnknownRole is returned when no agent engine serves the role
	ErrUnknownRole = goerr.Wrap(model.ErrInvalidInput, "unknown role")
)

// Context keys for error values
const (
	RoleKey = "role"
)
