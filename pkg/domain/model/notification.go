package model

import (
	"time"

	"github.com/hashcare/hashcare/pkg/domain/types"
)

const (
	// DefaultToastTTL is the toast lifetime publishers use unless they
	// need a specific one
	DefaultToastTTL = 5 * time.Second
	// StickyTTL keeps a toast until it is dismissed
	StickyTTL time.Duration = 0
)

// ResolveTTL maps a requested TTL onto the stored one. Zero and negative
// values are sticky.
func ResolveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return StickyTTL
	}
	return ttl
}

// Notification is a single event shown to the user. The same value backs
// both the toast projection and the history projection.
type Notification struct {
	ID        NotificationID         `json:"id"`
	Kind      types.NotificationKind `json:"kind"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	CreatedAt time.Time              `json:"createdAt"`
	Read      bool                   `json:"read"`
	// TTL is how long the toast stays visible. Zero means sticky.
	TTL time.Duration `json:"ttl"`
}

// Sticky reports whether the toast stays until dismissed
func (n Notification) Sticky() bool {
	return n.TTL <= 0
}

// NotificationSpec is a notification template used by scenario scripts
type NotificationSpec struct {
	Kind    types.NotificationKind `json:"kind"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	TTL     time.Duration          `json:"ttl"`
}
