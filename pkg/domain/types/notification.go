package types

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"
)

// NotificationKind is the severity class of a notification
type NotificationKind string

const (
	NotificationInfo     NotificationKind = "info"
	NotificationSuccess  NotificationKind = "success"
	NotificationWarning  NotificationKind = "warning"
	NotificationError    NotificationKind = "error"
	NotificationCritical NotificationKind = "critical"
)

// AllNotificationKinds returns all valid notification kinds, least severe first
func AllNotificationKinds() []NotificationKind {
	return []NotificationKind{
		NotificationInfo,
		NotificationSuccess,
		NotificationWarning,
		NotificationError,
		NotificationCritical,
	}
}

func (k NotificationKind) IsValid() bool {
	return slices.Contains(AllNotificationKinds(), k)
}

func (k NotificationKind) String() string {
	return string(k)
}

// Urgent reports whether the kind should be forwarded to on-call channels
func (k NotificationKind) Urgent() bool {
	return k == NotificationError || k == NotificationCritical
}

// ParseNotificationKind parses s strictly
func ParseNotificationKind(s string) (NotificationKind, error) {
	k := NotificationKind(s)
	if !k.IsValid() {
		return "", goerr.New("invalid notification kind", goerr.V("kind", s))
	}
	return k, nil
}

// NormalizeNotificationKind maps unknown kinds to info
func NormalizeNotificationKind(k NotificationKind) NotificationKind {
	if k.IsValid() {
		return k
	}
	return NotificationInfo
}
