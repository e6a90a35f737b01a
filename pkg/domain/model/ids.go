package model

import "github.com/google/uuid"

// Identifiers are UUIDv7: a millisecond timestamp prefix followed by random
// bits, so two records created in the same millisecond never collide and
// lexical order follows creation order.

type NotificationID string

func NewNotificationID() NotificationID { return NotificationID(newV7()) }

func (id NotificationID) String() string { return string(id) }

type ThoughtID string

func NewThoughtID() ThoughtID { return ThoughtID(newV7()) }

type ActionID string

func NewActionID() ActionID { return ActionID(newV7()) }

func (id ActionID) String() string { return string(id) }

// RunID identifies one triggered scenario run
type RunID string

func NewRunID() RunID { return RunID(newV7()) }

func (id RunID) String() string { return string(id) }

type DocumentID string

func NewDocumentID() DocumentID { return DocumentID(newV7()) }

func (id DocumentID) String() string { return string(id) }

type MemoryID string

func NewMemoryID() MemoryID { return MemoryID(newV7()) }

func newV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails
		return uuid.NewString()
	}
	return id.String()
}
