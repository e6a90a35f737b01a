package bus

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
)

// EventType describes a change to the bus state
type EventType string

const (
	EventPublished EventType = "published"
	EventDismissed EventType = "dismissed"
	EventRemoved   EventType = "removed"
	EventRead      EventType = "read"
	EventCleared   EventType = "cleared"
)

// Event is delivered to subscribers after every state change
type Event struct {
	Type         EventType            `json:"type"`
	Notification *model.Notification  `json:"notification,omitempty"`
	ID           model.NotificationID `json:"id,omitempty"`
	UnreadCount  int                  `json:"unreadCount"`
}

// Bus is the notification hub. It keeps two projections of the same
// notifications: history (most recent first, persists until removed) and
// toasts (oldest first, expire after their TTL).
//
// Both slices are copy-on-write: every mutation builds a new slice under mu
// and swaps it in, so a snapshot handed out earlier never changes.
type Bus struct {
	clock clock.Clock

	mu      sync.Mutex
	history []model.Notification
	toasts  []model.Notification
	timers  map[model.NotificationID]*clock.Timer
	subs    map[int]chan Event
	nextSub int
}

var _ interfaces.Notifier = &Bus{}

type Option func(*Bus)

// WithClock replaces the wall clock, mainly for tests
func WithClock(clk clock.Clock) Option {
	return func(b *Bus) {
		b.clock = clk
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{
		clock:  clock.New(),
		timers: make(map[model.NotificationID]*clock.Timer),
		subs:   make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish records a new notification. Unknown kinds are published as info.
// A ttl of zero or less (model.StickyTTL) keeps the toast until it is
// dismissed.
func (b *Bus) Publish(ctx context.Context, kind types.NotificationKind, title, message string, ttl time.Duration) model.Notification {
	n := model.Notification{
		ID:        model.NewNotificationID(),
		Kind:      types.NormalizeNotificationKind(kind),
		Title:     title,
		Message:   message,
		CreatedAt: b.clock.Now(),
		TTL:       model.ResolveTTL(ttl),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	history := make([]model.Notification, 0, len(b.history)+1)
	history = append(history, n)
	b.history = append(history, b.history...)

	b.toasts = append(slices.Clone(b.toasts), n)

	if n.TTL > 0 {
		id := n.ID
		b.timers[id] = b.clock.AfterFunc(n.TTL, func() { b.expire(id) })
	}

	logging.From(ctx).Debug("notification published",
		"id", n.ID,
		"kind", n.Kind,
		"title", n.Title,
		"ttl", n.TTL,
	)

	b.broadcast(Event{Type: EventPublished, Notification: &n, ID: n.ID})
	return n
}

// expire is the TTL timer callback. It is a no-op when the toast was
// already dismissed, removed or cleared.
func (b *Bus) expire(id model.NotificationID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.timers[id]; !ok {
		return
	}
	delete(b.timers, id)

	if b.dropToast(id) {
		b.broadcast(Event{Type: EventDismissed, ID: id})
	}
}

// DismissToast hides a toast. History is untouched. Dismissing twice, or
// dismissing an unknown id, is a no-op.
func (b *Bus) DismissToast(id model.NotificationID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimer(id)
	if b.dropToast(id) {
		b.broadcast(Event{Type: EventDismissed, ID: id})
	}
}

// Remove deletes a notification from both projections
func (b *Bus) Remove(id model.NotificationID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimer(id)
	droppedToast := b.dropToast(id)

	idx := slices.IndexFunc(b.history, func(n model.Notification) bool { return n.ID == id })
	if idx >= 0 {
		b.history = slices.Delete(slices.Clone(b.history), idx, idx+1)
	}

	if droppedToast || idx >= 0 {
		b.broadcast(Event{Type: EventRemoved, ID: id})
	}
}

// MarkRead marks one notification as read. Unknown ids are ignored.
func (b *Bus) MarkRead(id model.NotificationID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.markRead(func(n model.Notification) bool { return n.ID == id }) {
		b.broadcast(Event{Type: EventRead, ID: id})
	}
}

// MarkAllRead marks every notification in history as read
func (b *Bus) MarkAllRead() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.markRead(func(model.Notification) bool { return true }) {
		b.broadcast(Event{Type: EventRead})
	}
}

// ClearAll empties history and toasts and cancels every pending expiry
func (b *Bus) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, t := range b.timers {
		t.Stop()
		delete(b.timers, id)
	}
	b.history = nil
	b.toasts = nil

	b.broadcast(Event{Type: EventCleared})
}

// History returns notifications, most recent first
func (b *Bus) History() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.history)
}

// Toasts returns visible toasts, oldest first
func (b *Bus) Toasts() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.toasts)
}

// UnreadCount is recomputed from history on every call
func (b *Bus) UnreadCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unreadCount()
}

// Subscribe registers a consumer of bus events. Delivery never blocks the
// bus: when the channel buffer is full the event is dropped for that
// subscriber. The returned function unsubscribes and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, max(buffer, 1))

	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// PendingTimers returns the number of scheduled toast expiries
func (b *Bus) PendingTimers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.timers)
}

func (b *Bus) stopTimer(id model.NotificationID) {
	if t, ok := b.timers[id]; ok {
		t.Stop()
		delete(b.timers, id)
	}
}

func (b *Bus) dropToast(id model.NotificationID) bool {
	idx := slices.IndexFunc(b.toasts, func(n model.Notification) bool { return n.ID == id })
	if idx < 0 {
		return false
	}
	b.toasts = slices.Delete(slices.Clone(b.toasts), idx, idx+1)
	return true
}

func (b *Bus) markRead(match func(model.Notification) bool) bool {
	changed := false
	mark := func(src []model.Notification) []model.Notification {
		var dst []model.Notification
		for i, n := range src {
			if n.Read || !match(n) {
				continue
			}
			if dst == nil {
				dst = slices.Clone(src)
			}
			dst[i].Read = true
			changed = true
		}
		if dst == nil {
			return src
		}
		return dst
	}

	b.history = mark(b.history)
	b.toasts = mark(b.toasts)
	return changed
}

func (b *Bus) unreadCount() int {
	count := 0
	for _, n := range b.history {
		if !n.Read {
			count++
		}
	}
	return count
}

func (b *Bus) broadcast(ev Event) {
	ev.UnreadCount = b.unreadCount()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
