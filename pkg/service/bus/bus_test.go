package bus_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/bus"
	"github.com/m-mizutani/gt"
)

// waitFor polls cond until it holds; mock clock callbacks run on their own
// goroutine.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func newBus() (*bus.Bus, *clock.Mock) {
	mock := clock.NewMock()
	return bus.New(bus.WithClock(mock)), mock
}

func TestBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("appears once in history and toasts", func(t *testing.T) {
		b, mock := newBus()
		n := b.Publish(ctx, types.NotificationCritical, "High Heart Rate Alert", "Patient HR exceeds 110bpm at rest.", 8*time.Second)

		gt.String(t, string(n.ID)).NotEqual("")
		gt.V(t, n.CreatedAt).Equal(mock.Now())
		gt.B(t, n.Read).False()

		history := b.History()
		gt.A(t, history).Length(1)
		gt.V(t, history[0].ID).Equal(n.ID)
		gt.A(t, b.Toasts()).Length(1)
		gt.Number(t, b.UnreadCount()).Equal(1)
	})

	t.Run("history is most recent first, toasts oldest first", func(t *testing.T) {
		b, _ := newBus()
		first := b.Publish(ctx, types.NotificationInfo, "first", "", 0)
		second := b.Publish(ctx, types.NotificationInfo, "second", "", 0)

		history := b.History()
		gt.V(t, history[0].ID).Equal(second.ID)
		gt.V(t, history[1].ID).Equal(first.ID)

		toasts := b.Toasts()
		gt.V(t, toasts[0].ID).Equal(first.ID)
		gt.V(t, toasts[1].ID).Equal(second.ID)
	})

	t.Run("unknown kind is published as info", func(t *testing.T) {
		b, _ := newBus()
		n := b.Publish(ctx, "alert", "legacy", "", 0)
		gt.V(t, n.Kind).Equal(types.NotificationInfo)
	})

	t.Run("zero and negative ttl are sticky", func(t *testing.T) {
		b, mock := newBus()
		zero := b.Publish(ctx, types.NotificationInfo, "zero", "", 0)
		negative := b.Publish(ctx, types.NotificationInfo, "negative", "", -time.Second)
		gt.V(t, zero.TTL).Equal(model.StickyTTL)
		gt.V(t, negative.TTL).Equal(model.StickyTTL)
		gt.Number(t, b.PendingTimers()).Equal(0)

		mock.Add(time.Minute)
		gt.A(t, b.Toasts()).Length(2)
	})

	t.Run("default toast ttl expires", func(t *testing.T) {
		b, mock := newBus()
		b.Publish(ctx, types.NotificationInfo, "default", "", model.DefaultToastTTL)
		gt.Number(t, b.PendingTimers()).Equal(1)

		mock.Add(model.DefaultToastTTL + time.Millisecond)
		waitFor(t, func() bool { return len(b.Toasts()) == 0 })
		gt.A(t, b.History()).Length(1)
	})
}

func TestBus_ToastExpiry(t *testing.T) {
	ctx := context.Background()

	t.Run("toast expires after ttl but stays in history", func(t *testing.T) {
		b, mock := newBus()
		b.Publish(ctx, types.NotificationCritical, "High Heart Rate Alert", "Patient HR exceeds 110bpm at rest. Interventional protocol recommended.", 8*time.Second)

		mock.Add(8*time.Second - time.Millisecond)
		gt.A(t, b.Toasts()).Length(1)

		mock.Add(2 * time.Millisecond)
		waitFor(t, func() bool { return len(b.Toasts()) == 0 })

		gt.A(t, b.History()).Length(1)
		gt.Number(t, b.UnreadCount()).Equal(1)
		gt.Number(t, b.PendingTimers()).Equal(0)
	})

	t.Run("sticky toast never expires", func(t *testing.T) {
		b, mock := newBus()
		n := b.Publish(ctx, types.NotificationWarning, "Pinned", "", model.StickyTTL)
		gt.B(t, n.Sticky()).True()
		gt.Number(t, b.PendingTimers()).Equal(0)

		mock.Add(time.Hour)
		gt.A(t, b.Toasts()).Length(1)
	})

	t.Run("expiry after early dismissal is a no-op", func(t *testing.T) {
		b, mock := newBus()
		n := b.Publish(ctx, types.NotificationInfo, "short", "", time.Second)
		other := b.Publish(ctx, types.NotificationInfo, "other", "", time.Hour)

		b.DismissToast(n.ID)
		gt.Number(t, b.PendingTimers()).Equal(1)

		mock.Add(2 * time.Second)
		toasts := b.Toasts()
		gt.A(t, toasts).Length(1)
		gt.V(t, toasts[0].ID).Equal(other.ID)
		gt.A(t, b.History()).Length(2)
	})
}

func TestBus_DismissToast(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()
	n := b.Publish(ctx, types.NotificationSuccess, "Protocol Executed", "done", 0)

	b.DismissToast(n.ID)
	gt.A(t, b.Toasts()).Length(0)
	gt.A(t, b.History()).Length(1)

	// idempotent
	b.DismissToast(n.ID)
	b.DismissToast("unknown")
	gt.A(t, b.Toasts()).Length(0)
	gt.A(t, b.History()).Length(1)
}

func TestBus_Remove(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()
	n := b.Publish(ctx, types.NotificationError, "Workforce Alert", "", model.DefaultToastTTL)
	keep := b.Publish(ctx, types.NotificationInfo, "keep", "", model.DefaultToastTTL)

	b.Remove(n.ID)
	gt.A(t, b.History()).Length(1)
	gt.A(t, b.Toasts()).Length(1)
	gt.V(t, b.History()[0].ID).Equal(keep.ID)
	gt.Number(t, b.PendingTimers()).Equal(1)
}

func TestBus_ClearAll(t *testing.T) {
	ctx := context.Background()
	b, mock := newBus()
	for range 3 {
		b.Publish(ctx, types.NotificationInfo, "n", "", model.DefaultToastTTL)
	}
	gt.Number(t, b.PendingTimers()).Equal(3)

	b.ClearAll()
	gt.A(t, b.History()).Length(0)
	gt.A(t, b.Toasts()).Length(0)
	gt.Number(t, b.UnreadCount()).Equal(0)
	gt.Number(t, b.PendingTimers()).Equal(0)

	mock.Add(time.Minute)
	gt.A(t, b.Toasts()).Length(0)
}

func TestBus_MarkRead(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()
	first := b.Publish(ctx, types.NotificationInfo, "first", "", 0)
	b.Publish(ctx, types.NotificationInfo, "second", "", 0)
	gt.Number(t, b.UnreadCount()).Equal(2)

	b.MarkRead(first.ID)
	gt.Number(t, b.UnreadCount()).Equal(1)
	b.MarkRead(first.ID)
	b.MarkRead("unknown")
	gt.Number(t, b.UnreadCount()).Equal(1)

	b.MarkAllRead()
	gt.Number(t, b.UnreadCount()).Equal(0)
	for _, n := range b.History() {
		gt.B(t, n.Read).True()
	}
}

func TestBus_SnapshotsAreStable(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()
	n := b.Publish(ctx, types.NotificationInfo, "first", "", 0)

	history := b.History()
	toasts := b.Toasts()

	b.Publish(ctx, types.NotificationInfo, "second", "", 0)
	b.MarkRead(n.ID)
	b.DismissToast(n.ID)

	gt.A(t, history).Length(1)
	gt.B(t, history[0].Read).False()
	gt.A(t, toasts).Length(1)
	gt.V(t, toasts[0].ID).Equal(n.ID)
}

func TestBus_Subscribe(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()

	events, cancel := b.Subscribe(8)
	n := b.Publish(ctx, types.NotificationCritical, "SOS BEACON DETECTED", "", 0)
	b.DismissToast(n.ID)

	ev := <-events
	gt.V(t, ev.Type).Equal(bus.EventPublished)
	gt.V(t, ev.Notification.ID).Equal(n.ID)
	gt.Number(t, ev.UnreadCount).Equal(1)

	ev = <-events
	gt.V(t, ev.Type).Equal(bus.EventDismissed)
	gt.V(t, ev.ID).Equal(n.ID)

	cancel()
	cancel()
	_, ok := <-events
	gt.B(t, ok).False()

	// publishing after unsubscribe must not block or panic
	b.Publish(ctx, types.NotificationInfo, "after", "", 0)
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()
	_, cancel := b.Subscribe(1)
	defer cancel()

	for range 50 {
		b.Publish(ctx, types.NotificationInfo, "flood", "", 0)
	}
	gt.A(t, b.History()).Length(50)
}

func TestWellness_Tick(t *testing.T) {
	ctx := context.Background()
	b, _ := newBus()
	w := bus.NewWellness(b, rand.New(rand.NewPCG(1, 2)))

	for range 200 {
		gt.NoError(t, w.Tick(ctx))
	}

	published := len(b.History())
	gt.B(t, published > 0).True()
	gt.B(t, published < 200).True()

	titles := map[string]bool{
		"Hydration Reminder":   true,
		"Goal Reached":         true,
		"Sedentary Alert":      true,
		"Dr. Sharma Available": true,
		"High UV Index":        true,
	}
	for _, n := range b.History() {
		gt.B(t, titles[n.Title]).True()
	}
}
