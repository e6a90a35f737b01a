package bus

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
)

// WellnessInterval is how often Wellness.Tick is expected to run
const WellnessInterval = 10 * time.Second

// wellnessChance is the probability that a tick publishes a tip
const wellnessChance = 0.2

var wellnessTips = []model.NotificationSpec{
	{Kind: types.NotificationInfo, Title: "Hydration Reminder", Message: "Time for a glass of water. You are 300ml behind today's goal."},
	{Kind: types.NotificationSuccess, Title: "Goal Reached", Message: "You hit your 8,000 step goal. Great work!"},
	{Kind: types.NotificationWarning, Title: "Sedentary Alert", Message: "You have been inactive for 60 minutes. Take a short walk."},
	{Kind: types.NotificationInfo, Title: "Dr. Sharma Available", Message: "Your cardiologist has an open slot this afternoon."},
	{Kind: types.NotificationWarning, Title: "High UV Index", Message: "UV index is high outside. Use sunscreen if you go out."},
}

// Wellness publishes ambient wellness tips at random
type Wellness struct {
	notifier interfaces.Notifier
	rng      *rand.Rand
}

var _ interfaces.Simulator = &Wellness{}

func NewWellness(notifier interfaces.Notifier, rng *rand.Rand) *Wellness {
	return &Wellness{notifier: notifier, rng: rng}
}

// Tick publishes one tip with a fixed probability
func (w *Wellness) Tick(ctx context.Context) error {
	if w.rng.Float64() >= wellnessChance {
		return nil
	}
	tip := wellnessTips[w.rng.IntN(len(wellnessTips))]
	w.notifier.Publish(ctx, tip.Kind, tip.Title, tip.Message, model.DefaultToastTTL)
	return nil
}
