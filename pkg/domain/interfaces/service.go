package interfaces

import (
	"context"
	"time"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
)

// Notifier publishes user facing notifications. Publishing never fails.
// A zero ttl (model.StickyTTL) keeps the toast
// until dismissed.
type Notifier interface {
	Publish(ctx context.Context, kind types.NotificationKind, title, message string, ttl time.Duration) model.Notification
}

// AIGateway is the remote generative model. Every method degrades to a
// fallback value instead of returning an error.
type AIGateway interface {
	Chat(ctx context.Context, message, patientContext string) string
	HealthBot(ctx context.Context, message, language string) string
	DailyTip(ctx context.Context) string
	NearbyHospitals(ctx context.Context, lat, lng float64) []model.NearbyHospital
	AnalyzeDocument(ctx context.Context, data []byte, mimeType string) *model.DocumentAnalysis
	AnalyzeTranscript(ctx context.Context, transcript string) *model.TranscriptAnalysis
}

// Simulator advances one telemetry model by a single step
type Simulator interface {
	Tick(ctx context.Context) error
}
