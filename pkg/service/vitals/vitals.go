package vitals

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashcare/hashcare/pkg/domain/interfaces"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// TickInterval is how often Monitor.Tick is expected to run
const TickInterval = time.Second

// DefaultWindow is the number of samples kept
const DefaultWindow = 20

const (
	spikeChance = 0.1
	spikeBPM    = 15
	bolusChance = 0.05
	bolusRate   = 2.0
	basalRate   = 0.5
)

// HighHeartRateTitle is published when heart rate turns critical
const HighHeartRateTitle = "High Heart Rate Alert"

// Monitor simulates a wearable and keeps a rolling window of readings
type Monitor struct {
	clock    clock.Clock
	rng      *rand.Rand
	notifier interfaces.Notifier
	window   int

	mu      sync.RWMutex
	samples []model.VitalSample
}

var _ interfaces.Simulator = &Monitor{}

type Option func(*Monitor)

func WithClock(clk clock.Clock) Option {
	return func(m *Monitor) {
		m.clock = clk
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Monitor) {
		m.rng = rng
	}
}

// WithNotifier publishes a critical notification when heart rate turns
// critical
func WithNotifier(n interfaces.Notifier) Option {
	return func(m *Monitor) {
		m.notifier = n
	}
}

// WithWindow sets how many samples are kept
func WithWindow(n int) Option {
	return func(m *Monitor) {
		m.window = max(n, 1)
	}
}

// New creates a monitor pre-filled with one second spaced history
func New(opts ...Option) *Monitor {
	m := &Monitor{
		clock:  clock.New(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		window: DefaultWindow,
	}
	for _, opt := range opts {
		opt(m)
	}

	now := m.clock.Now()
	m.samples = make([]model.VitalSample, 0, m.window)
	for i := range m.window {
		x := float64(i)
		m.samples = append(m.samples, model.VitalSample{
			Timestamp: now.Add(-time.Duration(m.window-1-i) * time.Second),
			HeartRate: 70 + math.Sin(x*0.2)*5 + m.rng.Float64()*10,
			SpO2:      96 + m.rng.Float64()*3,
			Glucose:   110 + math.Sin(x*0.1)*20 + m.rng.Float64()*5,
			Insulin:   basalRate + m.rng.Float64()*0.1,
		})
	}
	return m
}

// Tick appends one simulated reading
func (m *Monitor) Tick(ctx context.Context) error {
	m.mu.Lock()
	s := model.VitalSample{
		Timestamp: m.clock.Now(),
		HeartRate: 70 + m.rng.Float64()*10,
		SpO2:      96 + m.rng.Float64()*3,
		Glucose:   110 + m.rng.Float64()*5,
		Insulin:   basalRate,
	}
	if m.rng.Float64() < spikeChance {
		s.HeartRate += spikeBPM
	}
	if m.rng.Float64() < bolusChance {
		s.Insulin += bolusRate
	}
	m.mu.Unlock()

	return m.Record(ctx, s)
}

// Record appends an externally supplied reading, e.g. from a paired device
func (m *Monitor) Record(ctx context.Context, s model.VitalSample) error {
	if s.HeartRate < 0 || s.SpO2 < 0 || s.SpO2 > 100 || s.Glucose < 0 || s.Insulin < 0 {
		return goerr.Wrap(model.ErrInvalidInput, "vital sample out of range",
			goerr.V("heart_rate", s.HeartRate),
			goerr.V("spo2", s.SpO2),
			goerr.V("glucose", s.Glucose),
			goerr.V("insulin", s.Insulin))
	}

	m.mu.Lock()
	if s.Timestamp.IsZero() {
		s.Timestamp = m.clock.Now()
	}
	var before types.VitalLevel
	if n := len(m.samples); n > 0 {
		before = model.ClassifyHeartRate(m.samples[n-1].HeartRate)
	}

	samples := append(slices.Clone(m.samples), s)
	if len(samples) > m.window {
		samples = samples[len(samples)-m.window:]
	}
	m.samples = samples
	m.mu.Unlock()

	after := model.ClassifyHeartRate(s.HeartRate)
	if m.notifier != nil && after == types.VitalCritical && before != types.VitalCritical {
		m.notifier.Publish(ctx, types.NotificationCritical, HighHeartRateTitle,
			fmt.Sprintf("Patient HR at %.0f bpm. Interventional protocol recommended.", s.HeartRate), model.DefaultToastTTL)
	}
	return nil
}

// Snapshot returns the window, oldest first, with the latest reading classified
func (m *Monitor) Snapshot() model.VitalsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := model.VitalsSnapshot{Samples: slices.Clone(m.samples)}
	if n := len(snap.Samples); n > 0 {
		latest := snap.Samples[n-1]
		snap.Latest = &latest
		snap.Levels = model.ClassifyVitals(latest)
	}
	return snap
}

var csvHeader = []string{"Time", "Heart Rate (bpm)", "SpO2 (%)", "Glucose (mg/dL)", "Insulin Rate (U/hr)"}

// ExportCSV writes the current window as CSV
func (m *Monitor) ExportCSV(w io.Writer) error {
	samples := m.Snapshot().Samples

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return goerr.Wrap(err, "failed to write csv header")
	}
	for _, s := range samples {
		row := []string{
			s.Timestamp.Format(time.RFC3339),
			fmt.Sprintf("%.0f", s.HeartRate),
			fmt.Sprintf("%.0f", s.SpO2),
			fmt.Sprintf("%.0f", s.Glucose),
			fmt.Sprintf("%.2f", s.Insulin),
		}
		if err := cw.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush csv")
	}
	return nil
}
