package agent_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/agent"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type fakeGateway struct {
	document   *model.DocumentAnalysis
	transcript *model.TranscriptAnalysis
}

func (f *fakeGateway) Chat(ctx context.Context, message, patientContext string) string { return "" }
func (f *fakeGateway) HealthBot(ctx context.Context, message, language string) string { return "" }
func (f *fakeGateway) DailyTip(ctx context.Context) string { return "" }
func (f *fakeGateway) NearbyHospitals(ctx context.Context, lat, lng float64) []model.NearbyHospital {
	return nil
}
func (f *fakeGateway) AnalyzeDocument(ctx context.Context, data []byte, mimeType string) *model.DocumentAnalysis {
	return f.document
}
func (f *fakeGateway) AnalyzeTranscript(ctx context.Context, transcript string) *model.TranscriptAnalysis {
	return f.transcript
}

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *memStore) Put(ctx context.Context, key, mimeType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.data[key] = data
	return nil
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[key]
	if !ok {
		return nil, "", goerr.Wrap(model.ErrNotFound, "no such key")
	}
	return d, "", nil
}

func TestProcessDocument(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{document: &model.DocumentAnalysis{
		DocType:       "prescription",
		Summary:       "Lipid panel follow-up",
		Abnormalities: []string{"LDL elevated"},
		ActionItems: []model.ActionItem{
			{Type: "medication", Detail: "Atorvastatin 10mg nightly", Priority: types.PriorityHigh},
			{Type: "lifestyle", Detail: "Walk 30 minutes daily", Priority: types.PriorityLow},
		},
	}}
	store := &memStore{}
	e, _, notifier := newEngine(agent.WithGateway(gw), agent.WithDocumentStore(store))

	doc, err := e.ProcessDocument(ctx, "lipid.pdf", "application/pdf", []byte("%PDF"))
	gt.NoError(t, err).Required()
	gt.V(t, doc.Status).Equal(types.DocumentAnalyzing)
	gt.B(t, strings.HasSuffix(doc.StorageKey, "lipid.pdf")).True()
	e.Wait()

	stored, _, err := store.Get(ctx, doc.StorageKey)
	gt.NoError(t, err)
	gt.V(t, string(stored)).Equal("%PDF")

	docs := e.Documents()
	gt.A(t, docs).Length(1)
	gt.V(t, docs[0].Status).Equal(types.DocumentProcessed)
	gt.V(t, docs[0].Type).Equal("prescription")
	gt.A(t, docs[0].Abnormalities).Length(1)

	memories := e.Memories()
	gt.A(t, memories).Length(2)
	gt.V(t, memories[0].Type).Equal(types.MemoryMedication)
	gt.V(t, memories[0].SourceDocID).Equal(doc.ID)
	gt.V(t, memories[1].Type).Equal(types.MemoryInstruction)
	gt.Number(t, memories[1].Confidence).Equal(90)

	actions := e.Actions()
	gt.A(t, actions).Length(1)
	gt.V(t, actions[0].Title).Equal("New medication Detected")
	gt.V(t, actions[0].Description).Equal("From lipid.pdf: Atorvastatin 10mg nightly")

	gt.V(t, e.Thoughts()[0].Text).Equal("DETECTED ABNORMALITY: LDL elevated")

	sent := notifier.list()
	gt.A(t, sent).Length(2)
	gt.V(t, sent[0].Title).Equal("Action Required")
	gt.V(t, sent[1].Kind).Equal(types.NotificationCritical)
	gt.V(t, sent[1].Message).Equal("Abnormality detected in lipid.pdf: LDL elevated")
}

func TestProcessDocument_Failure(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{document: &model.DocumentAnalysis{Error: "model returned malformed JSON"}}
	e, _, notifier := newEngine(agent.WithGateway(gw))

	_, err := e.ProcessDocument(ctx, "scan.png", "image/png", []byte{0x89})
	gt.NoError(t, err).Required()
	e.Wait()

	gt.V(t, e.Documents()[0].Status).Equal(types.DocumentError)
	gt.V(t, e.Thoughts()[0].Text).Equal("Analysis Failed for scan.png.")
	gt.A(t, e.Memories()).Length(0)

	sent := notifier.list()
	gt.A(t, sent).Length(1)
	gt.V(t, sent[0].Kind).Equal(types.NotificationWarning)
}

func TestProcessDocument_NoFlags(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{document: &model.DocumentAnalysis{DocType: "lab_report", Summary: "Normal"}}
	e, _, notifier := newEngine(agent.WithGateway(gw))

	_, err := e.ProcessDocument(ctx, "cbc.pdf", "application/pdf", []byte("x"))
	gt.NoError(t, err).Required()
	e.Wait()

	gt.V(t, e.Thoughts()[0].Text).Equal("Document cbc.pdf processed. No critical flags.")
	gt.A(t, notifier.list()).Length(0)
}

func TestProcessDocument_Invalid(t *testing.T) {
	e, _, _ := newEngine()
	_, err := e.ProcessDocument(context.Background(), "empty.pdf", "application/pdf", nil)
	gt.Error(t, err).Is(model.ErrInvalidInput)
	gt.A(t, e.Documents()).Length(0)
}

func TestProcessTranscript(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{transcript: &model.TranscriptAnalysis{
		Insights: []model.Insight{
			{Type: "medication", Text: "Start Metformin 500mg", Confidence: 95},
			{Type: "diet", Text: "Reduce sugar", Confidence: 150},
		},
		MissedActions: []string{"Book HbA1c test"},
	}}
	e, _, notifier := newEngine(agent.WithGateway(gw))

	analysis, err := e.ProcessTranscript(ctx, "Doctor: start metformin...")
	gt.NoError(t, err).Required()
	gt.B(t, analysis.Failed()).False()

	memories := e.Memories()
	gt.A(t, memories).Length(2)
	gt.V(t, memories[0].Type).Equal(types.MemoryMedication)
	gt.V(t, memories[1].Type).Equal(types.MemoryInstruction)
	gt.Number(t, memories[1].Confidence).Equal(100)

	gt.V(t, e.Thoughts()[0].Text).Equal("Extracted 2 actionable items from conversation.")
	gt.V(t, e.Actions()[0].Title).Equal("Missed Follow-up")
	gt.V(t, e.Actions()[0].Kind).Equal(types.ActionSuggestion)

	sent := notifier.list()
	gt.A(t, sent).Length(1)
	gt.V(t, sent[0].Title).Equal("Gap Detected")
	gt.V(t, sent[0].Message).Equal("You may have missed: Book HbA1c test")

	_, err = e.ProcessTranscript(ctx, "")
	gt.Error(t, err).Is(model.ErrInvalidInput)
}

func TestProcessTranscript_Failure(t *testing.T) {
	gw := &fakeGateway{transcript: &model.TranscriptAnalysis{Error: "timeout"}}
	e, _, _ := newEngine(agent.WithGateway(gw))

	analysis, err := e.ProcessTranscript(context.Background(), "hello")
	gt.NoError(t, err).Required()
	gt.V(t, analysis.Error).Equal("timeout")
	gt.A(t, e.Memories()).Length(0)
}

func TestMemoryEdits(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{transcript: &model.TranscriptAnalysis{
		Insights: []model.Insight{{Type: "lifestyle", Text: "Sleep by 11pm", Confidence: 80}},
	}}
	e, _, _ := newEngine(agent.WithGateway(gw))
	_, err := e.ProcessTranscript(ctx, "transcript")
	gt.NoError(t, err).Required()

	id := e.Memories()[0].ID
	updated, err := e.UpdateMemory(ctx, id, "Sleep by 10:30pm")
	gt.NoError(t, err).Required()
	gt.V(t, updated.Detail).Equal("Sleep by 10:30pm")

	ignored, err := e.IgnoreMemory(ctx, id)
	gt.NoError(t, err).Required()
	gt.V(t, ignored.Status).Equal(types.MemoryIgnored)
	gt.V(t, e.Memories()[0].Status).Equal(types.MemoryIgnored)

	_, err = e.IgnoreMemory(ctx, model.MemoryID("missing"))
	gt.Error(t, err).Is(agent.ErrMemoryNotFound)
	_, err = e.UpdateMemory(ctx, id, "")
	gt.Error(t, err).Is(model.ErrInvalidInput)
}
