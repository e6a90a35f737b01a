package agent

import (
	"context"
	"fmt"
	"path"
	"slices"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const extractedConfidence = 90

// ProcessDocument stores an upload and analyzes it in the background. The
// returned document is in the analyzing state; Documents reflects the
// outcome once analysis finishes.
func (e *Engine) ProcessDocument(ctx context.Context, name, mimeType string, data []byte) (model.MedicalDocument, error) {
	if name == "" || len(data) == 0 {
		return model.MedicalDocument{}, goerr.Wrap(model.ErrInvalidInput, "document name and content are required",
			goerr.V(model.FieldKey, "document"))
	}

	doc := model.MedicalDocument{
		ID:            model.NewDocumentID(),
		Name:          name,
		Type:          "other",
		MimeType:      mimeType,
		UploadedAt:    e.clock.Now(),
		Status:        types.DocumentAnalyzing,
		Tags:          []string{},
		Abnormalities: []string{},
	}

	if e.store != nil {
		key := path.Join("documents", doc.ID.String(), path.Base(name))
		if err := e.store.Put(ctx, key, mimeType, data); err != nil {
			return model.MedicalDocument{}, goerr.Wrap(err, "failed to store document",
				goerr.V(model.DocumentIDKey, doc.ID))
		}
		doc.StorageKey = key
	}

	e.mu.Lock()
	docs := make([]model.MedicalDocument, 0, len(e.documents)+1)
	docs = append(docs, doc)
	e.documents = append(docs, e.documents...)
	e.addThought(ctx, fmt.Sprintf("Ingesting document: %s. Initializing Vision Core...", name), types.CategoryMedicalIntel)
	e.mu.Unlock()

	logging.From(ctx).Info("document received",
		"document_id", doc.ID,
		"name", name,
		"mime_type", mimeType,
		"size", len(data))

	e.group.Dispatch(ctx, func(ctx context.Context) error {
		e.analyzeDocument(ctx, doc, data)
		return nil
	})
	return doc, nil
}

// Wait blocks until every background document analysis has finished
func (e *Engine) Wait() {
	e.group.Wait()
}

func (e *Engine) analyzeDocument(ctx context.Context, doc model.MedicalDocument, data []byte) {
	var analysis *model.DocumentAnalysis
	if e.gateway != nil {
		analysis = e.gateway.AnalyzeDocument(ctx, data, doc.MimeType)
	}

	if analysis.Failed() {
		reason := "AI gateway is not configured"
		if analysis != nil {
			reason = analysis.Error
		}
		logging.From(ctx).Warn("document analysis failed", "document_id", doc.ID, "reason", reason)

		e.mu.Lock()
		e.updateDocument(doc.ID, func(d *model.MedicalDocument) {
			d.Status = types.DocumentError
		})
		e.addThought(ctx, fmt.Sprintf("Analysis Failed for %s.", doc.Name), types.CategoryMedicalIntel)
		e.mu.Unlock()

		e.publish(ctx, types.NotificationWarning, "Analysis Failed",
			fmt.Sprintf("Could not analyze %s. Please upload a clearer copy.", doc.Name), model.DefaultToastTTL)
		return
	}

	type alert struct {
		kind           types.NotificationKind
		title, message string
	}
	var alerts []alert

	e.mu.Lock()
	e.updateDocument(doc.ID, func(d *model.MedicalDocument) {
		d.Status = types.DocumentProcessed
		if analysis.DocType != "" {
			d.Type = analysis.DocType
			d.Tags = []string{analysis.DocType}
		}
		d.Summary = analysis.Summary
		if analysis.Abnormalities != nil {
			d.Abnormalities = slices.Clone(analysis.Abnormalities)
		}
	})

	now := e.clock.Now()
	var extracted []model.MedicalMemory
	for _, item := range analysis.ActionItems {
		memType := types.MemoryInstruction
		if item.Type == string(types.MemoryMedication) {
			memType = types.MemoryMedication
		}
		extracted = append(extracted, model.MedicalMemory{
			ID:          model.NewMemoryID(),
			SourceDocID: doc.ID,
			Date:        now,
			Type:        memType,
			Detail:      item.Detail,
			Status:      types.MemoryActive,
			Confidence:  extractedConfidence,
		})

		if item.Priority == types.PriorityHigh {
			e.addAction(ctx, fmt.Sprintf("New %s Detected", item.Type),
				fmt.Sprintf("From %s: %s", doc.Name, item.Detail),
				types.ActionIntervention, 0)
			alerts = append(alerts, alert{types.NotificationWarning, "Action Required", item.Detail})
		}
	}
	e.prependMemories(extracted)

	if len(analysis.Abnormalities) > 0 {
		first := analysis.Abnormalities[0]
		e.addThought(ctx, "DETECTED ABNORMALITY: "+first, types.CategoryHealth)
		alerts = append(alerts, alert{types.NotificationCritical, "Medical Alert",
			fmt.Sprintf("Abnormality detected in %s: %s", doc.Name, first)})
	} else {
		e.addThought(ctx, fmt.Sprintf("Document %s processed. No critical flags.", doc.Name), types.CategoryMedicalIntel)
	}
	e.mu.Unlock()

	for _, a := range alerts {
		e.publish(ctx, a.kind, a.title, a.message, model.DefaultToastTTL)
	}

	logging.From(ctx).Info("document analyzed",
		"document_id", doc.ID,
		"doc_type", analysis.DocType,
		"memories", len(extracted),
		"abnormalities", len(analysis.Abnormalities))
}

// ProcessTranscript extracts memories from a doctor conversation. A failed
// analysis is returned as is with its Error set.
func (e *Engine) ProcessTranscript(ctx context.Context, transcript string) (*model.TranscriptAnalysis, error) {
	if transcript == "" {
		return nil, goerr.Wrap(model.ErrInvalidInput, "transcript is empty", goerr.V(model.FieldKey, "transcript"))
	}

	e.AddThought(ctx, "Parsing conversation transcript for medical directives...", types.CategoryMedicalIntel)

	var analysis *model.TranscriptAnalysis
	if e.gateway != nil {
		analysis = e.gateway.AnalyzeTranscript(ctx, transcript)
	}
	if analysis.Failed() {
		if analysis == nil {
			analysis = &model.TranscriptAnalysis{Error: "AI gateway is not configured"}
		}
		e.AddThought(ctx, "Transcript analysis failed.", types.CategoryMedicalIntel)
		logging.From(ctx).Warn("transcript analysis failed", "reason", analysis.Error)
		return analysis, nil
	}

	now := e.clock.Now()
	extracted := make([]model.MedicalMemory, 0, len(analysis.Insights))
	for _, in := range analysis.Insights {
		extracted = append(extracted, model.MedicalMemory{
			ID:         model.NewMemoryID(),
			Date:       now,
			Type:       types.MemoryTypeFromInsight(in.Type),
			Detail:     in.Text,
			Status:     types.MemoryActive,
			Confidence: min(max(in.Confidence, 0), 100),
		})
	}

	e.mu.Lock()
	e.prependMemories(extracted)
	e.addThought(ctx, fmt.Sprintf("Extracted %d actionable items from conversation.", len(extracted)), types.CategoryMedicalIntel)
	if len(analysis.MissedActions) > 0 {
		e.addAction(ctx, "Missed Follow-up", analysis.MissedActions[0], types.ActionSuggestion, 0)
	}
	e.mu.Unlock()

	if len(analysis.MissedActions) > 0 {
		e.publish(ctx, types.NotificationWarning, "Gap Detected", "You may have missed: "+analysis.MissedActions[0], model.DefaultToastTTL)
	}
	return analysis, nil
}

// Documents returns uploaded documents, newest first
func (e *Engine) Documents() []model.MedicalDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.documents)
}

// Memories returns extracted memories, newest first
func (e *Engine) Memories() []model.MedicalMemory {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.memories)
}

// UpdateMemory replaces the detail text of a memory
func (e *Engine) UpdateMemory(ctx context.Context, id model.MemoryID, detail string) (model.MedicalMemory, error) {
	if detail == "" {
		return model.MedicalMemory{}, goerr.Wrap(model.ErrInvalidInput, "memory detail is empty", goerr.V(model.MemoryIDKey, id))
	}
	return e.editMemory(ctx, id, func(m *model.MedicalMemory) {
		m.Detail = detail
	})
}

// IgnoreMemory marks a memory ignored
func (e *Engine) IgnoreMemory(ctx context.Context, id model.MemoryID) (model.MedicalMemory, error) {
	return e.editMemory(ctx, id, func(m *model.MedicalMemory) {
		m.Status = types.MemoryIgnored
	})
}

func (e *Engine) editMemory(ctx context.Context, id model.MemoryID, fn func(*model.MedicalMemory)) (model.MedicalMemory, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := slices.IndexFunc(e.memories, func(m model.MedicalMemory) bool { return m.ID == id })
	if idx < 0 {
		return model.MedicalMemory{}, goerr.Wrap(ErrMemoryNotFound, "cannot edit memory", goerr.V(model.MemoryIDKey, id))
	}
	memories := slices.Clone(e.memories)
	fn(&memories[idx])
	e.memories = memories

	logging.From(ctx).Info("memory edited", "memory_id", id, "status", memories[idx].Status)
	return memories[idx], nil
}

// caller holds mu
func (e *Engine) updateDocument(id model.DocumentID, fn func(*model.MedicalDocument)) {
	idx := slices.IndexFunc(e.documents, func(d model.MedicalDocument) bool { return d.ID == id })
	if idx < 0 {
		return
	}
	docs := slices.Clone(e.documents)
	fn(&docs[idx])
	e.documents = docs
}

// caller holds mu
func (e *Engine) prependMemories(extracted []model.MedicalMemory) {
	if len(extracted) == 0 {
		return
	}
	memories := make([]model.MedicalMemory, 0, len(extracted)+len(e.memories))
	memories = append(memories, extracted...)
	e.memories = append(memories, e.memories...)
}
