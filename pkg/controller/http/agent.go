package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/hashcare/hashcare/pkg/service/agent"
	"github.com/hashcare/hashcare/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// maxDocumentBytes bounds uploaded medical documents
const maxDocumentBytes = 10 << 20

type agentResponse struct {
	Role         types.UserRole          `json:"role"`
	IsThinking   bool                    `json:"isThinking"`
	ActiveAgents []string                `json:"activeAgents"`
	Thoughts     []model.Thought         `json:"thoughts"`
	Actions      []model.Action          `json:"actions"`
	Scenarios    []model.Scenario        `json:"scenarios"`
	Runs         []model.ScenarioRun     `json:"runs"`
	Documents    []model.MedicalDocument `json:"documents"`
	Memories     []model.MedicalMemory   `json:"memories"`
}

type transcriptRequest struct {
	Text string `json:"text"`
}

type memoryRequest struct {
	Detail string `json:"detail"`
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	e := engineFrom(r.Context())
	writeJSON(w, r, http.StatusOK, agentResponse{
		Role:         e.Role(),
		IsThinking:   e.IsThinking(),
		ActiveAgents: e.ActiveAgents(),
		Thoughts:     e.Thoughts(),
		Actions:      e.Actions(),
		Scenarios:    e.Scenarios(),
		Runs:         e.PendingRuns(),
		Documents:    e.Documents(),
		Memories:     e.Memories(),
	})
}

func (s *Server) dailyReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, engineFrom(r.Context()).DailyReport())
}

func (s *Server) triggerScenario(w http.ResponseWriter, r *http.Request) {
	var opts []agent.TriggerOption
	if supersede, _ := strconv.ParseBool(r.URL.Query().Get("supersede")); supersede {
		opts = append(opts, agent.WithSupersede())
	}

	run, err := engineFrom(r.Context()).TriggerScenario(r.Context(), types.ScenarioID(chi.URLParam(r, "id")), opts...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, run)
}

func (s *Server) cancelRun(w http.ResponseWriter, r *http.Request) {
	runID := model.RunID(chi.URLParam(r, "id"))
	if !engineFrom(r.Context()).CancelScenario(r.Context(), runID) {
		writeError(w, r, goerr.Wrap(model.ErrNotFound, "no pending run", goerr.V(model.RunIDKey, runID)))
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) executeAction(w http.ResponseWriter, r *http.Request) {
	action, err := engineFrom(r.Context()).ExecuteAction(r.Context(), model.ActionID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, action)
}

func (s *Server) rejectAction(w http.ResponseWriter, r *http.Request) {
	action, err := engineFrom(r.Context()).RejectAction(r.Context(), model.ActionID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, action)
}

// uploadDocument accepts a multipart form with a "file" part. Analysis runs
// in the background; the response carries the document in processing state.
func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, goerr.Wrap(model.ErrInvalidInput, "file part is required", goerr.V("cause", err.Error())))
		return
	}
	defer safe.Close(r.Context(), file)

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, goerr.Wrap(model.ErrInvalidInput, "failed to read upload", goerr.V("cause", err.Error())))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	doc, err := engineFrom(r.Context()).ProcessDocument(r.Context(), header.Filename, mimeType, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, doc)
}

func (s *Server) processTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	analysis, err := engineFrom(r.Context()).ProcessTranscript(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, analysis)
}

func (s *Server) updateMemory(w http.ResponseWriter, r *http.Request) {
	var req memoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	mem, err := engineFrom(r.Context()).UpdateMemory(r.Context(), model.MemoryID(chi.URLParam(r, "id")), req.Detail)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mem)
}

func (s *Server) ignoreMemory(w http.ResponseWriter, r *http.Request) {
	mem, err := engineFrom(r.Context()).IgnoreMemory(r.Context(), model.MemoryID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mem)
}
