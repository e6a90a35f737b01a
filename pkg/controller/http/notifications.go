package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

// publishRequest carries the TTL in milliseconds. An omitted ttlMs selects
// the default TTL; zero or a negative value keeps the toast until dismissed.
type publishRequest struct {
	Kind    types.NotificationKind `json:"kind"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	TTLMs   *int64                 `json:"ttlMs"`
}

func (x *publishRequest) ttl() time.Duration {
	if x.TTLMs == nil {
		return model.DefaultToastTTL
	}
	return model.ResolveTTL(time.Duration(*x.TTLMs) * time.Millisecond)
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, notificationsResponse{
		Notifications: s.uc.Bus.History(),
		UnreadCount:   s.uc.Bus.UnreadCount(),
	})
}

func (s *Server) listToasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, notificationsResponse{
		Notifications: s.uc.Bus.Toasts(),
		UnreadCount:   s.uc.Bus.UnreadCount(),
	})
}

func (s *Server) publishNotification(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Title == "" {
		writeError(w, r, goerr.Wrap(model.ErrInvalidInput, "title is required", goerr.V(model.FieldKey, "title")))
		return
	}

	n := s.uc.Bus.Publish(r.Context(), req.Kind, req.Title, req.Message, req.ttl())
	writeJSON(w, r, http.StatusCreated, n)
}

func (s *Server) markRead(w http.ResponseWriter, r *http.Request) {
	s.uc.Bus.MarkRead(model.NotificationID(chi.URLParam(r, "id")))
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) markAllRead(w http.ResponseWriter, r *http.Request) {
	s.uc.Bus.MarkAllRead()
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) removeNotification(w http.ResponseWriter, r *http.Request) {
	s.uc.Bus.Remove(model.NotificationID(chi.URLParam(r, "id")))
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) dismissToast(w http.ResponseWriter, r *http.Request) {
	s.uc.Bus.DismissToast(model.NotificationID(chi.URLParam(r, "id")))
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) clearNotifications(w http.ResponseWriter, r *http.Request) {
	s.uc.Bus.ClearAll()
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}
