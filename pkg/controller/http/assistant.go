package http

import (
	"net/http"
	"strconv"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type healthBotRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

type tipResponse struct {
	Tip string `json:"tip"`
}

type hospitalsResponse struct {
	Location  model.Location         `json:"location"`
	Hospitals []model.NearbyHospital `json:"hospitals"`
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Message == "" {
		writeError(w, r, goerr.Wrap(model.ErrInvalidInput, "message is required", goerr.V(model.FieldKey, "message")))
		return
	}
	writeJSON(w, r, http.StatusOK, replyResponse{Reply: s.uc.Gateway().Chat(r.Context(), req.Message, req.Context)})
}

func (s *Server) healthBot(w http.ResponseWriter, r *http.Request) {
	var req healthBotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Message == "" {
		writeError(w, r, goerr.Wrap(model.ErrInvalidInput, "message is required", goerr.V(model.FieldKey, "message")))
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}
	writeJSON(w, r, http.StatusOK, replyResponse{Reply: s.uc.Gateway().HealthBot(r.Context(), req.Message, req.Language)})
}

func (s *Server) dailyTip(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, tipResponse{Tip: s.uc.Gateway().DailyTip(r.Context())})
}

// floatQuery returns nil when the parameter is missing or not a number
func floatQuery(r *http.Request, name string) *float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return nil
	}
	return &v
}

func (s *Server) nearbyHospitals(w http.ResponseWriter, r *http.Request) {
	loc, hospitals := s.uc.NearbyHospitals(r.Context(), floatQuery(r, "lat"), floatQuery(r, "lng"))
	writeJSON(w, r, http.StatusOK, hospitalsResponse{Location: loc, Hospitals: hospitals})
}
