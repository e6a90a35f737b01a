package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password" masq:"secret"`
}

type registerRequest struct {
	model.UserProfile
	Password string `json:"password" masq:"secret"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := s.uc.Account.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Role == "" {
		req.Role = types.RolePatient
	}
	profile, err := s.uc.Account.Register(r.Context(), model.Account{
		UserProfile: req.UserProfile,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.uc.Account.Profile(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var update model.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := s.uc.Account.UpdateProfile(r.Context(), chi.URLParam(r, "email"), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}
