package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/usecase"
	"github.com/hashcare/hashcare/pkg/utils/errutil"
	"github.com/hashcare/hashcare/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type successResponse struct {
	Success bool `json:"success"`
}

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(model.ErrInvalidInput, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

// statusOf maps domain sentinel errors onto HTTP status codes
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyExists), errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInvalidAccount),
		errors.Is(err, model.ErrInvalidJob),
		errors.Is(err, model.ErrEmptyScenario),
		errors.Is(err, model.ErrInvalidScenarioStep):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusUnauthorized {
		// the response never tells which half of the credential was wrong
		logging.From(r.Context()).Info("login rejected", "error", err.Error())
		errutil.HandleHTTP(r.Context(), w, usecase.ErrInvalidCredentials, status)
		return
	}
	errutil.HandleHTTP(r.Context(), w, err, status)
}
