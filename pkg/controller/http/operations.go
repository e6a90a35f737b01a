package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hashcare/hashcare/pkg/domain/model"
	"github.com/hashcare/hashcare/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, goerr.Wrap(model.ErrInvalidInput, "path parameter must be an integer", goerr.V(model.FieldKey, name))
	}
	return v, nil
}

// Fleet

type dispatchRequest struct {
	JobID       string             `json:"jobId"`
	Job         *model.DispatchJob `json:"job"`
	AmbulanceID string             `json:"ambulanceId"`
}

type triageRequest struct {
	Description string `json:"description"`
}

func (s *Server) getFleet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Fleet.Snapshot())
}

func (s *Server) getFleetMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.FleetMap())
}

func (s *Server) addJob(w http.ResponseWriter, r *http.Request) {
	var job model.DispatchJob
	if err := decodeJSON(r, &job); err != nil {
		writeError(w, r, err)
		return
	}
	added, err := s.uc.Fleet.AddJob(r.Context(), job)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, added)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		job model.DispatchJob
		err error
	)
	switch {
	case req.JobID != "":
		job, err = s.uc.Fleet.DispatchByID(r.Context(), req.JobID, req.AmbulanceID)
	case req.Job != nil:
		job, err = s.uc.Fleet.Dispatch(r.Context(), *req.Job, req.AmbulanceID)
	default:
		err = goerr.Wrap(model.ErrInvalidInput, "jobId or job is required", goerr.V(model.FieldKey, "jobId"))
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, job)
}

func (s *Server) completeJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.uc.Fleet.CompleteJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, job)
}

func (s *Server) triage(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := s.uc.Triage(r.Context(), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// Hospital

type assignBedRequest struct {
	PatientName string `json:"patientName"`
}

type restockRequest struct {
	Stock int `json:"stock"`
}

type staffStatusRequest struct {
	Status types.StaffStatus `json:"status"`
}

func (s *Server) getHospital(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Hospital.Snapshot())
}

func (s *Server) assignBed(w http.ResponseWriter, r *http.Request) {
	var req assignBedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	bed, err := s.uc.Hospital.AssignBed(r.Context(), chi.URLParam(r, "id"), req.PatientName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bed)
}

func (s *Server) dischargeBed(w http.ResponseWriter, r *http.Request) {
	bed, err := s.uc.Hospital.DischargeBed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, bed)
}

func (s *Server) restock(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req restockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := s.uc.Hospital.UpdateInventory(r.Context(), id, req.Stock)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) procurementPlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Hospital.ProcurementPlan())
}

func (s *Server) procure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Hospital.Procure(r.Context()))
}

func (s *Server) resolveAlert(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Hospital.ResolveAlert(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) updateStaffStatus(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req staffStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	staff, err := s.uc.Hospital.UpdateStaffStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, staff)
}

// Vitals

func (s *Server) getVitals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.uc.Vitals.Snapshot())
}

func (s *Server) recordVitals(w http.ResponseWriter, r *http.Request) {
	var sample model.VitalSample
	if err := decodeJSON(r, &sample); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.uc.Vitals.Record(r.Context(), sample); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, s.uc.Vitals.Snapshot())
}

func (s *Server) exportVitals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="vitals.csv"`)
	if err := s.uc.Vitals.ExportCSV(w); err != nil {
		writeError(w, r, goerr.Wrap(err, "failed to export vitals"))
	}
}
