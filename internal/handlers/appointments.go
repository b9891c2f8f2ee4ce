package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/export"
	"github.com/trackmyhealth/healthtrack/internal/middleware"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/services"
)

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Book creates a Scheduled appointment for the calling patient
func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req models.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.appointmentService.Book(r.Context(), sess, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// List returns the caller's appointments, optionally filtered by status and
// ordered per the requested view; format=csv streams the listing as CSV
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	filter := models.AppointmentFilter{View: models.ViewHistory}
	if v := r.URL.Query().Get("view"); v == string(models.ViewUpcoming) {
		filter.View = models.ViewUpcoming
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.AppointmentStatus(s)
		filter.Status = &status
	}

	appts, err := h.appointmentService.List(r.Context(), sess, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="appointments.csv"`)
		var exportErr error
		if sess.Role == models.RoleHospital {
			exportErr = export.HospitalAppointments(w, appts)
		} else {
			exportErr = export.PatientAppointments(w, appts)
		}
		if exportErr != nil {
			log.Error().Err(exportErr).Msg("CSV export failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, appts)
}

// Transition applies a status change to an appointment
func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	apptID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var req models.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.appointmentService.Transition(r.Context(), sess, apptID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// Hospitals returns the managed hospital directory
func (h *AppointmentHandler) Hospitals(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.appointmentService.ListHospitals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hospitals)
}
