package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/trackmyhealth/healthtrack/internal/export"
	"github.com/trackmyhealth/healthtrack/internal/middleware"
	"github.com/trackmyhealth/healthtrack/internal/models"
	"github.com/trackmyhealth/healthtrack/internal/services"
)

type RecordHandler struct {
	recordService *services.RecordService
}

func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

// Add appends a health record for the calling patient
func (h *RecordHandler) Add(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req models.AddRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.recordService.AddRecord(r.Context(), sess, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// List returns the calling patient's records, newest first; format=csv
// streams the listing as CSV
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var typeFilter *models.RecordType
	if t := r.URL.Query().Get("type"); t != "" {
		rt := models.RecordType(t)
		typeFilter = &rt
	}

	records, err := h.recordService.ListRecords(r.Context(), sess, typeFilter)
	if err != nil {
		writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="health_records.csv"`)
		if err := export.HealthRecords(w, records); err != nil {
			log.Error().Err(err).Msg("CSV export failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, records)
}
