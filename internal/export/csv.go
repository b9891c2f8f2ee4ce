// Package export serializes listing projections to flat CSV tables.
package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/trackmyhealth/healthtrack/internal/models"
)

const timeLayout = time.RFC3339

// PatientAppointments writes a patient's appointment listing, one row per
// appointment with the hospital as counterpart
func PatientAppointments(w io.Writer, appts []models.Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Appointment ID", "Hospital", "Date & Time", "Reason", "Status"}); err != nil {
		return err
	}
	for _, a := range appts {
		row := []string{
			a.ID.String(),
			a.HospitalName(),
			a.ScheduledAt.Format(timeLayout),
			a.Reason,
			string(a.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HospitalAppointments writes a hospital's appointment listing, one row per
// appointment with the patient as counterpart
func HospitalAppointments(w io.Writer, appts []models.Appointment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Appointment ID", "Patient Name", "Date & Time", "Reason", "Status"}); err != nil {
		return err
	}
	for _, a := range appts {
		row := []string{
			a.ID.String(),
			a.PatientName(),
			a.ScheduledAt.Format(timeLayout),
			a.Reason,
			string(a.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// HealthRecords writes a patient's health record listing
func HealthRecords(w io.Writer, records []models.HealthRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Record ID", "Type", "Recorded At", "Value", "Notes"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.ID.String(),
			string(r.RecordType),
			r.RecordedAt.Format(timeLayout),
			r.Value,
			r.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
