package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// AppointmentStatus mirrors the backend's appointment lifecycle.
type AppointmentStatus string

const (
	StatusAvailable AppointmentStatus = "DISPONIBLE"
	StatusPending   AppointmentStatus = "PENDIENTE"
	StatusConfirmed AppointmentStatus = "CONFIRMADA"
	StatusDone      AppointmentStatus = "REALIZADA"
	StatusExpired   AppointmentStatus = "CADUCADA"
)

// Appointment is a bookable or booked slot with a doctor.
type Appointment struct {
	ID              int64             `json:"id"`
	PatientID       *int64            `json:"pacienteId,omitempty"`
	PatientName     string            `json:"pacienteNombre,omitempty"`
	DoctorID        int64             `json:"medicoId,omitempty"`
	DoctorName      string            `json:"medicoNombre"`
	DoctorSpecialty string            `json:"medicoEspecialidad"`
	StartsAt        LocalTime         `json:"fechaHora"`
	Status          AppointmentStatus `json:"estado,omitempty"`
	Reason          string            `json:"motivo,omitempty"`
}

// LocalTime is a zone-less date-time as serialized by the backend
// ("2025-03-14T09:30:00"). It is interpreted in the local time zone.
type LocalTime struct {
	time.Time
}

const localTimeLayout = "2006-01-02T15:04:05"

var localTimeLayouts = []string{
	time.RFC3339Nano,
	localTimeLayout, // fractional seconds are accepted by the parser
	"2006-01-02T15:04",
}

// UnmarshalJSON accepts ISO local date-times with or without seconds, and
// RFC 3339 timestamps.
func (t *LocalTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("local time: %w", err)
	}
	for _, layout := range localTimeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("local time: unrecognized format %q", s)
}

// MarshalJSON writes the backend's zone-less layout.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localTimeLayout))
}

// Date renders the day part as dd/mm/yyyy.
func (t LocalTime) Date() string {
	return t.Format("02/01/2006")
}

// Clock renders the time part as HH:MM.
func (t LocalTime) Clock() string {
	return t.Format("15:04")
}
