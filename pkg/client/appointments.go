package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/naveenspark/soraka/pkg/domain"
)

// MaxReasonLength is the longest reason the backend accepts for a booking.
const MaxReasonLength = 255

// ReserveRequest is the payload for reserving an appointment.
type ReserveRequest struct {
	Reason string `json:"motivo"`
}

// ListAvailableAppointments returns open slots across all specialties.
func (c *Client) ListAvailableAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	if err := c.get(ctx, authenticated, "/api/citas/disponibles", &appts); err != nil {
		return nil, fmt.Errorf("client.ListAvailableAppointments: %w", err)
	}
	return appts, nil
}

// ListMyAppointments returns the caller's booked appointments.
func (c *Client) ListMyAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	if err := c.get(ctx, authenticated, "/api/citas/mis-citas", &appts); err != nil {
		return nil, fmt.Errorf("client.ListMyAppointments: %w", err)
	}
	return appts, nil
}

// ListAllAppointments returns every appointment. Staff only.
func (c *Client) ListAllAppointments(ctx context.Context) ([]domain.Appointment, error) {
	var appts []domain.Appointment
	if err := c.get(ctx, authenticated, "/api/citas/todas", &appts); err != nil {
		return nil, fmt.Errorf("client.ListAllAppointments: %w", err)
	}
	return appts, nil
}

// ReserveAppointment books slot id for the caller with the given reason.
func (c *Client) ReserveAppointment(ctx context.Context, id int64, reason string) error {
	if err := validateID(id); err != nil {
		return fmt.Errorf("client.ReserveAppointment: %w", err)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("client.ReserveAppointment: %w: reason is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return fmt.Errorf("client.ReserveAppointment: %w: reason exceeds %d characters", ErrInvalidInput, MaxReasonLength)
	}

	path := "/api/citas/" + strconv.FormatInt(id, 10) + "/reservar"
	if err := c.post(ctx, authenticated, path, ReserveRequest{Reason: reason}, nil); err != nil {
		return fmt.Errorf("client.ReserveAppointment: %w", err)
	}
	return nil
}

// CancelAppointment releases a booked appointment.
func (c *Client) CancelAppointment(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return fmt.Errorf("client.CancelAppointment: %w", err)
	}
	path := "/api/citas/" + strconv.FormatInt(id, 10) + "/cancelar"
	if err := c.post(ctx, authenticated, path, nil, nil); err != nil {
		return fmt.Errorf("client.CancelAppointment: %w", err)
	}
	return nil
}

// FilterBySpecialty keeps appointments whose doctor practises specialty.
func FilterBySpecialty(appts []domain.Appointment, specialty string) []domain.Appointment {
	out := make([]domain.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.DoctorSpecialty == specialty {
			out = append(out, a)
		}
	}
	return out
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: appointment id must be positive, got %d", ErrInvalidInput, id)
	}
	return nil
}
