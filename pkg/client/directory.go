package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/soraka/pkg/domain"
)

// ListSpecialties returns every specialty offered.
func (c *Client) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	var specialties []domain.Specialty
	if err := c.get(ctx, public, "/api/especialidades", &specialties); err != nil {
		return nil, fmt.Errorf("client.ListSpecialties: %w", err)
	}
	return specialties, nil
}

// ListPublicDoctors returns the public doctor directory.
func (c *Client) ListPublicDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	if err := c.get(ctx, public, "/api/medicos/publicos", &doctors); err != nil {
		return nil, fmt.Errorf("client.ListPublicDoctors: %w", err)
	}
	return doctors, nil
}
