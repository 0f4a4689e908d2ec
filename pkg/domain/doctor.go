package domain

// Doctor is the public directory entry for a specialist.
type Doctor struct {
	ID        int64  `json:"id"`
	Name      string `json:"nombre"`
	Specialty string `json:"especialidad"`
	PhotoURL  string `json:"urlFoto,omitempty"`
	Location  string `json:"ubicacion,omitempty"`
}
