package domain

// Specialty is a medical specialty offered by the clinic.
type Specialty struct {
	ID   int64  `json:"id"`
	Name string `json:"nombre"`
}
