package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  Role
		valid bool
	}{
		{"patient", "PACIENTE", RolePatient, true},
		{"doctor", "MEDICO", RoleDoctor, true},
		{"admin", "ADMIN", RoleAdmin, true},
		{"lowercase", "paciente", "", false},
		{"empty", "", "", false},
		{"unknown", "ENFERMERO", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.raw)
			if (err == nil) != tt.valid {
				t.Fatalf("ParseRole(%q) err = %v, want valid=%v", tt.raw, err, tt.valid)
			}
			if got != tt.want {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
