package output

import (
	"strconv"

	"github.com/naveenspark/soraka/pkg/domain"
)

// Specialties prints the specialty catalogue.
func (p *Printer) Specialties(specs []domain.Specialty) error {
	if len(specs) == 0 {
		p.Info("No hay especialidades registradas.")
		return nil
	}
	t := NewTable(p.out, []string{"ID", "ESPECIALIDAD"})
	for _, s := range specs {
		t.AddRow(strconv.FormatInt(s.ID, 10), s.Name)
	}
	return t.Render()
}

// Doctors prints the public doctor directory.
func (p *Printer) Doctors(docs []domain.Doctor) error {
	if len(docs) == 0 {
		p.Info("No hay especialistas disponibles.")
		return nil
	}
	t := NewTable(p.out, []string{"ID", "NOMBRE", "ESPECIALIDAD", "UBICACIÓN"})
	for _, d := range docs {
		t.AddRow(strconv.FormatInt(d.ID, 10), p.Bold(d.Name), d.Specialty, orDash(d.Location))
	}
	return t.Render()
}

// Appointments prints a list of appointments. withReason adds the reason
// column, shown for booked appointments only.
func (p *Printer) Appointments(appts []domain.Appointment, withReason bool) error {
	if len(appts) == 0 {
		p.Info("No hay citas.")
		return nil
	}
	header := []string{"ID", "FECHA", "HORA", "MÉDICO", "ESPECIALIDAD", "ESTADO"}
	if withReason {
		header = append(header, "MOTIVO")
	}
	t := NewTable(p.out, header)
	for _, a := range appts {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.StartsAt.Date(),
			a.StartsAt.Clock(),
			a.DoctorName,
			a.DoctorSpecialty,
			p.Status(a.Status),
		}
		if withReason {
			row = append(row, orDash(a.Reason))
		}
		t.AddRow(row...)
	}
	return t.Render()
}

// Identity prints who is logged in.
func (p *Printer) Identity(id domain.Identity) {
	p.Print("%s %s", p.Dim("usuario:"), p.Bold(id.DisplayName()))
	if id.Email != "" {
		p.Print("%s   %s", p.Dim("email:"), id.Email)
	}
	p.Print("%s     %s", p.Dim("rol:"), id.Role.Label())
	p.Print("%s  %s", p.Dim("expira:"), id.ExpiresAt.Local().Format("02/01/2006 15:04"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
