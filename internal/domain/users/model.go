package users

import (
	"time"

	"pawsera/internal/domain/roles"
)

// User es el registro de perfil. El ID es el mismo que asigna el proveedor de identidad.
type User struct {
	ID    string
	Name  string
	Email string // único, en minúsculas
	Role  roles.Role

	// Solo para Vet: pending | approved | denied.
	Status roles.VetStatus

	Phone          string
	City           string
	Specialization string
	Clinic         string

	// Preferencias de la pantalla de ajustes.
	Availability  map[string]DayHours // solo Vet; key = día en inglés, minúsculas
	Notifications map[string]bool

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeniedAt   *time.Time
	ReviewedBy string
}

// DayHours es el horario de atención de un día. Start y End en HH:MM.
type DayHours struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DefaultAvailability: lunes a viernes 09-17, fin de semana 10-14 cerrado.
func DefaultAvailability() map[string]DayHours {
	out := make(map[string]DayHours, len(Weekdays))
	for _, d := range Weekdays {
		switch d {
		case "saturday", "sunday":
			out[d] = DayHours{Start: "10:00", End: "14:00"}
		default:
			out[d] = DayHours{Start: "09:00", End: "17:00", Available: true}
		}
	}
	return out
}

// DefaultNotifications devuelve los avisos que acepta cada rol con su valor inicial.
// Admin no tiene avisos configurables.
func DefaultNotifications(role roles.Role) map[string]bool {
	switch role {
	case roles.Vet:
		return map[string]bool{
			"newAppointments":      true,
			"appointmentReminders": true,
			"patientUpdates":       true,
			"emergencyAlerts":      true,
			"promotionalEmails":    false,
		}
	case roles.PetOwner:
		return map[string]bool{
			"appointmentReminders": true,
			"medicationReminders":  true,
			"weatherAlerts":        true,
			"promotionalEmails":    false,
		}
	default:
		return map[string]bool{}
	}
}

// Actor arma el actor de autorización a partir del registro.
func (u User) Actor() roles.Actor {
	return roles.Actor{UserID: u.ID, Role: u.Role, VetStatus: u.Status}
}
