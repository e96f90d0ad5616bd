package activity

import "time"

type Type string

const (
	TypeVetApproved       Type = "vet_approved"
	TypeVetDenied         Type = "vet_denied"
	TypeUserRegistered    Type = "user_registered"
	TypeAppointmentBooked Type = "appointment_booked"
)

// Entry es una línea del feed de actividad del sistema. Nunca se edita.
type Entry struct {
	ID        string
	Type      Type
	Message   string
	ActorID   string
	SubjectID string
	CreatedAt time.Time
}
