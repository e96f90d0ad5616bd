package appointments

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Appointment es un turno entre una mascota (y su dueño) y un vet.
// PetName y VetName son copias para mostrar; las búsquedas van siempre por ID.
type Appointment struct {
	ID      string
	PetID   string
	PetName string
	OwnerID string
	VetID   string
	VetName string

	Date     time.Time // día (00:00 UTC)
	Time     string    // "15:04"
	StartsAt time.Time

	Purpose string
	Notes   string
	Status  Status

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active: ocupa el horario del vet.
func (a Appointment) Active() bool { return a.Status != StatusCancelled }
