package records

import (
	"strings"
	"time"
)

type Type string

const (
	TypeCheckup     Type = "checkup"
	TypeVaccination Type = "vaccination"
	TypeSurgery     Type = "surgery"
	TypeEmergency   Type = "emergency"
	TypeDental      Type = "dental"
	TypeOther       Type = "other"
)

func ParseType(s string) (Type, bool) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeCheckup, TypeVaccination, TypeSurgery, TypeEmergency, TypeDental, TypeOther:
		return t, true
	case "":
		return TypeOther, true
	default:
		return "", false
	}
}

// MedicalRecord es una entrada del historial clínico. Solo se agregan, nunca se editan.
type MedicalRecord struct {
	ID      string
	PetID   string
	OwnerID string

	Title       string
	Doctor      string
	Date        time.Time // día de la atención
	Type        Type
	Description string

	CreatedBy string
	CreatedAt time.Time
}
