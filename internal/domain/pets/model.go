package pets

import (
	"strings"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat, bird, rabbit, reptile, other
type Species string

const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

func ParseSpecies(s string) (Species, bool) {
	switch v := Species(strings.ToLower(strings.TrimSpace(s))); v {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesReptile, SpeciesOther:
		return v, true
	default:
		return "", false
	}
}

// Gender define el sexo de la mascota.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

func ParseGender(s string) (Gender, bool) {
	switch v := Gender(strings.ToLower(strings.TrimSpace(s))); v {
	case GenderMale, GenderFemale, GenderUnknown:
		return v, true
	case "":
		return GenderUnknown, true
	default:
		return "", false
	}
}

// Pet representa el perfil de una mascota.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species Species
	Breed   string
	Age     int // años
	Gender  Gender

	Weight    *float64 // kg
	Color     string
	Microchip string
	ImageURL  string
	Notes     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
