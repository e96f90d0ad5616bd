// Package roles resuelve a qué home va cada rol y qué puede hacer cada actor.
package roles

import (
	"fmt"
	"strings"

	"pawsera/internal/platform/apperr"
)

type Role string

const (
	Admin    Role = "Admin"
	Vet      Role = "Vet"
	PetOwner Role = "PetOwner"
)

// legacyPetOwner es como quedaron guardados los dueños en datos viejos.
const legacyPetOwner = "Pet Owner"

type Destination string

const (
	AdminHome Destination = "AdminHome"
	VetHome   Destination = "VetHome"
	OwnerHome Destination = "OwnerHome"
)

// VetStatus solo aplica a usuarios Vet. Vacío para el resto.
type VetStatus string

const (
	VetPending  VetStatus = "pending"
	VetApproved VetStatus = "approved"
	VetDenied   VetStatus = "denied"
)

type Permission string

const (
	PermUserManagement     Permission = "user_management"
	PermVetApproval        Permission = "vet_approval"
	PermSystemAnalytics    Permission = "system_analytics"
	PermAppointmentsManage Permission = "appointments:manage"
	PermAppointmentsOwn    Permission = "appointments:manage_own"
	PermPetsRead           Permission = "pets:read"
	PermRecordsRead        Permission = "records:read"
	PermPetsManageOwn      Permission = "pets:manage_own"
	PermAppointmentsBook   Permission = "appointments:book"
	PermRecordsManageOwn   Permission = "records:manage_own"
)

// ParseRole acepta el alias "Pet Owner". Cualquier otro valor es ErrUnknownRole.
func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case string(Admin):
		return Admin, nil
	case string(Vet):
		return Vet, nil
	case string(PetOwner), legacyPetOwner:
		return PetOwner, nil
	default:
		return "", fmt.Errorf("%w: %q", apperr.ErrUnknownRole, s)
	}
}

// Route mapea un rol a su home. No hay default silencioso.
func Route(role string) (Destination, error) {
	r, err := ParseRole(role)
	if err != nil {
		return "", err
	}
	switch r {
	case Admin:
		return AdminHome, nil
	case Vet:
		return VetHome, nil
	default:
		return OwnerHome, nil
	}
}

func PermissionsFor(r Role) []Permission {
	switch r {
	case Admin:
		return []Permission{PermUserManagement, PermVetApproval, PermSystemAnalytics, PermAppointmentsManage}
	case Vet:
		return []Permission{PermAppointmentsOwn, PermPetsRead, PermRecordsRead}
	case PetOwner:
		return []Permission{PermPetsManageOwn, PermAppointmentsBook, PermRecordsManageOwn}
	default:
		return nil
	}
}

// Actor es el usuario autenticado con su rol ya resuelto desde el registro.
type Actor struct {
	UserID    string
	Role      Role
	VetStatus VetStatus
}

func (a Actor) IsAdmin() bool { return a.Role == Admin }

func (a Actor) IsApprovedVet() bool { return a.Role == Vet && a.VetStatus == VetApproved }

// CanManage: el propio dueño o un admin.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
