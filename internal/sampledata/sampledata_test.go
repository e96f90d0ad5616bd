package sampledata

import (
	"testing"

	"pawsera/internal/domain/roles"
)

func TestUsers_ReferencesAreConsistent(t *testing.T) {
	byID := map[string]roles.Role{}
	pending := 0
	for _, u := range Users() {
		byID[u.ID] = u.Role
		if u.Role == roles.Vet && u.Status == roles.VetPending {
			pending++
		}
	}
	if pending != 2 {
		t.Fatalf("expected 2 pending vets, got %d", pending)
	}

	for _, p := range Pets() {
		if byID[p.OwnerID] != roles.PetOwner {
			t.Fatalf("pet %s has unknown owner %s", p.ID, p.OwnerID)
		}
	}
	for _, a := range Appointments() {
		if byID[a.OwnerID] != roles.PetOwner || byID[a.VetID] != roles.Vet {
			t.Fatalf("appointment %s has bad references", a.ID)
		}
		if a.StartsAt.IsZero() {
			t.Fatalf("appointment %s has no start", a.ID)
		}
	}
}

func TestWeather_IsFixed(t *testing.T) {
	w := Weather()
	if w.City != "Toronto" || w.Condition != "Partly Cloudy" {
		t.Fatalf("unexpected sample weather %#v", w)
	}
}
