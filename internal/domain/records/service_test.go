package records_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "pawsera/internal/adapters/storage/memory"
	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/records"
	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"
)

var (
	owner   = roles.Actor{UserID: "owner1", Role: roles.PetOwner}
	other   = roles.Actor{UserID: "owner2", Role: roles.PetOwner}
	vet     = roles.Actor{UserID: "vet1", Role: roles.Vet, VetStatus: roles.VetApproved}
	pending = roles.Actor{UserID: "vet4", Role: roles.Vet, VetStatus: roles.VetPending}
	admin   = roles.Actor{UserID: "admin1", Role: roles.Admin}
)

func setup(t *testing.T) (*records.Service, string) {
	t.Helper()
	petsSvc := pets.NewService(mem.NewPetRepo(), nil)
	p, err := petsSvc.Create(context.Background(), owner, pets.CreateInput{Name: "Buddy", Species: "dog"})
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}
	return records.NewService(mem.NewRecordRepo(), petsSvc), p.ID
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestAdd_OwnerOrAdminOnly(t *testing.T) {
	svc, petID := setup(t)
	ctx := context.Background()

	m, err := svc.Add(ctx, owner, petID, records.CreateInput{Title: "Annual Checkup", Doctor: "Dr. Olivia Bennett", Date: day("2025-01-10"), Type: "checkup"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if m.OwnerID != "owner1" || m.Type != records.TypeCheckup {
		t.Fatalf("unexpected record %#v", m)
	}

	if _, err := svc.Add(ctx, admin, petID, records.CreateInput{Title: "Rabies", Date: day("2025-02-01"), Type: "vaccination"}); err != nil {
		t.Fatalf("admin Add: %v", err)
	}
	for _, a := range []roles.Actor{other, vet} {
		if _, err := svc.Add(ctx, a, petID, records.CreateInput{Title: "x", Date: day("2025-02-01")}); !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("%s: expected forbidden, got %v", a.UserID, err)
		}
	}

	if _, err := svc.Add(ctx, owner, petID, records.CreateInput{Title: "x", Date: day("2025-02-01"), Type: "grooming"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid type, got %v", err)
	}
	if _, err := svc.Add(ctx, owner, petID, records.CreateInput{Title: "x"}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected missing date, got %v", err)
	}
	if _, err := svc.Add(ctx, owner, "ghost", records.CreateInput{Title: "x", Date: day("2025-02-01")}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected pet not found, got %v", err)
	}
}

func TestListByPet_NewestFirstAndReadPermissions(t *testing.T) {
	svc, petID := setup(t)
	ctx := context.Background()

	_, _ = svc.Add(ctx, owner, petID, records.CreateInput{Title: "Old", Date: day("2024-05-01")})
	_, _ = svc.Add(ctx, owner, petID, records.CreateInput{Title: "New", Date: day("2025-05-01")})

	items, err := svc.ListByPet(ctx, vet, petID, records.ListFilter{})
	if err != nil {
		t.Fatalf("approved vet reads: %v", err)
	}
	if len(items) != 2 || items[0].Title != "New" {
		t.Fatalf("expected newest first, got %#v", items)
	}

	for _, a := range []roles.Actor{other, pending} {
		if _, err := svc.ListByPet(ctx, a, petID, records.ListFilter{}); !errors.Is(err, apperr.ErrForbidden) {
			t.Fatalf("%s: expected forbidden, got %v", a.UserID, err)
		}
	}
}
