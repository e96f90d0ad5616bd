package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawsera/internal/domain/appointments"
	"pawsera/internal/domain/records"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
)

func TestUserRepo_UniqueEmailAndNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, users.User{ID: "u1", Email: "a@x.com", Role: roles.PetOwner, CreatedAt: t0})
	_ = repo.Create(ctx, users.User{ID: "u2", Email: "b@x.com", Role: roles.Vet, Status: roles.VetPending, CreatedAt: t0.Add(time.Hour)})

	if err := repo.Create(ctx, users.User{ID: "u3", Email: "a@x.com"}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	all, _ := repo.List(ctx, users.ListFilter{})
	if len(all) != 2 || all[0].ID != "u2" {
		t.Fatalf("expected newest first, got %#v", all)
	}

	vets, _ := repo.List(ctx, users.ListFilter{Role: "Vet", Status: "pending"})
	if len(vets) != 1 || vets[0].ID != "u2" {
		t.Fatalf("unexpected vets %#v", vets)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@x.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepo_ProfileUpdateKeepsReview(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()
	_ = repo.Create(ctx, users.User{ID: "v1", Email: "v@x.com", Role: roles.Vet, Status: roles.VetPending,
		Notifications: map[string]bool{"newAppointments": true}})

	// perfil leído antes de la aprobación
	stale, _ := repo.GetByID(ctx, "v1")

	approved := stale
	approved.Status = roles.VetApproved
	approved.ReviewedBy = "admin1"
	if err := repo.UpdateStatus(ctx, approved, roles.VetPending); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := repo.UpdateStatus(ctx, approved, roles.VetPending); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("second review must fail, got %v", err)
	}

	stale.Clinic = "Downtown Animal Hospital"
	stale.Notifications["newAppointments"] = false
	if err := repo.Update(ctx, stale); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, _ := repo.GetByID(ctx, "v1")
	if got.Status != roles.VetApproved || got.ReviewedBy != "admin1" {
		t.Fatalf("profile update must not roll back the review: %#v", got)
	}
	if got.Clinic != "Downtown Animal Hospital" || got.Notifications["newAppointments"] {
		t.Fatalf("profile fields not written: %#v", got)
	}

	// los mapas devueltos no aliasean lo guardado
	got.Notifications["newAppointments"] = true
	if again, _ := repo.GetByID(ctx, "v1"); again.Notifications["newAppointments"] {
		t.Fatalf("stored prefs changed through a returned map")
	}
}

func TestAppointmentRepo_FiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepo()
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	mk := func(id, vet string, h int, st appointments.Status) appointments.Appointment {
		return appointments.Appointment{
			ID: id, VetID: vet, OwnerID: "o1", Status: st, Date: day,
			StartsAt: day.Add(time.Duration(h) * time.Hour), CreatedAt: day,
		}
	}
	_ = repo.Create(ctx, mk("late", "v1", 15, appointments.StatusConfirmed))
	_ = repo.Create(ctx, mk("early", "v1", 9, appointments.StatusPending))
	_ = repo.Create(ctx, mk("other", "v2", 10, appointments.StatusConfirmed))

	got, _ := repo.List(ctx, appointments.ListFilter{VetID: "v1"})
	if len(got) != 2 || got[0].ID != "early" || got[1].ID != "late" {
		t.Fatalf("expected ascending by start, got %#v", got)
	}

	got, _ = repo.List(ctx, appointments.ListFilter{Status: appointments.StatusConfirmed, Day: &day})
	if len(got) != 2 {
		t.Fatalf("expected 2 confirmed on day, got %d", len(got))
	}

	from, to := day.Add(9*time.Hour), day.Add(15*time.Hour)
	got, _ = repo.List(ctx, appointments.ListFilter{VetID: "v1", From: &from, To: &to})
	if len(got) != 1 || got[0].ID != "early" {
		t.Fatalf("To must be exclusive, got %#v", got)
	}

	if err := repo.Update(ctx, appointments.Appointment{ID: "missing"}, appointments.StatusPending); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAppointmentRepo_UpdateComparesStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepo()
	a := appointments.Appointment{ID: "a1", VetID: "v1", Status: appointments.StatusConfirmed}
	_ = repo.Create(ctx, a)

	a.Status = appointments.StatusCompleted
	if err := repo.Update(ctx, a, appointments.StatusPending); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("stale status must be rejected, got %v", err)
	}
	if got, _ := repo.GetByID(ctx, "a1"); got.Status != appointments.StatusConfirmed {
		t.Fatalf("rejected update must not write, got %s", got.Status)
	}
	if err := repo.Update(ctx, a, appointments.StatusConfirmed); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestRecordRepo_NewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepo()
	d := func(m int) time.Time { return time.Date(2025, time.Month(m), 1, 0, 0, 0, 0, time.UTC) }

	_ = repo.Create(ctx, records.MedicalRecord{ID: "r1", PetID: "p1", Title: "Annual checkup", Type: records.TypeCheckup, Date: d(1)})
	_ = repo.Create(ctx, records.MedicalRecord{ID: "r2", PetID: "p1", Title: "Rabies", Type: records.TypeVaccination, Date: d(3)})
	_ = repo.Create(ctx, records.MedicalRecord{ID: "r3", PetID: "p1", Title: "Cleaning", Type: records.TypeDental, Date: d(2)})
	_ = repo.Create(ctx, records.MedicalRecord{ID: "r4", PetID: "p2", Title: "Other pet", Date: d(4)})

	got, _ := repo.ListByPet(ctx, "p1", records.ListFilter{})
	if len(got) != 3 || got[0].ID != "r2" || got[2].ID != "r1" {
		t.Fatalf("expected newest first, got %#v", got)
	}

	from := d(2)
	got, _ = repo.ListByPet(ctx, "p1", records.ListFilter{From: &from, Types: []records.Type{records.TypeDental}})
	if len(got) != 1 || got[0].ID != "r3" {
		t.Fatalf("unexpected filtered %#v", got)
	}

	got, _ = repo.ListByPet(ctx, "p1", records.ListFilter{Query: "rabies", Limit: 1})
	if len(got) != 1 || got[0].ID != "r2" {
		t.Fatalf("unexpected query result %#v", got)
	}
}
