package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/platform/apperr"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	for _, x := range r.byID {
		if x.Email == u.Email {
			return apperr.ErrConflict
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(ctx context.Context, u User) error {
	prev, ok := r.byID[u.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Role, u.Status = prev.Role, prev.Status
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) UpdateStatus(ctx context.Context, u User, from roles.VetStatus) error {
	prev, ok := r.byID[u.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	if prev.Status != from {
		return fmt.Errorf("%w: vet is %s", apperr.ErrInvalidTransition, prev.Status)
	}
	prev.Status, prev.ReviewedBy, prev.UpdatedAt = u.Status, u.ReviewedBy, u.UpdatedAt
	r.byID[u.ID] = prev
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, apperr.ErrNotFound
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]User, error) {
	out := make([]User, 0)
	for _, u := range r.byID {
		if f.Role != "" && string(u.Role) != f.Role {
			continue
		}
		if f.Query != "" && !strings.Contains(u.Email, f.Query) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreate_NormalizesEmailAndVetStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateInput{ID: "u1", Email: "  Sarah@Example.COM ", Name: "Sarah", Role: roles.PetOwner, Status: roles.VetApproved})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "sarah@example.com" {
		t.Fatalf("expected lower-cased email, got %q", u.Email)
	}
	if u.Status != "" {
		t.Fatalf("non-vet users carry no status, got %q", u.Status)
	}

	v, err := svc.Create(ctx, CreateInput{ID: "v1", Email: "vet@example.com", Role: roles.Vet})
	if err != nil {
		t.Fatalf("Create vet: %v", err)
	}
	if v.Status != roles.VetPending {
		t.Fatalf("expected pending vet, got %q", v.Status)
	}

	if _, err := svc.Create(ctx, CreateInput{ID: "u2", Email: "SARAH@example.com", Role: roles.PetOwner}); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{ID: "u3", Email: "x@example.com", Role: "Root"}); !errors.Is(err, apperr.ErrUnknownRole) {
		t.Fatalf("expected unknown role, got %v", err)
	}
}

func TestUpdateProfile_SelfOrAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, CreateInput{ID: "u1", Email: "a@x.com", Name: "A", Role: roles.PetOwner})
	_, _ = svc.Create(ctx, CreateInput{ID: "u2", Email: "b@x.com", Name: "B", Role: roles.PetOwner})

	city := "Toronto"
	u, err := svc.UpdateProfile(ctx, roles.Actor{UserID: "u1", Role: roles.PetOwner}, "u1", ProfilePatch{City: &city})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if u.City != "Toronto" || u.Name != "A" {
		t.Fatalf("unexpected user %#v", u)
	}

	if _, err := svc.UpdateProfile(ctx, roles.Actor{UserID: "u2", Role: roles.PetOwner}, "u1", ProfilePatch{City: &city}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden for other owner, got %v", err)
	}

	empty := "  "
	if _, err := svc.UpdateProfile(ctx, roles.Actor{UserID: "adm", Role: roles.Admin}, "u1", ProfilePatch{Name: &empty}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for empty name, got %v", err)
	}

	if _, err := svc.UpdateProfile(ctx, roles.Actor{UserID: "adm", Role: roles.Admin}, "missing", ProfilePatch{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestList_AdminOnly(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.List(ctx, roles.Actor{UserID: "u1", Role: roles.PetOwner}, ListFilter{}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	items, err := svc.List(ctx, roles.Actor{UserID: "a1", Role: roles.Admin}, ListFilter{})
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty list, got %v %v", items, err)
	}
}

func TestEnsureCity_OnlyFillsMissing(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	u, _ := svc.Create(ctx, CreateInput{ID: "u1", Email: "a@x.com", Role: roles.PetOwner})
	u, err := svc.EnsureCity(ctx, u, "Toronto")
	if err != nil || u.City != "Toronto" {
		t.Fatalf("expected city filled, got %q err=%v", u.City, err)
	}
	if repo.byID["u1"].City != "Toronto" {
		t.Fatalf("expected city persisted")
	}

	u, _ = svc.EnsureCity(ctx, u, "Calgary")
	if u.City != "Toronto" {
		t.Fatalf("existing city must not be overwritten, got %q", u.City)
	}
}

func TestCreate_SeedsPreferenceDefaults(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	v, _ := svc.Create(ctx, CreateInput{ID: "v1", Email: "vet@x.com", Role: roles.Vet})
	if len(v.Availability) != 7 || !v.Availability["monday"].Available || v.Availability["sunday"].Available {
		t.Fatalf("unexpected vet availability %#v", v.Availability)
	}
	if !v.Notifications["newAppointments"] || v.Notifications["promotionalEmails"] {
		t.Fatalf("unexpected vet notifications %#v", v.Notifications)
	}

	o, _ := svc.Create(ctx, CreateInput{ID: "o1", Email: "owner@x.com", Role: roles.PetOwner})
	if o.Availability != nil || !o.Notifications["weatherAlerts"] {
		t.Fatalf("unexpected owner prefs %#v %#v", o.Availability, o.Notifications)
	}
}

func TestUpdateProfile_MergesPreferences(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	vet := roles.Actor{UserID: "v1", Role: roles.Vet, VetStatus: roles.VetApproved}
	owner := roles.Actor{UserID: "o1", Role: roles.PetOwner}
	_, _ = svc.Create(ctx, CreateInput{ID: "v1", Email: "vet@x.com", Role: roles.Vet, Status: roles.VetApproved})
	_, _ = svc.Create(ctx, CreateInput{ID: "o1", Email: "owner@x.com", Role: roles.PetOwner})

	u, err := svc.UpdateProfile(ctx, vet, "v1", ProfilePatch{
		Availability:  map[string]DayHours{"Saturday": {Start: "9:30", End: "13:00", Available: true}},
		Notifications: map[string]bool{"promotionalEmails": true},
	})
	if err != nil {
		t.Fatalf("update prefs: %v", err)
	}
	if got := u.Availability["saturday"]; got != (DayHours{Start: "09:30", End: "13:00", Available: true}) {
		t.Fatalf("unexpected saturday %#v", got)
	}
	if !u.Availability["monday"].Available || !u.Notifications["promotionalEmails"] || !u.Notifications["emergencyAlerts"] {
		t.Fatalf("untouched keys must keep their value: %#v %#v", u.Availability, u.Notifications)
	}
	if !repo.byID["v1"].Notifications["promotionalEmails"] {
		t.Fatalf("prefs not persisted")
	}

	bad := []ProfilePatch{
		{Availability: map[string]DayHours{"funday": {Start: "09:00", End: "10:00"}}},
		{Availability: map[string]DayHours{"monday": {Start: "17:00", End: "09:00"}}},
		{Availability: map[string]DayHours{"monday": {Start: "9am", End: "10:00"}}},
		{Notifications: map[string]bool{"weatherAlerts": true}}, // es de dueños
	}
	for i, p := range bad {
		if _, err := svc.UpdateProfile(ctx, vet, "v1", p); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}

	if _, err := svc.UpdateProfile(ctx, owner, "o1", ProfilePatch{Availability: map[string]DayHours{"monday": {Start: "09:00", End: "10:00"}}}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("owners have no availability, got %v", err)
	}
	o, err := svc.UpdateProfile(ctx, owner, "o1", ProfilePatch{Notifications: map[string]bool{"weatherAlerts": false}})
	if err != nil || o.Notifications["weatherAlerts"] || !o.Notifications["medicationReminders"] {
		t.Fatalf("owner notifications: %#v %v", o.Notifications, err)
	}
}

func TestSaveReview_RejectsStaleStatus(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	v, _ := svc.Create(ctx, CreateInput{ID: "v1", Email: "vet@x.com", Role: roles.Vet})

	v.Status = roles.VetApproved
	if err := svc.SaveReview(ctx, v, roles.VetPending); err != nil {
		t.Fatalf("first review: %v", err)
	}
	v.Status = roles.VetDenied
	if err := svc.SaveReview(ctx, v, roles.VetPending); !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("second review must fail, got %v", err)
	}
	if repo.byID["v1"].Status != roles.VetApproved {
		t.Fatalf("first review must stand, got %s", repo.byID["v1"].Status)
	}
}
