package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"pawsera/internal/domain/appointments"
	"pawsera/internal/domain/records"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapErr(t *testing.T) {
	cases := []struct {
		in   error
		want error
	}{
		{sql.ErrNoRows, apperr.ErrNotFound},
		{&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}, apperr.ErrConflict},
		{&pgconn.PgError{Code: "42P01"}, apperr.ErrUpstreamUnavailable},
		{errors.New("dial tcp: connection refused"), apperr.ErrUpstreamUnavailable},
		{context.Canceled, context.Canceled},
	}
	for _, c := range cases {
		if got := mapErr(c.in); !errors.Is(got, c.want) {
			t.Fatalf("mapErr(%v) = %v, want %v", c.in, got, c.want)
		}
	}
	if mapErr(nil) != nil {
		t.Fatalf("mapErr(nil) must be nil")
	}
}

func TestUsersListQuery(t *testing.T) {
	q, args := usersListQuery(users.ListFilter{Role: "Vet", Status: "pending", Query: "noah"})
	if !strings.Contains(q, "WHERE role = $1 AND status = $2 AND (name ILIKE $3 OR email ILIKE $3)") {
		t.Fatalf("unexpected query %s", q)
	}
	if len(args) != 3 || args[2] != "%noah%" {
		t.Fatalf("unexpected args %#v", args)
	}

	q, args = usersListQuery(users.ListFilter{})
	if strings.Contains(q, "WHERE") || len(args) != 0 {
		t.Fatalf("empty filter should not add conditions: %s", q)
	}
}

func TestEncodePrefs_NilAsEmptyObject(t *testing.T) {
	av, notif, err := encodePrefs(users.User{})
	if err != nil || av != "{}" || notif != "{}" {
		t.Fatalf("nil prefs: %q %q %v", av, notif, err)
	}

	av, _, err = encodePrefs(users.User{Availability: map[string]users.DayHours{
		"monday": {Start: "09:00", End: "17:00", Available: true},
	}})
	if err != nil || av != `{"monday":{"start":"09:00","end":"17:00","available":true}}` {
		t.Fatalf("unexpected availability json %s %v", av, err)
	}
}

func TestAppointmentsListQuery(t *testing.T) {
	day := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	q, args := appointmentsListQuery(appointments.ListFilter{VetID: "vet1", Status: appointments.StatusConfirmed, Day: &day})
	if !strings.Contains(q, "WHERE vet_id = $1 AND status = $2 AND day = $3") {
		t.Fatalf("unexpected query %s", q)
	}
	if got := args[2].(time.Time); got.Hour() != 0 || got.Day() != 4 {
		t.Fatalf("day must be truncated, got %v", got)
	}
	if !strings.HasSuffix(strings.TrimSpace(q), "ORDER BY starts_at ASC, created_at ASC") {
		t.Fatalf("unexpected order: %s", q)
	}

	from, to := day.Add(-30*time.Minute), day.Add(30*time.Minute)
	q, args = appointmentsListQuery(appointments.ListFilter{VetID: "vet1", From: &from, To: &to})
	if !strings.Contains(q, "WHERE vet_id = $1 AND starts_at >= $2 AND starts_at < $3") || len(args) != 3 {
		t.Fatalf("unexpected window query %s %v", q, args)
	}
}

func TestRecordsListQuery(t *testing.T) {
	q, args := recordsListQuery("pet1", records.ListFilter{
		Types: []records.Type{records.TypeVaccination, records.TypeCheckup},
		Query: "rabies",
		Limit: 500,
	})
	if !strings.Contains(q, "pet_id = $1 AND type IN ($2,$3) AND (title ILIKE $4 OR doctor ILIKE $4 OR description ILIKE $4)") {
		t.Fatalf("unexpected query %s", q)
	}
	if !strings.HasSuffix(q, "LIMIT $5") {
		t.Fatalf("expected limit placeholder, got %s", q)
	}
	if args[len(args)-1] != records.DefaultLimit {
		t.Fatalf("out-of-range limit must fall back to default, got %v", args[len(args)-1])
	}
}
