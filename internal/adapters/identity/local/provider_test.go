package local

import (
	"context"
	"errors"
	"testing"
	"time"

	"pawsera/internal/adapters/storage/memory"
	"pawsera/internal/platform/apperr"

	"golang.org/x/crypto/bcrypt"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(memory.NewCredentialRepo(), Config{
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestCreateAccountAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)

	created, err := p.CreateAccount(ctx, "Sarah@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID == "" || created.Token == "" || created.Email != "sarah@example.com" {
		t.Fatalf("unexpected principal %#v", created)
	}

	got, err := p.SignIn(ctx, "sarah@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if got.UserID != created.UserID {
		t.Fatalf("expected same user id, got %s vs %s", got.UserID, created.UserID)
	}

	claims, err := p.Verify(ctx, got.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != created.UserID || claims.TokenID == "" {
		t.Fatalf("unexpected claims %#v", claims)
	}
}

func TestCreateAccount_DuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)

	if _, err := p.CreateAccount(ctx, "a@b.co", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := p.CreateAccount(ctx, "A@B.co", "other12"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSignIn_WrongPasswordOrUnknownEmail(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	_, _ = p.CreateAccount(ctx, "a@b.co", "secret1")

	if _, err := p.SignIn(ctx, "a@b.co", "nope"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", err)
	}
	if _, err := p.SignIn(ctx, "ghost@b.co", "secret1"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestSignOut_RevokesToken(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	pr, _ := p.CreateAccount(ctx, "a@b.co", "secret1")

	if err := p.SignOut(ctx, pr.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := p.Verify(ctx, pr.Token); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
}

func TestVerify_ExpiredAndForeignTokens(t *testing.T) {
	ctx := context.Background()
	p := newProvider(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.WithClock(func() time.Time { return base })

	pr, _ := p.CreateAccount(ctx, "a@b.co", "secret1")

	p.WithClock(func() time.Time { return base.Add(2 * time.Hour) })
	if _, err := p.Verify(ctx, pr.Token); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}

	other, _ := New(memory.NewCredentialRepo(), Config{Secret: []byte("other"), BcryptCost: bcrypt.MinCost})
	other.WithClock(func() time.Time { return base })
	foreign, _ := other.CreateAccount(ctx, "x@y.co", "secret1")
	p.WithClock(func() time.Time { return base })
	if _, err := p.Verify(ctx, foreign.Token); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected foreign signature to fail, got %v", err)
	}
}
