// Package local implementa el proveedor de identidad dentro del proceso:
// credenciales con bcrypt y sesiones como JWT HS256 con jti revocable.
package local

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pawsera/internal/platform/apperr"
	"pawsera/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "pawsera"

type Config struct {
	Secret     []byte
	TTL        time.Duration
	BcryptCost int // 0 => bcrypt.DefaultCost
}

// Provider implementa auth.IdentityProvider y auth.AuthVerifier.
type Provider struct {
	store  auth.CredentialStore
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time

	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> exp
}

func New(store auth.CredentialStore, cfg Config) (*Provider, error) {
	if store == nil {
		return nil, errors.New("local identity: credential store is required")
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("local identity: secret is required")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Provider{
		store:   store,
		secret:  cfg.Secret,
		ttl:     ttl,
		cost:    cost,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *Provider) CreateAccount(ctx context.Context, email, password string) (auth.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return auth.Principal{}, apperr.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	c := auth.Credential{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.store.Create(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return auth.Principal{}, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
		}
		return auth.Principal{}, err
	}
	return p.issue(c.UserID, c.Email)
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (auth.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	c, err := p.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return auth.Principal{}, apperr.ErrInvalidCredentials
		}
		return auth.Principal{}, err
	}
	if err := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)); err != nil {
		return auth.Principal{}, apperr.ErrInvalidCredentials
	}
	return p.issue(c.UserID, c.Email)
}

// SignOut revoca el jti del token. Un token ya inválido da ErrInvalidCredentials.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[claims.ID] = claims.ExpiresAt.Time
	p.sweepLocked()
	return nil
}

func (p *Provider) Verify(ctx context.Context, token string) (auth.Claims, error) {
	claims, err := p.parse(token)
	if err != nil {
		return auth.Claims{}, err
	}

	p.mu.RLock()
	_, revoked := p.revoked[claims.ID]
	p.mu.RUnlock()
	if revoked {
		return auth.Claims{}, fmt.Errorf("%w: session revoked", apperr.ErrInvalidCredentials)
	}

	return auth.Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (p *Provider) issue(userID, email string) (auth.Principal, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return auth.Principal{}, err
	}
	return auth.Principal{
		UserID:    userID,
		Email:     email,
		Token:     signed,
		ExpiresAt: exp.UTC(),
	}, nil
}

func (p *Provider) parse(token string) (*sessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperr.ErrInvalidCredentials
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidCredentials, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: token missing subject", apperr.ErrInvalidCredentials)
	}
	return claims, nil
}

// sweepLocked borra revocaciones de tokens ya expirados.
func (p *Provider) sweepLocked() {
	now := p.now()
	for id, exp := range p.revoked {
		if exp.Before(now) {
			delete(p.revoked, id)
		}
	}
}
