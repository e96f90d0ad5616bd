// Package identity resuelve quién es el usuario: registro, login, logout y perfil actual.
// El rol sale siempre del registro de usuario, nunca del email ni del token.
package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/platform/apperr"
	"pawsera/internal/platform/logger"
	"pawsera/internal/ports/auth"
)

const MinPasswordLen = 6

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	provider auth.IdentityProvider
	users    *users.Service
	activity *activity.Service
	log      logger.Logger
}

func NewService(provider auth.IdentityProvider, usersSvc *users.Service, activitySvc *activity.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		provider: provider,
		users:    usersSvc,
		activity: activitySvc,
		log:      log,
	}
}

// Session es el resultado de un login/registro exitoso.
type Session struct {
	Token       string
	ExpiresAt   time.Time
	User        users.User
	Destination roles.Destination
	Permissions []roles.Permission
}

type RegisterInput struct {
	Email    string
	Password string
	Role     string // vacío = PetOwner
	Name     string
}

func ValidateCredentials(email, password string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return fmt.Errorf("%w: invalid email", apperr.ErrInvalidInput)
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("%w: password must have at least %d characters", apperr.ErrInvalidInput, MinPasswordLen)
	}
	return nil
}

// Register crea la cuenta en el proveedor y el registro de usuario.
// Admin no se auto-registra; los vets arrancan pending.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if err := ValidateCredentials(in.Email, in.Password); err != nil {
		return Session{}, err
	}

	role := roles.PetOwner
	if strings.TrimSpace(in.Role) != "" {
		r, err := roles.ParseRole(in.Role)
		if err != nil {
			return Session{}, err
		}
		role = r
	}
	if role == roles.Admin {
		return Session{}, fmt.Errorf("%w: admins cannot self-register", apperr.ErrForbidden)
	}

	email := users.NormalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Session{}, fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Session{}, err
	}

	p, err := s.provider.CreateAccount(ctx, email, in.Password)
	if err != nil {
		return Session{}, err
	}

	u, err := s.users.Create(ctx, users.CreateInput{
		ID:    p.UserID,
		Name:  in.Name,
		Email: email,
		Role:  role,
	})
	if err != nil {
		// La cuenta del proveedor queda sin perfil: el login falla con UserNotFound.
		s.log.Error("user record create failed after account create", map[string]any{"user_id": p.UserID, "err": err})
		return Session{}, err
	}

	if s.activity != nil {
		if _, err := s.activity.Record(ctx, activity.TypeUserRegistered, u.ID, u.ID, fmt.Sprintf("New %s registered: %s", u.Role, u.Email)); err != nil {
			s.log.Warn("activity record failed", map[string]any{"user_id": u.ID, "err": err})
		}
	}

	return newSession(p, u)
}

// Login autentica y resuelve el usuario por id del proveedor y, si no, por email.
// Si expectedRole viene y no coincide => Forbidden (y se cierra la sesión recién abierta).
func (s *Service) Login(ctx context.Context, email, password, expectedRole string) (Session, error) {
	email = users.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, apperr.ErrInvalidCredentials
	}

	p, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	u, err := s.resolve(ctx, p, email)
	if err != nil {
		s.abort(ctx, p)
		return Session{}, err
	}

	if strings.TrimSpace(expectedRole) != "" {
		want, err := roles.ParseRole(expectedRole)
		if err != nil {
			s.abort(ctx, p)
			return Session{}, err
		}
		if want != u.Role {
			s.abort(ctx, p)
			return Session{}, fmt.Errorf("%w: access denied, account is not %s", apperr.ErrForbidden, want)
		}
	}

	sess, err := newSession(p, u)
	if err != nil {
		s.abort(ctx, p)
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) resolve(ctx context.Context, p auth.Principal, email string) (users.User, error) {
	u, err := s.users.GetByID(ctx, p.UserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return users.User{}, err
	}

	if e := users.NormalizeEmail(p.Email); e != "" {
		email = e
	}
	u, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return users.User{}, apperr.ErrUserNotFound
	}
	return users.User{}, err
}

func (s *Service) abort(ctx context.Context, p auth.Principal) {
	if p.Token == "" {
		return
	}
	if err := s.provider.SignOut(ctx, p.Token); err != nil {
		s.log.Warn("sign out after rejected login failed", map[string]any{"user_id": p.UserID, "err": err})
	}
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.ErrInvalidCredentials
	}
	return s.provider.SignOut(ctx, token)
}

// Me devuelve el usuario actual con su home y permisos (sin token).
func (s *Service) Me(ctx context.Context, userID string) (Session, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Session{}, apperr.ErrUserNotFound
		}
		return Session{}, err
	}
	return newSession(auth.Principal{}, u)
}

// BootstrapAdmin crea el primer admin si no existe. Idempotente.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password, name string) (users.User, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return users.User{}, err
	}
	email = users.NormalizeEmail(email)

	if u, err := s.users.FindByEmail(ctx, email); err == nil {
		if u.Role != roles.Admin {
			return users.User{}, fmt.Errorf("%w: %s exists with role %s", apperr.ErrConflict, email, u.Role)
		}
		return u, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return users.User{}, err
	}

	p, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return users.User{}, err
	}
	if p.Token != "" {
		_ = s.provider.SignOut(ctx, p.Token)
	}
	return s.users.Create(ctx, users.CreateInput{ID: p.UserID, Name: name, Email: email, Role: roles.Admin})
}

func newSession(p auth.Principal, u users.User) (Session, error) {
	dest, err := roles.Route(string(u.Role))
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:       p.Token,
		ExpiresAt:   p.ExpiresAt,
		User:        u,
		Destination: dest,
		Permissions: roles.PermissionsFor(u.Role),
	}, nil
}
