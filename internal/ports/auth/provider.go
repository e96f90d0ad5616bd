package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// IdentityProvider es el backend de credenciales (local con bcrypt+JWT o remoto).
// SignIn devuelve apperr.ErrInvalidCredentials si email/password no coinciden;
// fallas de red se devuelven como apperr.ErrUpstreamUnavailable.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (Principal, error)
	SignIn(ctx context.Context, email, password string) (Principal, error)
	SignOut(ctx context.Context, token string) error
}
