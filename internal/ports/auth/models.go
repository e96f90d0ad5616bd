package auth

import "time"

// Claims representa la información extraída del token de sesión.
type Claims struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Principal es lo que devuelve el proveedor de identidad al autenticar.
// UserID es el id estable del proveedor; el registro de usuario usa el mismo id.
type Principal struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}
