package identity

import (
	"net/http"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc))
		ar.Post("/logout", logoutHandler(svc))
	})
	r.Get("/me", meHandler(svc))
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Rol elegido en la pantalla de login; si no coincide con el registrado => 403.
	ExpectedRole string `json:"expected_role"`
}

type SessionResponse struct {
	Token       string             `json:"token,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	User        users.UserResponse `json:"user"`
	Destination roles.Destination  `json:"destination"`
	Permissions []roles.Permission `json:"permissions"`
}

func toSessionResponse(s Session) SessionResponse {
	out := SessionResponse{
		Token:       s.Token,
		User:        users.ToResponse(s.User),
		Destination: s.Destination,
		Permissions: s.Permissions,
	}
	if !s.ExpiresAt.IsZero() {
		t := s.ExpiresAt
		out.ExpiresAt = &t
	}
	if out.Permissions == nil {
		out.Permissions = []roles.Permission{}
	}
	return out
}

// registerHandler godoc
// @Summary Registrar cuenta
// @Description Rol por defecto PetOwner. Los Vet quedan pending hasta que un admin los apruebe.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body registerRequest true "Datos de registro"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} map[string]string "invalid input"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 409 {object} map[string]string "email already registered"
// @Failure 422 {object} map[string]string "unknown role"
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		sess, err := svc.Register(r.Context(), RegisterInput{
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
			Name:     req.Name,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// loginHandler godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} map[string]string "invalid json"
// @Failure 401 {object} map[string]string "invalid credentials"
// @Failure 403 {object} map[string]string "role mismatch"
// @Failure 404 {object} map[string]string "user not found"
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		sess, err := svc.Login(r.Context(), req.Email, req.Password, req.ExpectedRole)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

// logoutHandler godoc
// @Summary Logout
// @Tags auth
// @Param Authorization header string true "Bearer token"
// @Success 204
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := middleware.GetToken(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if err := svc.Logout(r.Context(), token); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags auth
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 404 {object} map[string]string "user not found"
// @Router /me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || claims.UserID == "" {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sess, err := svc.Me(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}
