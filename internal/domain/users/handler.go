package users

import (
	"net/http"
	"strings"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Patch("/me", updateMeHandler(svc))

	// Gestión de usuarios (admin)
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))
		ur.Patch("/{userID}", updateUserHandler(svc))
	})
}

// UserResponse es la vista pública de un usuario. Otros módulos la reutilizan.
type UserResponse struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Role           roles.Role          `json:"role"`
	Status         string              `json:"status,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	City           string              `json:"city,omitempty"`
	Specialization string              `json:"specialization,omitempty"`
	Clinic         string              `json:"clinic,omitempty"`
	Availability   map[string]DayHours `json:"availability,omitempty"`
	Notifications  map[string]bool     `json:"notifications,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	ApprovedAt     *time.Time          `json:"approved_at,omitempty"`
	DeniedAt       *time.Time          `json:"denied_at,omitempty"`
	ReviewedBy     string              `json:"reviewed_by,omitempty"`
}

type updateProfileRequest struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	City           *string `json:"city"`
	Specialization *string `json:"specialization"`
	Clinic         *string `json:"clinic"`

	// Merge por key: {"saturday": {"start": "10:00", "end": "14:00", "available": true}}
	Availability  map[string]DayHours `json:"availability"`
	Notifications map[string]bool     `json:"notifications"`
}

func (r updateProfileRequest) patch() ProfilePatch {
	return ProfilePatch{
		Name:           r.Name,
		Phone:          r.Phone,
		City:           r.City,
		Specialization: r.Specialization,
		Clinic:         r.Clinic,
		Availability:   r.Availability,
		Notifications:  r.Notifications,
	}
}

// updateMeHandler godoc
// @Summary Actualizar mi perfil
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body updateProfileRequest true "Campos a modificar (PATCH)"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "invalid json"
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /me [patch]
func updateMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateProfileRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.UpdateProfile(r.Context(), actor, actor.UserID, req.patch())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(u))
	}
}

// listUsersHandler godoc
// @Summary Listar usuarios (admin)
// @Description Más recientes primero. Filtros opcionales por rol, estado y texto.
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param role query string false "Admin | Vet | PetOwner"
// @Param status query string false "pending | approved | denied"
// @Param q query string false "Texto en nombre o email"
// @Success 200 {array} UserResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /users [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		filter := ListFilter{
			Role:   strings.TrimSpace(q.Get("role")),
			Status: strings.TrimSpace(q.Get("status")),
			Query:  strings.TrimSpace(q.Get("q")),
		}
		if filter.Role != "" {
			role, err := roles.ParseRole(filter.Role)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			filter.Role = string(role)
		}

		items, err := svc.List(r.Context(), actor, filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

// updateUserHandler godoc
// @Summary Actualizar perfil de un usuario (admin)
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param userID path string true "ID del usuario"
// @Param payload body updateProfileRequest true "Campos a modificar (PATCH)"
// @Success 200 {object} UserResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Router /users/{userID} [patch]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updateProfileRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.UpdateProfile(r.Context(), actor, chi.URLParam(r, "userID"), req.patch())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(u))
	}
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Status:         string(u.Status),
		Phone:          u.Phone,
		City:           u.City,
		Specialization: u.Specialization,
		Clinic:         u.Clinic,
		Availability:   u.Availability,
		Notifications:  u.Notifications,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		ApprovedAt:     u.ApprovedAt,
		DeniedAt:       u.DeniedAt,
		ReviewedBy:     u.ReviewedBy,
	}
}

func ToResponses(items []User) []UserResponse {
	out := make([]UserResponse, 0, len(items))
	for _, u := range items {
		out = append(out, ToResponse(u))
	}
	return out
}
