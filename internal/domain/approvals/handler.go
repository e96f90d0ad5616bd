package approvals

import (
	"context"
	"net/http"

	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Sin subrouter: /vets/nearby lo registra otro módulo sobre el mismo árbol.
	r.Get("/vets/pending", listPendingHandler(svc))
	r.Get("/vets/approved", listApprovedHandler(svc))

	r.Post("/vets/{userID}/approve", approveHandler(svc))
	r.Post("/vets/{userID}/deny", denyHandler(svc))
}

// listPendingHandler godoc
// @Summary Vets pendientes de aprobación (admin)
// @Description El más antiguo primero.
// @Tags vets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} users.UserResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /vets/pending [get]
func listPendingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		items, err := svc.ListPending(r.Context(), actor)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, users.ToResponses(items))
	}
}

// listApprovedHandler godoc
// @Summary Directorio de vets aprobados
// @Tags vets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} users.UserResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Router /vets/approved [get]
func listApprovedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetActor(r.Context()); !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		items, err := svc.ListApproved(r.Context())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, users.ToResponses(items))
	}
}

// approveHandler godoc
// @Summary Aprobar vet (admin)
// @Tags vets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param userID path string true "ID del vet"
// @Success 200 {object} users.UserResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Failure 409 {object} map[string]string "invalid transition"
// @Router /vets/{userID}/approve [post]
func approveHandler(svc *Service) http.HandlerFunc {
	return reviewHandler(svc.Approve)
}

// denyHandler godoc
// @Summary Rechazar vet (admin)
// @Tags vets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param userID path string true "ID del vet"
// @Success 200 {object} users.UserResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Failure 409 {object} map[string]string "invalid transition"
// @Router /vets/{userID}/deny [post]
func denyHandler(svc *Service) http.HandlerFunc {
	return reviewHandler(svc.Deny)
}

type reviewFunc func(ctx context.Context, actor roles.Actor, vetID string) (users.User, error)

func reviewHandler(review reviewFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		u, err := review(r.Context(), actor, chi.URLParam(r, "userID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, users.ToResponse(u))
	}
}
