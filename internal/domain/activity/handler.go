package activity

import (
	"net/http"
	"time"

	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/admin/activity", listActivityHandler(svc))
}

type EntryResponse struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	ActorID   string    `json:"actor_id,omitempty"`
	SubjectID string    `json:"subject_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// listActivityHandler godoc
// @Summary Actividad reciente del sistema (admin)
// @Tags admin
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param limit query int false "1-200, por defecto 20"
// @Success 200 {array} EntryResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Router /admin/activity [get]
func listActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListRecent(r.Context(), actor, httpx.QueryLimit(r, DefaultLimit, MaxLimit))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func ToResponses(items []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(items))
	for _, e := range items {
		out = append(out, EntryResponse{
			ID:        e.ID,
			Type:      e.Type,
			Message:   e.Message,
			ActorID:   e.ActorID,
			SubjectID: e.SubjectID,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
