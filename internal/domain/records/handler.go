package records

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets/{petID}/records", func(rr chi.Router) {
		rr.Post("/", createRecordHandler(svc))
		rr.Get("/", listRecordsHandler(svc))
	})
}

// createRecordRequest es el cuerpo para registrar una atención en el historial.
type createRecordRequest struct {
	Title       string `json:"title"`
	Doctor      string `json:"doctor"`
	Date        string `json:"date"` // YYYY-MM-DD o RFC3339
	Type        string `json:"type" enums:"checkup,vaccination,surgery,emergency,dental,other"`
	Description string `json:"description"`
}

// RecordResponse representa una entrada del historial clínico devuelta por la API.
type RecordResponse struct {
	ID          string    `json:"id"`
	PetID       string    `json:"pet_id"`
	OwnerID     string    `json:"owner_id"`
	Title       string    `json:"title"`
	Doctor      string    `json:"doctor"`
	Date        string    `json:"date"`
	Type        Type      `json:"type"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// createRecordHandler godoc
// @Summary Agregar entrada al historial clínico
// @Description Solo el dueño de la mascota o un admin. Las entradas no se editan.
// @Tags records
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body createRecordRequest true "Datos de la atención"
// @Success 201 {object} RecordResponse
// @Failure 400 {object} map[string]string "invalid json / date inválida"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /pets/{petID}/records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createRecordRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "date must be YYYY-MM-DD or RFC3339")
			return
		}

		m, err := svc.Add(r.Context(), actor, chi.URLParam(r, "petID"), CreateInput{
			Title:       req.Title,
			Doctor:      req.Doctor,
			Date:        date,
			Type:        req.Type,
			Description: req.Description,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToResponse(m))
	}
}

// listRecordsHandler godoc
// @Summary Historial clínico de una mascota
// @Description Más reciente primero. Dueño, admin o vet aprobado. Permite filtrar por tipos, rango de fechas y texto.
// @Tags records
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo a devolver (1-200). Por defecto 50"
// @Param types query string false "CSV de tipos (ej: vaccination,dental)"
// @Param from query string false "Fecha mínima (YYYY-MM-DD o RFC3339)"
// @Param to query string false "Fecha máxima (YYYY-MM-DD o RFC3339)"
// @Param q query string false "Texto en título, doctor o descripción"
// @Success 200 {array} RecordResponse
// @Failure 400 {object} map[string]string "filtros inválidos"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /pets/{petID}/records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := svc.ListByPet(r.Context(), actor, chi.URLParam(r, "petID"), filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]RecordResponse, 0, len(items))
		for _, m := range items {
			out = append(out, ToResponse(m))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Limit: httpx.QueryLimit(r, DefaultLimit, MaxLimit)}

	// types=vaccination,dental
	if v := strings.TrimSpace(q.Get("types")); v != "" {
		for _, p := range strings.Split(v, ",") {
			if strings.TrimSpace(p) == "" {
				continue
			}
			t, ok := ParseType(p)
			if !ok {
				return ListFilter{}, errors.New("unknown record type " + strings.TrimSpace(p))
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return ListFilter{}, errors.New("from must be YYYY-MM-DD or RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return ListFilter{}, errors.New("to must be YYYY-MM-DD or RFC3339")
		}
		filter.To = &t
	}

	filter.Query = strings.TrimSpace(q.Get("q"))
	return filter, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func ToResponse(m MedicalRecord) RecordResponse {
	return RecordResponse{
		ID:          m.ID,
		PetID:       m.PetID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Doctor:      m.Doctor,
		Date:        m.Date.Format("2006-01-02"),
		Type:        m.Type,
		Description: m.Description,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}
