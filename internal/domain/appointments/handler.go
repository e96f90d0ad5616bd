package appointments

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"pawsera/internal/domain/roles"
	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/upcoming", upcomingHandler(svc))

		ar.Get("/{appointmentID}", getAppointmentHandler(svc))
		ar.Post("/{appointmentID}/confirm", transitionHandler(svc.Confirm))
		ar.Post("/{appointmentID}/cancel", transitionHandler(svc.Cancel))
		ar.Post("/{appointmentID}/complete", transitionHandler(svc.Complete))
	})

	r.Get("/admin/appointments/export", exportHandler(svc))
}

type createAppointmentRequest struct {
	PetID   string `json:"pet_id"`
	VetID   string `json:"vet_id"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM
	Purpose string `json:"purpose"`
	Notes   string `json:"notes"`
	Status  Status `json:"status" enums:"pending,confirmed"` // opcional, default confirmed
}

// AppointmentResponse representa un turno devuelto por la API.
type AppointmentResponse struct {
	ID        string    `json:"id"`
	PetID     string    `json:"pet_id"`
	PetName   string    `json:"pet_name"`
	OwnerID   string    `json:"owner_id"`
	VetID     string    `json:"vet_id"`
	VetName   string    `json:"vet_name"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	StartsAt  time.Time `json:"starts_at"`
	Purpose   string    `json:"purpose"`
	Notes     string    `json:"notes,omitempty"`
	Status    Status    `json:"status"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createAppointmentHandler godoc
// @Summary Agendar turno
// @Description Dueño para su mascota, vet aprobado para sí mismo, o admin. El vet debe estar aprobado. Rechaza con 409 si el vet ya tiene un turno activo en ese horario.
// @Tags appointments
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createAppointmentRequest true "Datos del turno"
// @Success 201 {object} AppointmentResponse
// @Failure 400 {object} map[string]string "invalid json / vet no aprobado / fecha inválida"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Failure 409 {object} map[string]string "horario ocupado"
// @Router /appointments [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Create(r.Context(), actor, CreateInput{
			PetID:   req.PetID,
			VetID:   req.VetID,
			Date:    req.Date,
			Time:    req.Time,
			Purpose: req.Purpose,
			Notes:   req.Notes,
			Status:  req.Status,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary Listar turnos
// @Description Ordenados por fecha/hora ascendente. Un dueño ve los suyos, un vet su agenda, un admin todos. El header X-Data-Source indica live o sample.
// @Tags appointments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param owner_id query string false "Filtrar por dueño"
// @Param vet_id query string false "Filtrar por vet"
// @Param status query string false "pending | confirmed | cancelled | completed"
// @Param date query string false "Día YYYY-MM-DD"
// @Success 200 {array} AppointmentResponse
// @Failure 400 {object} map[string]string "filtros inválidos"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		filter := ListFilter{
			OwnerID: strings.TrimSpace(q.Get("owner_id")),
			VetID:   strings.TrimSpace(q.Get("vet_id")),
		}
		if v := strings.TrimSpace(q.Get("status")); v != "" {
			st := Status(strings.ToLower(v))
			if !st.Valid() {
				httpx.WriteMessage(w, http.StatusBadRequest, "unknown status "+v)
				return
			}
			filter.Status = st
		}
		if v := strings.TrimSpace(q.Get("date")); v != "" {
			d, err := time.Parse(DateLayout, v)
			if err != nil {
				httpx.WriteMessage(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			filter.Day = &d
		}

		res, err := svc.List(r.Context(), actor, filter)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.Header().Set(httpx.HeaderDataSource, string(res.Source))
		httpx.WriteJSON(w, http.StatusOK, ToResponses(res.Data))
	}
}

// upcomingHandler godoc
// @Summary Próximo turno confirmado
// @Description Devuelve el próximo turno confirmado del dueño (o del owner_id indicado, si es admin). 204 si no hay.
// @Tags appointments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param owner_id query string false "Dueño (admin)"
// @Success 200 {object} AppointmentResponse
// @Success 204
// @Failure 403 {object} map[string]string "forbidden"
// @Router /appointments/upcoming [get]
func upcomingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))
		if ownerID == "" {
			ownerID = actor.UserID
		}

		a, found, err := svc.UpcomingFor(r.Context(), actor, ownerID, svc.now())
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !found {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

// getAppointmentHandler godoc
// @Summary Detalle de turno
// @Tags appointments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} AppointmentResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Router /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		a, err := svc.Get(r.Context(), actor, chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

type transitionFunc func(ctx context.Context, actor roles.Actor, id string) (Appointment, error)

// transitionHandler godoc
// @Summary Cambiar estado del turno
// @Description confirm: pending->confirmed (vet asignado o admin). cancel: pending|confirmed->cancelled (dueño, vet asignado o admin). complete: confirmed->completed (vet asignado o admin). Otra transición => 409.
// @Tags appointments
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param appointmentID path string true "ID del turno"
// @Success 200 {object} AppointmentResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Failure 409 {object} map[string]string "invalid transition"
// @Router /appointments/{appointmentID}/confirm [post]
// @Router /appointments/{appointmentID}/cancel [post]
// @Router /appointments/{appointmentID}/complete [post]
func transitionHandler(fn transitionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		a, err := fn(r.Context(), actor, chi.URLParam(r, "appointmentID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(a))
	}
}

// exportHandler godoc
// @Summary Exportar turnos a Excel (admin)
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param Authorization header string true "Bearer token"
// @Success 200 {file} file
// @Failure 403 {object} map[string]string "forbidden"
// @Router /admin/appointments/export [get]
func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Se arma en memoria para poder responder un error JSON si algo falla.
		var buf bytes.Buffer
		if err := svc.Export(r.Context(), actor, &buf); err != nil {
			httpx.WriteError(w, err)
			return
		}

		name := "appointments_" + svc.now().UTC().Format("20060102") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

func ToResponse(a Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		PetID:     a.PetID,
		PetName:   a.PetName,
		OwnerID:   a.OwnerID,
		VetID:     a.VetID,
		VetName:   a.VetName,
		Date:      a.Date.Format(DateLayout),
		Time:      a.Time,
		StartsAt:  a.StartsAt,
		Purpose:   a.Purpose,
		Notes:     a.Notes,
		Status:    a.Status,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func ToResponses(items []Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToResponse(a))
	}
	return out
}
