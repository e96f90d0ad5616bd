package home

import (
	"net/http"

	"pawsera/internal/domain/activity"
	"pawsera/internal/domain/appointments"
	"pawsera/internal/domain/pets"
	"pawsera/internal/domain/roles"
	"pawsera/internal/domain/users"
	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"
	"pawsera/internal/ports/weather"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/home", homeHandler(svc))
}

type ownerHomeResponse struct {
	Destination roles.Destination                          `json:"destination"`
	Profile     users.UserResponse                         `json:"profile"`
	Weather     Section[weather.Report]                    `json:"weather"`
	Pets        Section[[]pets.PetResponse]                `json:"pets"`
	Upcoming    Section[*appointments.AppointmentResponse] `json:"upcoming_appointment"`
	Counts      Section[map[appointments.Status]int]       `json:"appointment_counts"`
}

type vetHomeResponse struct {
	Destination  roles.Destination                          `json:"destination"`
	Profile      users.UserResponse                         `json:"profile"`
	Approved     bool                                       `json:"approved"`
	Today        Section[[]appointments.AppointmentResponse] `json:"today"`
	Upcoming     Section[[]appointments.AppointmentResponse] `json:"upcoming"`
	PendingCount Section[int]                               `json:"pending_count"`
}

type adminHomeResponse struct {
	Destination       roles.Destination                    `json:"destination"`
	Profile           users.UserResponse                   `json:"profile"`
	UserCounts        Section[map[roles.Role]int]          `json:"user_counts"`
	PendingVets       Section[[]users.UserResponse]        `json:"pending_vets"`
	AppointmentCounts Section[map[appointments.Status]int] `json:"appointment_counts"`
	RecentActivity    Section[[]activity.EntryResponse]    `json:"recent_activity"`
}

func upcomingResponse(a *appointments.Appointment) *appointments.AppointmentResponse {
	if a == nil {
		return nil
	}
	r := appointments.ToResponse(*a)
	return &r
}

// homeHandler godoc
// @Summary Dashboard del usuario actual
// @Description Devuelve OwnerHome, VetHome o AdminHome según el rol registrado. Cada sección trae su propio source (live|sample) o un error.
// @Tags home
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 422 {object} map[string]string "unknown role"
// @Router /home [get]
func homeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		dest, err := roles.Route(string(actor.Role))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		switch dest {
		case roles.OwnerHome:
			d, err := svc.OwnerHome(r.Context(), actor)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, ownerHomeResponse{
				Destination: dest,
				Profile:     users.ToResponse(d.Profile),
				Weather:     d.Weather,
				Pets:        mapSection(d.Pets, pets.ToResponses),
				Upcoming:    mapSection(d.Upcoming, upcomingResponse),
				Counts:      d.Counts,
			})

		case roles.VetHome:
			d, err := svc.VetHome(r.Context(), actor)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, vetHomeResponse{
				Destination:  dest,
				Profile:      users.ToResponse(d.Profile),
				Approved:     d.Approved,
				Today:        mapSection(d.Today, appointments.ToResponses),
				Upcoming:     mapSection(d.Upcoming, appointments.ToResponses),
				PendingCount: d.PendingCount,
			})

		default:
			d, err := svc.AdminHome(r.Context(), actor)
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, adminHomeResponse{
				Destination:       dest,
				Profile:           users.ToResponse(d.Profile),
				UserCounts:        d.UserCounts,
				PendingVets:       mapSection(d.PendingVets, users.ToResponses),
				AppointmentCounts: d.AppointmentCounts,
				RecentActivity:    mapSection(d.RecentActivity, activity.ToResponses),
			})
		}
	}
}
