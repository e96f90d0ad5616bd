package nearby

import (
	"net/http"
	"strconv"
	"strings"

	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"
	"pawsera/internal/ports/maps"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/vets/nearby", nearbyHandler(svc))
}

type searchResponse struct {
	Center   maps.Location `json:"center"`
	Geocoded bool          `json:"geocoded"`
	Fallback bool          `json:"default_location"`
	Places   []Result      `json:"places"`
}

// nearbyHandler godoc
// @Summary Veterinarias cercanas
// @Description Sin lat/lng se geocodifica la ciudad del usuario (o se usa la ubicación por defecto). Orden por distancia.
// @Tags vets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param lat query number false "Latitud"
// @Param lng query number false "Longitud"
// @Param radius query int false "Radio en metros (default 3000)"
// @Param q query string false "Texto en nombre o dirección"
// @Success 200 {object} searchResponse
// @Failure 400 {object} map[string]string "invalid query"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 503 {object} map[string]string "maps unavailable"
// @Router /vets/nearby [get]
func nearbyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		var query Query
		var err error
		if query.Lat, err = optFloat(q.Get("lat")); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid lat")
			return
		}
		if query.Lng, err = optFloat(q.Get("lng")); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid lng")
			return
		}
		if v := strings.TrimSpace(q.Get("radius")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				httpx.WriteMessage(w, http.StatusBadRequest, "invalid radius")
				return
			}
			query.RadiusM = n
		}
		query.Text = q.Get("q")

		res, err := svc.Search(r.Context(), actor, query)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, searchResponse{
			Center:   res.Center,
			Geocoded: res.Geocoded,
			Fallback: res.Fallback,
			Places:   res.Places,
		})
	}
}

func optFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
