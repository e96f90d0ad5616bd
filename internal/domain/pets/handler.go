package pets

import (
	"net/http"
	"time"

	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, maxUpload int64) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))

		pr.Post("/{petID}/image", uploadImageHandler(svc, maxUpload))
	})
}

type createPetRequest struct {
	OwnerID   string   `json:"owner_id"` // solo admin
	Name      string   `json:"name"`
	Species   string   `json:"species" enums:"dog,cat,bird,rabbit,reptile,other"`
	Breed     string   `json:"breed"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender" enums:"male,female,unknown"`
	Weight    *float64 `json:"weight"`
	Color     string   `json:"color"`
	Microchip string   `json:"microchip"`
	Notes     string   `json:"notes"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name      *string  `json:"name"`
	Species   *string  `json:"species"`
	Breed     *string  `json:"breed"`
	Age       *int     `json:"age"`
	Gender    *string  `json:"gender"`
	Weight    *float64 `json:"weight"`
	Color     *string  `json:"color"`
	Microchip *string  `json:"microchip"`
	Notes     *string  `json:"notes"`
}

// PetResponse representa una mascota devuelta por la API.
type PetResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Species   Species   `json:"species"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	Gender    Gender    `json:"gender"`
	Weight    *float64  `json:"weight,omitempty"`
	Color     string    `json:"color,omitempty"`
	Microchip string    `json:"microchip,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description El dueño es el usuario autenticado. Un admin puede indicar owner_id.
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} PetResponse
// @Failure 400 {object} map[string]string "invalid json / reglas de negocio"
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), actor, CreateInput{
			OwnerID:   req.OwnerID,
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Age:       req.Age,
			Gender:    req.Gender,
			Weight:    req.Weight,
			Color:     req.Color,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, ToResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Sin owner_id lista las del usuario (o todas si es admin). El header X-Data-Source indica live o sample.
// @Tags pets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param owner_id query string false "Dueño (admin)"
// @Success 200 {array} PetResponse
// @Failure 401 {object} map[string]string "unauthorized"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 503 {object} map[string]string "store unavailable"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		res, err := svc.List(r.Context(), actor, r.URL.Query().Get("owner_id"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		w.Header().Set(httpx.HeaderDataSource, string(res.Source))
		httpx.WriteJSON(w, http.StatusOK, ToResponses(res.Data))
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Description Dueño, admin o vet aprobado.
// @Tags pets
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} PetResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.Get(r.Context(), actor, chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar (PATCH)"
// @Success 200 {object} PetResponse
// @Failure 400 {object} map[string]string "invalid json"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteMessage(w, http.StatusBadRequest, "invalid json")
			return
		}

		updated, err := svc.Update(r.Context(), actor, chi.URLParam(r, "petID"), Patch{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Age:       req.Age,
			Gender:    req.Gender,
			Weight:    req.Weight,
			Color:     req.Color,
			Microchip: req.Microchip,
			Notes:     req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(updated))
	}
}

// deletePetHandler godoc
// @Summary Eliminar mascota
// @Tags pets
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), actor, chi.URLParam(r, "petID")); err != nil {
			httpx.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadImageHandler godoc
// @Summary Subir foto de la mascota
// @Tags pets
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param file formData file true "Imagen"
// @Success 200 {object} PetResponse
// @Failure 400 {object} map[string]string "archivo inválido"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 413 {object} map[string]string "archivo muy grande"
// @Router /pets/{petID}/image [post]
func uploadImageHandler(svc *Service, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		up, ok := httpx.ReadUpload(w, r, "file", maxUpload)
		if !ok {
			return
		}
		defer up.File.Close()

		p, err := svc.UploadImage(r.Context(), actor, chi.URLParam(r, "petID"), up.Name, up.ContentType, up.File)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponse(p))
	}
}

func ToResponse(p Pet) PetResponse {
	return PetResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		Gender:    p.Gender,
		Weight:    p.Weight,
		Color:     p.Color,
		Microchip: p.Microchip,
		ImageURL:  p.ImageURL,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToResponses(items []Pet) []PetResponse {
	out := make([]PetResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToResponse(p))
	}
	return out
}
