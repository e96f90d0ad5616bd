package documents

import (
	"net/http"
	"time"

	"pawsera/internal/middleware"
	"pawsera/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, maxUpload int64) {
	r.Route("/pets/{petID}/documents", func(dr chi.Router) {
		dr.Post("/", uploadDocumentHandler(svc, maxUpload))
		dr.Get("/", listDocumentsHandler(svc))
	})
}

type DocumentResponse struct {
	ID         string    `json:"id"`
	PetID      string    `json:"pet_id"`
	OwnerID    string    `json:"owner_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// uploadDocumentHandler godoc
// @Summary Subir documento de la mascota
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Param file formData file true "Documento"
// @Success 201 {object} DocumentResponse
// @Failure 400 {object} map[string]string "archivo inválido"
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Failure 413 {object} map[string]string "archivo muy grande"
// @Router /pets/{petID}/documents [post]
func uploadDocumentHandler(svc *Service, maxUpload int64) http.HandlerFunc {
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

		d, err := svc.Upload(r.Context(), actor, chi.URLParam(r, "petID"), UploadInput{
			FileName:    up.Name,
			ContentType: up.ContentType,
			Size:        up.Size,
			Body:        up.File,
		})
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toDocumentResponse(d))
	}
}

// listDocumentsHandler godoc
// @Summary Documentos de la mascota
// @Description Más reciente primero.
// @Tags documents
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} DocumentResponse
// @Failure 403 {object} map[string]string "forbidden"
// @Failure 404 {object} map[string]string "pet not found"
// @Router /pets/{petID}/documents [get]
func listDocumentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.GetActor(r.Context())
		if !ok {
			httpx.WriteMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListByPet(r.Context(), actor, chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		out := make([]DocumentResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDocumentResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toDocumentResponse(d Document) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		PetID:      d.PetID,
		OwnerID:    d.OwnerID,
		FileName:   d.FileName,
		FileURL:    d.FileURL,
		FileSize:   d.FileSize,
		FileType:   d.FileType,
		UploadedBy: d.UploadedBy,
		UploadedAt: d.UploadedAt,
	}
}
