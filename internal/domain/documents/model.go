package documents

import "time"

// Document es un archivo adjunto a una mascota (análisis, recetas, certificados).
type Document struct {
	ID      string
	PetID   string
	OwnerID string

	FileName string
	FileURL  string
	FileKey  string
	FileSize int64
	FileType string

	UploadedBy string
	UploadedAt time.Time
}
