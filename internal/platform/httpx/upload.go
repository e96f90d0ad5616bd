package httpx

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// Upload es un archivo recibido por multipart/form-data.
type Upload struct {
	File        multipart.File
	Name        string
	ContentType string
	Size        int64
}

// ReadUpload lee el campo field acotando el body a maxBytes. Si algo falla ya
// escribió la respuesta (400 o 413) y devuelve ok=false.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, maxBytes int64) (Upload, bool) {
	if maxBytes > 0 {
		// margen para los headers del multipart
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			WriteMessage(w, http.StatusRequestEntityTooLarge, "file too large")
			return Upload{}, false
		}
		WriteMessage(w, http.StatusBadRequest, "invalid multipart form")
		return Upload{}, false
	}

	f, hdr, err := r.FormFile(field)
	if err != nil {
		WriteMessage(w, http.StatusBadRequest, "missing file field "+field)
		return Upload{}, false
	}
	if maxBytes > 0 && hdr.Size > maxBytes {
		_ = f.Close()
		WriteMessage(w, http.StatusRequestEntityTooLarge, "file too large")
		return Upload{}, false
	}

	ct := strings.TrimSpace(hdr.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = sniff(f)
	}

	return Upload{File: f, Name: hdr.Filename, ContentType: ct, Size: hdr.Size}, true
}

func sniff(f multipart.File) string {
	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	_, _ = f.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}
