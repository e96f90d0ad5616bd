package files

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Object describe un archivo ya guardado.
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// Store guarda bytes bajo una key ("pet-images/1700000000000_buddy.png") y
// devuelve una URL pública para leerlos.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Object, error)
	// Delete borra la key. Si no existe no es error.
	Delete(ctx context.Context, key string) error
}

const (
	FolderPetImages    = "pet-images"
	FolderPetDocuments = "pet-documents"
)

// ObjectKey arma "<folder>/<unix-ms>_<name>" con el nombre sin rutas ni espacios.
func ObjectKey(folder string, at time.Time, name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r < 0x20, r == '/', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return -1
		default:
			return r
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return fmt.Sprintf("%s/%d_%s", folder, at.UnixMilli(), name)
}
