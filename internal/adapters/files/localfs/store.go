// Package localfs guarda archivos en disco y los sirve bajo un prefijo HTTP.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pawsera/internal/platform/apperr"
	"pawsera/internal/ports/files"
)

type Store struct {
	root    string
	baseURL string
}

// New crea el directorio raíz si no existe. baseURL es el prefijo público ("/files").
func New(root, baseURL string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("localfs: root dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("localfs: create root: %w", err)
	}
	return &Store{
		root:    root,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

var _ files.Store = (*Store)(nil)

func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (files.Object, error) {
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return files.Object{}, fmt.Errorf("%w: empty key", apperr.ErrInvalidInput)
	}
	full := filepath.Join(s.root, filepath.FromSlash(clean))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return files.Object{}, apperr.Upstream("files", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return files.Object{}, apperr.Upstream("files", err)
	}
	n, err := io.Copy(f, readerWithContext(ctx, r))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		if ctx.Err() != nil {
			return files.Object{}, ctx.Err()
		}
		return files.Object{}, apperr.Upstream("files", err)
	}

	return files.Object{
		Key:         strings.TrimPrefix(clean, "/"),
		URL:         s.baseURL + clean,
		Size:        n,
		ContentType: contentType,
	}, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean := path.Clean("/" + strings.TrimSpace(key))
	if clean == "/" {
		return fmt.Errorf("%w: empty key", apperr.ErrInvalidInput)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.Upstream("files", err)
	}
	return nil
}

// Handler sirve los archivos guardados. Montar con http.StripPrefix(baseURL, ...).
func (s *Store) Handler() http.Handler {
	return http.FileServer(noDirs{http.Dir(s.root)})
}

// noDirs evita listar directorios.
type noDirs struct {
	fs http.FileSystem
}

func (n noDirs) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
