// Package filesystem guarda las fotos de los reportes en disco, bajo
// <root>/reports/<código>/photo.jpg. Servirlas no es tarea de esta API.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"pet-rescue/internal/platform/refcode"
)

var (
	ErrNoRoot      = errors.New("media root is required")
	ErrInvalidCode = errors.New("invalid reference code")
)

const photoName = "photo.jpg"

type Store struct {
	root string
}

// New crea el directorio raíz si no existe.
func New(root string) (*Store, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, ErrNoRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating media root: %w", err)
	}
	return &Store{root: root}, nil
}

// Save escribe a un temporal y renombra, así nunca queda una foto a medias.
// Devuelve la ruta relativa (con "/") que se guarda en el reporte.
func (s *Store) Save(_ context.Context, code string, data []byte) (string, error) {
	dir, err := s.dir(code)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating photo dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op después del rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing photo: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, photoName)); err != nil {
		return "", fmt.Errorf("storing photo: %w", err)
	}
	return path.Join("reports", code, photoName), nil
}

// Delete borra la carpeta del reporte. Si no existe no es error.
func (s *Store) Delete(_ context.Context, code string) error {
	dir, err := s.dir(code)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing photo dir: %w", err)
	}
	return nil
}

// El código se valida antes de armar la ruta: evita "../" y similares.
func (s *Store) dir(code string) (string, error) {
	if !refcode.Valid(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return filepath.Join(s.root, "reports", code), nil
}
