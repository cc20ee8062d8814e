// Package filestore implementa el puerto ByteStore sobre varios backends y, encima de él,
// los repositorios de documentos JSON (personalizaciones y operadores).
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
)

var _ repository.ByteStore = (*FSStore)(nil)

// FSStore guarda cada clave como un archivo bajo un directorio base.
type FSStore struct {
	fs   afero.Fs
	base string
}

// NewFSStore crea el store sobre el sistema de archivos del SO.
func NewFSStore(baseDir string) (*FSStore, error) {
	return NewFSStoreWithFs(afero.NewOsFs(), baseDir)
}

// NewFSStoreWithFs permite inyectar otro afero.Fs (MemMapFs en tests).
func NewFSStoreWithFs(fsys afero.Fs, baseDir string) (*FSStore, error) {
	if err := fsys.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio %s: %w", baseDir, err)
	}
	return &FSStore{fs: fsys, base: baseDir}, nil
}

func (s *FSStore) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: clave %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.base, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Read lee el archivo de la clave.
func (s *FSStore) Read(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("leer %s: %w", key, err)
	}
	return data, nil
}

// Write escribe en un temporal y renombra, para no dejar documentos a medias.
func (s *FSStore) Write(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("crear directorio de %s: %w", key, err)
	}
	tmp := p + ".tmp-" + uuid.NewString()
	if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", key, err)
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("renombrar %s: %w", key, err)
	}
	return nil
}

// Delete borra el archivo; false si no existía.
func (s *FSStore) Delete(_ context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	ok, err := afero.Exists(s.fs, p)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := s.fs.Remove(p); err != nil {
		return false, fmt.Errorf("borrar %s: %w", key, err)
	}
	return true, nil
}

// List devuelve las claves con el prefijo dado, ordenadas.
func (s *FSStore) List(_ context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := afero.Walk(s.fs, s.base, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.Contains(info.Name(), ".tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.base, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}
