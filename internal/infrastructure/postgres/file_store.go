package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
)

var _ repository.ByteStore = (*FileStore)(nil)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS fulcrum_documents (
		key        TEXT PRIMARY KEY,
		data       BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// FileStore implementación del puerto ByteStore sobre una tabla clave/bytea.
type FileStore struct {
	q Querier
}

// NewFileStore construye el store; q puede ser el pool o una transacción.
func NewFileStore(q Querier) *FileStore {
	return &FileStore{q: q}
}

// Querier devuelve la conexión subyacente para otros repositorios de la misma base.
func (s *FileStore) Querier() Querier { return s.q }

// EnsureSchema crea la tabla si no existe.
func (s *FileStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear tabla fulcrum_documents: %w", err)
	}
	return nil
}

// Read obtiene el documento por clave.
func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.q.QueryRow(ctx, `SELECT data FROM fulcrum_documents WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select documento %s: %w", key, err)
	}
	return data, nil
}

// Write inserta o reemplaza el documento.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO fulcrum_documents (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err := s.q.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("upsert documento %s: %w", key, err)
	}
	return nil
}

// Delete devuelve true si había fila.
func (s *FileStore) Delete(ctx context.Context, key string) (bool, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM fulcrum_documents WHERE key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("delete documento %s: %w", key, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List devuelve las claves con el prefijo, ordenadas.
func (s *FileStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.q.Query(ctx, `SELECT key FROM fulcrum_documents WHERE starts_with(key, $1) ORDER BY key`, prefix)
	if err != nil {
		return nil, fmt.Errorf("listar documentos %s: %w", prefix, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("leer claves: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
