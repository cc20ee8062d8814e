package repository

import "context"

// ByteStore almacén clave/bytes sobre el que se persisten los documentos JSON.
// Read devuelve domain.ErrNotFound si la clave no existe.
type ByteStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	// Delete indica si la clave existía.
	Delete(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
