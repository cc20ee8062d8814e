package filestore

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
)

// decodeEntries decodifica un documento de tienda (arreglo de objetos) conservando los
// números como json.Number y las claves desconocidas.
func decodeEntries(data []byte) ([]map[string]any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	entries := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			entries = append(entries, m)
		}
	}
	return entries, nil
}

// decodeObject decodifica un documento legado de una sola transportadora.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimSpace(data)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDocument, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: se esperaba un objeto", domain.ErrMalformedDocument)
	}
	return obj, nil
}

func encodeEntries(entries []map[string]any) ([]byte, error) {
	if entries == nil {
		entries = []map[string]any{}
	}
	return json.MarshalIndent(entries, "", "  ")
}
