package filestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/fulcrum-shipping/internal/domain"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/repository"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

const (
	// DefaultPrefix carpeta virtual de los documentos: <prefix>/<storeKey>.json
	DefaultPrefix = "fulcrum/carriers"
	// DefaultStoreKey clave usada cuando no hay tienda.
	DefaultStoreKey = "default"
	legacyKeyPrefix = "carrier_custom_"
)

var _ repository.CustomizationRepository = (*CustomizationRepo)(nil)

// NormalizeStoreKey ordena y une con comas los tokens de tienda no vacíos (los tokens pueden
// venir ya separados por comas). Sin tokens devuelve "default".
func NormalizeStoreKey(tokens ...string) string {
	var parts []string
	for _, t := range tokens {
		for _, p := range strings.Split(t, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
	}
	if len(parts) == 0 {
		return DefaultStoreKey
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// CustomizationRepo implementación del puerto CustomizationRepository sobre un ByteStore.
type CustomizationRepo struct {
	store  repository.ByteStore
	prefix string
	log    *logger.Logger
	locks  *keyedMutex
}

// NewCustomizationRepository construye el repositorio; prefix vacío usa DefaultPrefix.
func NewCustomizationRepository(store repository.ByteStore, prefix string, log *logger.Logger) *CustomizationRepo {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CustomizationRepo{store: store, prefix: prefix, log: log, locks: newKeyedMutex()}
}

func (r *CustomizationRepo) docKey(storeKey string) string {
	return r.prefix + "/" + NormalizeStoreKey(storeKey) + ".json"
}

// load lee el documento de la tienda. Ausente o malformado cuenta como vacío.
func (r *CustomizationRepo) load(ctx context.Context, key string) ([]map[string]any, error) {
	data, err := r.store.Read(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return []map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	entries, err := decodeEntries(data)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("documento de personalizaciones inválido; se trata como vacío")
		return []map[string]any{}, nil
	}
	return entries, nil
}

func (r *CustomizationRepo) save(ctx context.Context, key string, entries []map[string]any) ([]map[string]any, error) {
	data, err := encodeEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", key, err)
	}
	if err := r.store.Write(ctx, key, data); err != nil {
		return nil, err
	}
	// Se devuelve lo que quedó persistido, con los tipos tal como se leerán después.
	return decodeEntries(data)
}

// Get busca la entrada con ese código en el documento de la tienda y, si no está, en las
// claves legadas carrier_custom_<code>.json y carrier_custom_<code>.
func (r *CustomizationRepo) Get(ctx context.Context, storeKey, code string) (entity.Customization, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return entity.Customization{}, nil
	}
	entries, err := r.load(ctx, r.docKey(storeKey))
	if err != nil {
		return entity.Customization{}, fmt.Errorf("leer personalizaciones: %w", err)
	}
	if i := indexOf(entries, "code", code); i >= 0 {
		return toCustomization(entries[i]), nil
	}

	for _, key := range legacyKeys(code) {
		data, err := r.store.Read(ctx, key)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return entity.Customization{}, fmt.Errorf("leer %s: %w", key, err)
		}
		obj, err := decodeObject(data)
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("JSON inválido en personalización legada")
			continue
		}
		c := toCustomization(obj)
		if c.Code == "" {
			c.Code = code
		}
		return c, nil
	}
	return entity.Customization{}, nil
}

// List devuelve las entradas de la tienda en el orden almacenado.
func (r *CustomizationRepo) List(ctx context.Context, storeKey string) ([]entity.Customization, error) {
	entries, err := r.load(ctx, r.docKey(storeKey))
	if err != nil {
		return nil, fmt.Errorf("leer personalizaciones: %w", err)
	}
	out := make([]entity.Customization, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCustomization(e))
	}
	return out, nil
}

// Upsert fusiona el patch (sobrescritura superficial) en la entrada con el mismo id o, sin
// id, con el mismo código. Si no hay coincidencia se agrega una entrada nueva, conservando
// el id recibido o generando uno "c_<uuid>".
func (r *CustomizationRepo) Upsert(ctx context.Context, storeKey string, patch entity.CustomizationPatch) (entity.Customization, error) {
	key := r.docKey(storeKey)
	unlock := r.locks.Lock(key)
	defer unlock()

	entries, err := r.load(ctx, key)
	if err != nil {
		return entity.Customization{}, fmt.Errorf("leer personalizaciones: %w", err)
	}

	idx := -1
	if id := patch.ID(); id != "" {
		idx = indexOf(entries, "id", id)
	} else if code, ok := tolerant.NonBlank(patch["code"]); ok {
		idx = indexOf(entries, "code", code)
	}

	if idx >= 0 {
		merged := make(map[string]any, len(entries[idx])+len(patch))
		for k, v := range entries[idx] {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = v
		}
		entries[idx] = merged
	} else {
		entry := make(map[string]any, len(patch)+1)
		for k, v := range patch {
			entry[k] = v
		}
		if patch.ID() == "" {
			entry["id"] = "c_" + uuid.NewString()
		}
		entries = append(entries, entry)
		idx = len(entries) - 1
	}

	saved, err := r.save(ctx, key, entries)
	if err != nil {
		return entity.Customization{}, fmt.Errorf("guardar personalizaciones: %w", err)
	}
	return toCustomization(saved[idx]), nil
}

// Delete elimina por id; devuelve si hubo cambios.
func (r *CustomizationRepo) Delete(ctx context.Context, storeKey, id string) (bool, error) {
	return r.remove(ctx, storeKey, "id", id)
}

// DeleteByCode elimina la entrada del código y sus claves legadas.
func (r *CustomizationRepo) DeleteByCode(ctx context.Context, storeKey, code string) (bool, error) {
	changed, err := r.remove(ctx, storeKey, "code", code)
	if err != nil {
		return false, err
	}
	for _, key := range legacyKeys(code) {
		deleted, err := r.store.Delete(ctx, key)
		if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("no se pudo borrar la personalización legada")
			continue
		}
		changed = changed || deleted
	}
	return changed, nil
}

func (r *CustomizationRepo) remove(ctx context.Context, storeKey, field, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	key := r.docKey(storeKey)
	unlock := r.locks.Lock(key)
	defer unlock()

	entries, err := r.load(ctx, key)
	if err != nil {
		return false, fmt.Errorf("leer personalizaciones: %w", err)
	}
	next := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		if str(e[field]) != value {
			next = append(next, e)
		}
	}
	if len(next) == len(entries) {
		return false, nil
	}
	if _, err := r.save(ctx, key, next); err != nil {
		return false, fmt.Errorf("guardar personalizaciones: %w", err)
	}
	return true, nil
}

// StoreKeys lista las tiendas con documento propio.
func (r *CustomizationRepo) StoreKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, r.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("listar tiendas: %w", err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		name := strings.TrimPrefix(k, r.prefix+"/")
		if !strings.HasSuffix(name, ".json") || strings.Contains(name, "/") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}

func indexOf(entries []map[string]any, field, value string) int {
	for i, e := range entries {
		if str(e[field]) == value {
			return i
		}
	}
	return -1
}

func legacyKeys(code string) []string {
	return []string{legacyKeyPrefix + code + ".json", legacyKeyPrefix + code}
}
