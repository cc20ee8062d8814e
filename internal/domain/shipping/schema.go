package shipping

import (
	"encoding/json"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
)

// FieldKind tipo de un campo personalizable.
type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindBoolean
	KindIntSet
	KindStringSet
)

func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindIntSet:
		return "intArray"
	case KindStringSet:
		return "strArray"
	}
	return "unknown"
}

// Field campo del esquema de personalización.
type Field struct {
	Name string
	Kind FieldKind
}

// CustomSchema campos que el administrador puede enviar junto a la transportadora nativa.
var CustomSchema = []Field{
	{Name: "method_name", Kind: KindString},
	{Name: "value", Kind: KindNumber},
	{Name: "minimum", Kind: KindNumber},
	{Name: "maximum", Kind: KindNumber},
	{Name: "customer_groups", Kind: KindIntSet},
	{Name: "price_per_item", Kind: KindBoolean},
	{Name: "stores", Kind: KindStringSet},
}

// Normalize convierte un valor crudo al tipo del campo. Vacío o no parseable produce el
// valor de borrado del tipo. Los números se devuelven como json.Number para que se
// serialicen como número.
func Normalize(kind FieldKind, raw any) any {
	switch kind {
	case KindString:
		if raw == nil {
			return nil
		}
		if s, ok := raw.(string); ok {
			if s == "" {
				return nil
			}
			return s
		}
		if s, ok := tolerant.NonBlank(raw); ok {
			return s
		}
		return nil
	case KindNumber:
		d, ok := tolerant.Number(raw)
		if !ok {
			return nil
		}
		return json.Number(d.String())
	case KindBoolean:
		if b := tolerant.Bool(raw); b != nil {
			return *b
		}
		return nil
	case KindIntSet:
		return tolerant.IntSet(raw)
	case KindStringSet:
		return tolerant.StringSet(raw)
	}
	return raw
}

// ClearValue valor de borrado: lista vacía para listas, nil para el resto.
func ClearValue(kind FieldKind) any {
	if kind == KindIntSet || kind == KindStringSet {
		return []any{}
	}
	return nil
}

// PatchRequest payload de administración ya decodificado.
type PatchRequest struct {
	Root      map[string]any
	Variables map[string]any
	// ClearIfAbsent es true cuando el payload traía el sobre "variables": los campos ausentes
	// tanto en la raíz como en el sobre se borran.
	ClearIfAbsent bool
}

// NewPatchRequest separa la raíz del sobre "variables" del payload de administración.
func NewPatchRequest(payload map[string]any) PatchRequest {
	req := PatchRequest{Root: payload, Variables: map[string]any{}}
	raw, present := payload["variables"]
	req.ClearIfAbsent = present
	if vars, ok := raw.(map[string]any); ok {
		req.Variables = vars
	}
	return req
}

// BuildPatch aplica el esquema: la raíz gana sobre "variables"; ausente en ambos con el
// sobre presente se borra; ausente sin sobre no se toca.
func BuildPatch(req PatchRequest) entity.CustomizationPatch {
	patch := entity.CustomizationPatch{}
	for _, f := range CustomSchema {
		if v, ok := req.Root[f.Name]; ok {
			patch[f.Name] = Normalize(f.Kind, v)
			continue
		}
		if v, ok := req.Variables[f.Name]; ok {
			patch[f.Name] = Normalize(f.Kind, v)
			continue
		}
		if req.ClearIfAbsent {
			patch[f.Name] = ClearValue(f.Kind)
		}
	}
	return patch
}

// BuildNativePayload toma del payload de administración solo los campos nativos.
func BuildNativePayload(in map[string]any) entity.CarrierPayload {
	out := entity.CarrierPayload{}
	if code, ok := tolerant.NonBlank(in["code"]); ok {
		out.Code = code
	}
	if v, ok := in["title"]; ok && v != nil {
		out.Title, _ = tolerant.NonBlank(v)
	}
	if v, ok := in["stores"]; ok {
		out.Stores = tolerant.StringSet(v)
	}
	if v, ok := in["countries"]; ok {
		out.Countries = tolerant.StringSet(v)
	}
	if d, ok := tolerant.Number(in["sort_order"]); ok {
		so := int(d.IntPart())
		out.SortOrder = &so
	}
	out.Active = flag(in, "active")
	out.TrackingAvailable = flag(in, "tracking_available")
	out.ShippingLabelsAvailable = flag(in, "shipping_labels_available")
	return out
}

func flag(in map[string]any, key string) *bool {
	v, ok := in[key]
	if !ok {
		return nil
	}
	b := tolerant.Truthy(v)
	if explicit, ok := tolerant.ExplicitBool(v); ok {
		b = explicit
	}
	return &b
}
