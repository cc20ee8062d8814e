// Package tolerant interpreta valores de payloads JSON sin esquema fijo
// (números como string, listas como CSV, booleanos como "sí"/"1"/"on").
package tolerant

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold normaliza un token para comparaciones sin distinción de mayúsculas ("SÍ" == "sí").
func Fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

// truthyTokens valores textuales aceptados como "activo" desde el REST de Commerce.
var truthyTokens = map[string]struct{}{
	"true": {}, "1": {}, "yes": {}, "y": {}, "si": {}, "sí": {}, "on": {},
}

var (
	boolTrueTokens  = map[string]struct{}{"true": {}, "1": {}, "yes": {}, "on": {}, "si": {}, "sí": {}}
	boolFalseTokens = map[string]struct{}{"false": {}, "0": {}, "no": {}, "off": {}}
)

// Number interpreta v como número finito. nil, cadenas en blanco, NaN/Inf y estructuras no cuentan.
func Number(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return t, true
	case *decimal.Decimal:
		if t == nil {
			return decimal.Zero, false
		}
		return *t, true
	case string:
		return parseNumber(t)
	case json.Number:
		return parseNumber(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(t), true
	case float32:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(t), true
	case map[string]any, []any:
		return decimal.Zero, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// PickNumber devuelve el primer valor numérico de la lista. 0 es válido.
func PickNumber(vals ...any) *decimal.Decimal {
	for _, v := range vals {
		if d, ok := Number(v); ok {
			return &d
		}
	}
	return nil
}

// PickLimit devuelve el primer límite con restricción real: 0 y vacío significan "sin restricción".
func PickLimit(vals ...any) *decimal.Decimal {
	for _, v := range vals {
		d, ok := Number(v)
		if !ok || d.IsZero() {
			continue
		}
		return &d
	}
	return nil
}

// NonBlank convierte un escalar a string recortado; falla si es nil, vacío o no escalar.
func NonBlank(v any) (string, bool) {
	switch v.(type) {
	case nil, map[string]any, []any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Strings interpreta listas de configuración: arreglo, arreglo JSON serializado o CSV.
func Strings(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return compact(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := NonBlank(item); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []string{}
		}
		var parsed []any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			return Strings(parsed)
		}
		return compact(strings.Split(s, ","))
	}
	if s, ok := NonBlank(v); ok {
		return []string{s}
	}
	return []string{}
}

// StringSet como Strings pero sin duplicados, conservando el orden de aparición.
func StringSet(v any) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range Strings(v) {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// IntSet conserva solo los enteros de un arreglo; cualquier otro tipo produce lista vacía.
func IntSet(v any) []int {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []int:
		return append([]int{}, t...)
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	default:
		return []int{}
	}
	out := []int{}
	for _, item := range items {
		d, ok := Number(item)
		if !ok || !d.Equal(d.Truncate(0)) {
			continue
		}
		out = append(out, int(d.IntPart()))
	}
	return out
}

// Truthy implementa la regla "activo" del registro: true, números positivos o tokens conocidos.
func Truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case nil:
		return false
	case string:
		_, ok := truthyTokens[Fold(t)]
		return ok
	}
	if d, ok := Number(v); ok {
		return d.IsPositive()
	}
	return false
}

// ExplicitBool reconoce solo valores booleanos explícitos (bool, número, tokens sí/no).
func ExplicitBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case nil:
		return false, false
	case string:
		s := Fold(t)
		if _, ok := boolTrueTokens[s]; ok {
			return true, true
		}
		if _, ok := boolFalseTokens[s]; ok {
			return false, true
		}
		return false, false
	}
	if d, ok := Number(v); ok {
		return !d.IsZero(), true
	}
	return false, false
}

// Bool normaliza un campo booleano de administración: vacío es nil, texto no reconocido es true.
func Bool(v any) *bool {
	if v == nil {
		return nil
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil
	}
	if b, ok := ExplicitBool(v); ok {
		return &b
	}
	b := true
	return &b
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify pasa a minúsculas, colapsa todo lo no alfanumérico en "_" y recorta los extremos.
func Slugify(s, fallback string) string {
	out := slugRe.ReplaceAllString(strings.ToLower(s), "_")
	out = strings.Trim(out, "_")
	if out == "" {
		return fallback
	}
	return out
}

// FirstNonBlank devuelve el primer candidato no vacío.
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
