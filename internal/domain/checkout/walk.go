package checkout

import (
	"sort"
	"strings"
)

const maxScanDepth = 32

type node struct {
	key   string
	value any
	depth int
}

// walk recorre el árbol en anchura visitando las claves de cada mapa en orden alfabético,
// de modo que el resultado no dependa del orden de iteración de los mapas.
// visit devuelve true para detener el recorrido.
func walk(doc any, visit func(key string, value any) bool) {
	queue := []node{{value: doc}}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.depth > maxScanDepth {
			continue
		}
		switch t := n.value.(type) {
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if visit(k, t[k]) {
					return
				}
				queue = append(queue, node{key: k, value: t[k], depth: n.depth + 1})
			}
		case []any:
			for _, item := range t {
				queue = append(queue, node{key: n.key, value: item, depth: n.depth + 1})
			}
		}
	}
}

// scanKeys busca la primera clave (sin distinguir mayúsculas) de names cuyo valor acepte accept.
func scanKeys(doc any, names []string, accept func(any) bool) (any, bool) {
	var found any
	ok := false
	walk(doc, func(key string, value any) bool {
		for _, name := range names {
			if strings.EqualFold(key, name) && accept(value) {
				found, ok = value, true
				return true
			}
		}
		return false
	})
	return found, ok
}
