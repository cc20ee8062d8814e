package shipping

import (
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
)

// canonStore normaliza un token de tienda: minúsculas y "1" equivale a "default".
func canonStore(s string) string {
	t := tolerant.Fold(s)
	if t == "1" {
		return "default"
	}
	return t
}

// storeReason aplica el filtro de tiendas y devuelve el motivo de exclusión o "".
func storeReason(configured []string, cart entity.CartContext, policy StorePolicy) Reason {
	if policy == StorePermissive {
		allow := nonBlank(configured, tolerant.Fold)
		if len(allow) == 0 || cart.StoreToken == nil {
			return ""
		}
		r := tolerant.Fold(*cart.StoreToken)
		for _, a := range allow {
			if a == r {
				return ""
			}
		}
		return ReasonStoreMismatch
	}

	allow := nonBlank(configured, canonStore)
	if len(allow) == 0 {
		return ReasonStoreUnset
	}
	if cart.StoreToken == nil {
		return ""
	}
	r := canonStore(*cart.StoreToken)
	for _, a := range allow {
		if a == "*" || a == "all" || a == r {
			return ""
		}
	}
	return ReasonStoreMismatch
}

// groupReason aplica el filtro de grupos de cliente.
func groupReason(configured []string, cart entity.CartContext, policy FilterPolicy) Reason {
	allow := nonBlank(configured, tolerant.Fold)
	if len(allow) == 0 {
		if policy.Group == GroupStrict {
			return ReasonGroupUnset
		}
		return ""
	}
	if cart.CustomerGroupID != nil {
		g := tolerant.Fold(*cart.CustomerGroupID)
		for _, a := range allow {
			if a == g {
				return ""
			}
		}
		return ReasonGroupMismatch
	}
	// Grupo no resoluble: solo se bloquea con guest gating y un cliente autenticado conocido.
	if policy.GuestGating && cart.IsGuest != nil && !*cart.IsGuest &&
		len(allow) == 1 && allow[0] == GuestGroup {
		return ReasonGuestOnly
	}
	return ""
}

func nonBlank(in []string, canon func(string) string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := canon(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}
