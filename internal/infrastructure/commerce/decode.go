package commerce

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/tolerant"
)

func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeArray(raw []byte) ([]any, bool) {
	doc, err := decode(raw)
	if err != nil {
		return nil, false
	}
	rows, ok := doc.([]any)
	return rows, ok
}

// decodeItems acepta un arreglo o un objeto {items: [...]}.
func decodeItems(raw []byte) ([]any, bool) {
	doc, err := decode(raw)
	if err != nil {
		return nil, false
	}
	switch t := doc.(type) {
	case []any:
		return t, true
	case map[string]any:
		items, _ := t["items"].([]any)
		return items, true
	}
	return nil, false
}

func toNativeCarrier(m map[string]any) entity.NativeCarrier {
	nc := entity.NativeCarrier{
		ID:                      str(m["id"]),
		Code:                    str(m["code"]),
		Title:                   str(m["title"]),
		MethodName:              str(m["method_name"]),
		Active:                  tolerant.Truthy(m["active"]),
		Stores:                  tolerant.Strings(m["stores"]),
		Countries:               tolerant.Strings(m["countries"]),
		TrackingAvailable:       tolerant.Truthy(m["tracking_available"]),
		ShippingLabelsAvailable: tolerant.Truthy(m["shipping_labels_available"]),
	}
	if n, ok := intField(m["sort_order"]); ok {
		nc.SortOrder = &n
	}
	return nc
}

func toStoreView(m map[string]any) (entity.StoreView, bool) {
	var id int
	found := false
	for _, k := range []string{"id", "store_id", "storeId"} {
		if n, ok := intField(m[k]); ok {
			id, found = n, true
			break
		}
	}
	if !found {
		return entity.StoreView{}, false
	}
	sv := entity.StoreView{
		ID:                         id,
		Code:                       str(m["code"]),
		Locale:                     str(m["locale"]),
		BaseCurrencyCode:           str(m["base_currency_code"]),
		DefaultDisplayCurrencyCode: str(m["default_display_currency_code"]),
		Timezone:                   str(m["timezone"]),
		WeightUnit:                 str(m["weight_unit"]),
		BaseURL:                    str(m["base_url"]),
		SecureBaseURL:              str(m["secure_base_url"]),
	}
	if sv.Code == "" {
		sv.Code = strconv.Itoa(id)
	}
	for _, k := range []string{"website_id", "websiteId"} {
		if n, ok := intField(m[k]); ok {
			sv.WebsiteID = &n
			break
		}
	}
	return sv, true
}

func intField(v any) (int, bool) {
	d, ok := tolerant.Number(v)
	if !ok {
		return 0, false
	}
	return int(d.IntPart()), true
}

func str(v any) string {
	s, _ := tolerant.NonBlank(v)
	return s
}
