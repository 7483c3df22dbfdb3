package catalog

import (
	"encoding/json"
)

// Record is a single product entry from the catalog. Every field is optional;
// anything missing or of the wrong JSON type decodes to its zero value.
type Record struct {
	SKU          string   `json:"sku,omitempty"`
	Title        string   `json:"title_en,omitempty"`
	Description  string   `json:"description_en,omitempty"`
	Images       []string `json:"images,omitempty"`
	Features     []string `json:"features,omitempty"`
	Applications []string `json:"applications,omitempty"`
	Supplier     string   `json:"supplier,omitempty"`
}

// UnmarshalJSON decodes a record field by field so that one malformed value
// does not reject the whole product.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// Not an object at all (null, number, array): treat as an empty record.
		*r = Record{}
		return nil
	}

	*r = Record{
		SKU:          decodeString(raw["sku"]),
		Title:        decodeString(raw["title_en"]),
		Description:  decodeString(raw["description_en"]),
		Images:       decodeList(raw["images"]),
		Features:     decodeList(raw["features"]),
		Applications: decodeList(raw["applications"]),
		Supplier:     decodeString(raw["supplier"]),
	}
	return nil
}

func decodeString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return ""
	}
	return s
}

// decodeList accepts an array, a bare string or null. Array elements that are
// not strings are kept as "" so they still count towards the list length.
func decodeList(msg json.RawMessage) []string {
	if len(msg) == 0 {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(msg, &items); err != nil {
		if s := decodeString(msg); s != "" {
			return []string{s}
		}
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, decodeString(item))
	}
	return out
}
