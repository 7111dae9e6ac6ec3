// Package mirror - pure conversion from raw store values to typed local ones.
// File: mirror/format.go
package mirror

import (
	"encoding/json"
	"sort"

	"club-portal/logger"
)

// FormatCollection turns the raw keyed map for a collection into an ordered
// slice. Remote keys are opaque ids already embedded in each record, so only
// the values matter. An empty or absent raw value yields an empty slice,
// never nil. Records that do not decode into T are skipped.
func FormatCollection[T any](raw any, newer func(a, b T) bool) []T {
	items := []T{}
	m, ok := raw.(map[string]any)
	if !ok || len(m) == 0 {
		return items
	}
	for id, doc := range m {
		var item T
		if err := decodeRecord(doc, &item); err != nil {
			logger.Warn.Printf("[FormatCollection] skipping undecodable record %s: %v", id, err)
			continue
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool { return newer(items[i], items[j]) })
	return items
}

// DecodeSingleton type-checks a raw singleton document against T. The second
// return is false when raw is absent or malformed, in which case the caller
// keeps its previous value.
func DecodeSingleton[T any](raw any) (T, bool) {
	var v T
	if raw == nil {
		return v, false
	}
	if err := decodeRecord(raw, &v); err != nil {
		logger.Warn.Printf("[DecodeSingleton] malformed document: %v", err)
		return v, false
	}
	return v, true
}

// decodeRecord reshapes a JSON-form document into the target struct.
func decodeRecord(doc any, target any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}
