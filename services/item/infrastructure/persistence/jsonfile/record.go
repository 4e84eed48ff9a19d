package jsonfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/ghuser/itemstore/services/item/domain/models"
)

const (
	keyID        = "id"
	keyName      = "name"
	keyCreatedAt = "createdAt"
	keyCategory  = "category"
	keyPrice     = "price"
)

var jsonNull = []byte("null")

// decodeElement maps one stored array element to an Item. It never fails:
// a non-object element becomes a placeholder carrying its raw bytes, and a
// field that does not fit its modeled type is kept in Item.Extra.
func decodeElement(raw json.RawMessage) *models.Item {
	if len(raw) == 0 {
		raw = json.RawMessage(jsonNull)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return &models.Item{Raw: raw}
	}

	item := &models.Item{}
	for key, val := range fields {
		if assignField(item, key, val) {
			continue
		}
		if item.Extra == nil {
			item.Extra = make(map[string]json.RawMessage)
		}
		item.Extra[key] = val
	}
	return item
}

// assignField stores val in the modeled field named key. It reports false
// for unknown keys and for values of the wrong type.
func assignField(item *models.Item, key string, val json.RawMessage) bool {
	if bytes.Equal(bytes.TrimSpace(val), jsonNull) {
		return false
	}
	switch key {
	case keyID:
		var id int64
		if json.Unmarshal(val, &id) != nil || id <= 0 {
			return false
		}
		item.ID = id
	case keyName:
		var name string
		if json.Unmarshal(val, &name) != nil || name == "" {
			return false
		}
		item.Name = models.ItemName(name)
	case keyCreatedAt:
		var s string
		if json.Unmarshal(val, &s) != nil {
			return false
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return false
		}
		item.CreatedAt = t.UTC()
	case keyCategory:
		var c string
		if json.Unmarshal(val, &c) != nil || c == "" {
			return false
		}
		item.Category = c
	case keyPrice:
		var p float64
		if json.Unmarshal(val, &p) != nil {
			return false
		}
		item.Price = &p
	default:
		return false
	}
	return true
}

type field struct {
	key string
	val any
}

// modeledFields lists the set modeled fields of it in on-disk order.
func modeledFields(it *models.Item) []field {
	var fs []field
	if it.ID != 0 {
		fs = append(fs, field{keyID, it.ID})
	}
	if it.Name != "" {
		fs = append(fs, field{keyName, it.Name.String()})
	}
	if ts := it.CreatedAtString(); ts != "" {
		fs = append(fs, field{keyCreatedAt, ts})
	}
	if it.Category != "" {
		fs = append(fs, field{keyCategory, it.Category})
	}
	if it.Price != nil {
		fs = append(fs, field{keyPrice, *it.Price})
	}
	return fs
}

// encodeElement is the inverse of decodeElement. Modeled fields come first
// in a fixed order, then Extra in key order.
func encodeElement(it *models.Item) (json.RawMessage, error) {
	if it.Raw != nil {
		return it.Raw, nil
	}

	fs := modeledFields(it)
	seen := make(map[string]bool, len(fs))
	for _, f := range fs {
		seen[f.key] = true
	}
	keys := make([]string, 0, len(it.Extra))
	for k := range it.Extra {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		fs = append(fs, field{k, it.Extra[k]})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fs {
		val, err := json.Marshal(f.val)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.key, err)
		}
		key, _ := json.Marshal(f.key)
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
