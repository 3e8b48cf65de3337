package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a schema-less record: string keys to JSON-compatible
// values. The store manages the meta fields; everything else is opaque.
type Document map[string]any

// Store-managed fields stamped onto every document.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldVersion   = "_version"
)

// Marshal converts a typed model into its Document form via its JSON
// representation.
func Marshal(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// Unmarshal rehydrates a Document into the typed model v points to.
func Unmarshal(doc Document, v any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}

// ID returns the document's key, or "" if unset.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// Version returns the document's version counter regardless of whether
// it came from memory (int64) or a JSON round trip (float64).
func (d Document) Version() int64 {
	switch v := d[FieldVersion].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}

func (d Document) clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// valuesEqual compares two JSON-compatible values by their canonical
// JSON encoding, so int 5 and float64 5 from a decode round trip match.
func valuesEqual(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}
