// ABOUTME: Declarative per-entity field schemas shared by every record store
// ABOUTME: Maps field keys to backend columns, types, required flags and defaults
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType describes how a field value is stored and compared.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeNumber    FieldType = "number"
	TypeInteger   FieldType = "integer"
	TypeDate      FieldType = "date"
	TypeDateTime  FieldType = "datetime"
	TypeTags      FieldType = "tags"
	TypeReference FieldType = "reference"
	// TypeObject values are nested objects. Backends without native object
	// support receive them as embedded JSON text.
	TypeObject FieldType = "object"
)

// IDKey is the field key every record carries for its integer identifier.
const IDKey = "Id"

// Field is one declared field of an entity.
type Field struct {
	Key      string
	Column   string
	Type     FieldType
	Required bool
	Default  any
}

// Entity describes one named collection.
type Entity struct {
	Name         string
	Table        string
	Fields       []Field
	SearchFields []string
}

// Field returns the declared field for key.
func (e Entity) Field(key string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Column returns the backend column for key, or key itself when undeclared.
func (e Entity) Column(key string) string {
	if f, ok := e.Field(key); ok && f.Column != "" {
		return f.Column
	}
	return key
}

// Validate checks the schema for duplicate keys or columns and for search
// fields that are not declared string fields.
func (e Entity) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("schema: entity name is required")
	}
	if e.Table == "" {
		return fmt.Errorf("schema %s: table is required", e.Name)
	}

	keys := make(map[string]bool, len(e.Fields))
	columns := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		if f.Key == "" {
			return fmt.Errorf("schema %s: field with empty key", e.Name)
		}
		if f.Key == IDKey {
			return fmt.Errorf("schema %s: %s is reserved", e.Name, IDKey)
		}
		if keys[f.Key] {
			return fmt.Errorf("schema %s: duplicate field key %q", e.Name, f.Key)
		}
		keys[f.Key] = true

		col := e.Column(f.Key)
		if columns[col] {
			return fmt.Errorf("schema %s: duplicate column %q", e.Name, col)
		}
		columns[col] = true
	}

	for _, key := range e.SearchFields {
		f, ok := e.Field(key)
		if !ok {
			return fmt.Errorf("schema %s: search field %q is not declared", e.Name, key)
		}
		if f.Type != TypeString {
			return fmt.Errorf("schema %s: search field %q must be a string field", e.Name, key)
		}
	}

	return nil
}

// ApplyDefaults fills fields that declare a default and are absent, null or
// blank text. The map is modified in place.
func (e Entity) ApplyDefaults(fields map[string]any) {
	for _, f := range e.Fields {
		if f.Default == nil {
			continue
		}
		if blank(fields[f.Key]) {
			fields[f.Key] = f.Default
		}
	}
}

// Complete returns a map with every declared field of e set, absent ones as nil.
// Merging it over a stored record clears whatever fields omits.
func (e Entity) Complete(fields map[string]any) map[string]any {
	out := make(map[string]any, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Key] = nil
	}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// Missing returns the required fields that are absent or blank.
func (e Entity) Missing(fields map[string]any) []string {
	var missing []string
	for _, f := range e.Fields {
		if !f.Required {
			continue
		}
		if blank(fields[f.Key]) {
			missing = append(missing, f.Key)
		}
	}
	return missing
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// Encode converts a keyed field map into the backend's column naming.
// Object fields are flattened to JSON text and undeclared keys pass through.
func (e Entity) Encode(fields map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))
	for key, v := range fields {
		if key == IDKey {
			out[IDKey] = v
			continue
		}
		f, declared := e.Field(key)
		if declared && f.Type == TypeObject && v != nil {
			if _, isText := v.(string); !isText {
				data, err := json.Marshal(v)
				if err != nil {
					return nil, fmt.Errorf("encode %s.%s: %w", e.Name, key, err)
				}
				v = string(data)
			}
		}
		out[e.Column(key)] = v
	}
	return out, nil
}

// Decode reverses Encode. Object fields stored as JSON text are parsed back
// into nested maps; text that does not parse is kept as-is.
func (e Entity) Decode(row map[string]any) map[string]any {
	byColumn := make(map[string]Field, len(e.Fields))
	for _, f := range e.Fields {
		byColumn[e.Column(f.Key)] = f
	}

	out := make(map[string]any, len(row))
	for col, v := range row {
		if col == IDKey {
			out[IDKey] = v
			continue
		}
		f, declared := byColumn[col]
		if !declared {
			out[col] = v
			continue
		}
		if text, ok := v.(string); ok && f.Type == TypeObject && text != "" {
			var nested map[string]any
			if err := json.Unmarshal([]byte(text), &nested); err == nil {
				v = nested
			}
		}
		out[f.Key] = v
	}
	return out
}
