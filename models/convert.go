// ABOUTME: Conversion between typed entities and generic field maps
// ABOUTME: Field maps are what record stores persist; keys follow the JSON tags
package models

import (
	"encoding/json"
	"fmt"
)

// idKey mirrors schema.IDKey; models stays free of the schema package.
const idKey = "Id"

// ToFields flattens an entity into a field map without its Id.
func ToFields(entity any) (map[string]any, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode entity fields: %w", err)
	}
	delete(fields, idKey)
	return fields, nil
}

// FromFields populates out (a pointer to an entity) from a field map and id.
func FromFields(id int64, fields map[string]any, out any) error {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged[idKey] = id

	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode record %d: %w", id, err)
	}
	return nil
}
