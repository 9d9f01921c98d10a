package facade

import (
	"encoding/json"
	"fmt"

	"github.com/bassista/go_storefront/internal/remote"
)

// toRecord converts an entity into a schemaless remote record.
func toRecord(v any) (remote.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec remote.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// fromRecord decodes a remote record into T.
func fromRecord[T any](rec remote.Record) (T, error) {
	var out T
	raw, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode record %s: %w", rec.ID(), err)
	}
	return out, nil
}
