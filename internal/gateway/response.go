package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/rentdesk/internal/form"
)

// decodeRecord unwraps a success body. Endpoints answer with
// {"data": {...}}, {"<singular>": {...}} or the bare record.
func decodeRecord(body []byte, singular string) (form.Record, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return form.Record{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	for _, key := range []string{"data", singular} {
		if key == "" {
			continue
		}
		if inner, ok := raw[key].(map[string]any); ok {
			return form.Record(inner), nil
		}
	}
	return form.Record(raw), nil
}

// decodeList unwraps a list body: {"data": [...]}, {"<resource>": [...]}
// or a bare array.
func decodeList(body []byte, resource string) ([]form.Record, error) {
	var bare []map[string]any
	if err := json.Unmarshal(body, &bare); err == nil {
		return toRecords(bare), nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	for _, key := range []string{"data", resource} {
		inner, ok := wrapped[key]
		if !ok {
			continue
		}
		var items []map[string]any
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		return toRecords(items), nil
	}
	return nil, fmt.Errorf("decoding response: no %s list", resource)
}

func toRecords(items []map[string]any) []form.Record {
	out := make([]form.Record, len(items))
	for i, item := range items {
		out[i] = form.Record(item)
	}
	return out
}
