package form

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Schema describes a record type, its wizard steps and derived fields.
type Schema struct {
	Resource    string // REST collection, e.g. "vehicles"
	Singular    string // Key some endpoints wrap the record in, e.g. "vehicle"
	Title       string // Human name, e.g. "Vehicle"
	Fields      []Field
	Steps       []Step
	Defaults    Draft
	Derivations []Derivation
}

// StepCount returns the number of wizard steps.
func (s *Schema) StepCount() int {
	return len(s.Steps)
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// StepFields returns the fields owned by step i (1-based), in step order.
// Names that do not resolve to a schema field are skipped.
func (s *Schema) StepFields(i int) []Field {
	if i < 1 || i > len(s.Steps) {
		return nil
	}
	var fields []Field
	for _, name := range s.Steps[i-1].Fields {
		if f, ok := s.Field(name); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Coverage reports schema fields owned by no step and step field names
// that are not in the schema. Both are empty for a well-formed schema.
func (s *Schema) Coverage() (orphaned, unknown []string) {
	owned := make(map[string]bool)
	for _, step := range s.Steps {
		for _, name := range step.Fields {
			owned[name] = true
			if _, ok := s.Field(name); !ok {
				unknown = append(unknown, name)
			}
		}
	}
	for _, f := range s.Fields {
		if !owned[f.Name] {
			orphaned = append(orphaned, f.Name)
		}
	}
	return orphaned, unknown
}

// ValidateStep validates the fields and checks of step i (1-based).
func (s *Schema) ValidateStep(i int, d Draft) Validation {
	if i < 1 || i > len(s.Steps) {
		return Validation{Snapshot: Snapshot{}}
	}
	return Validate(s.StepFields(i), s.Steps[i-1].Checks, d)
}

// ValidateAll validates every field and every step's checks.
func (s *Schema) ValidateAll(d Draft) Validation {
	var checks []Check
	for _, step := range s.Steps {
		checks = append(checks, step.Checks...)
	}
	return Validate(s.Fields, checks, d)
}

// NewDraft returns an empty draft holding the schema defaults.
func (s *Schema) NewDraft() Draft {
	if s.Defaults == nil {
		return Draft{}
	}
	return s.Defaults.Clone()
}

// DraftFromRecord converts a backend record into a draft: dates become
// YYYY-MM-DD, numbers their shortest decimal text, lists []string.
// Attachments are never pre-filled; leaving them empty keeps the stored file.
func (s *Schema) DraftFromRecord(r Record) Draft {
	d := s.NewDraft()
	for _, f := range s.Fields {
		raw, ok := r[f.Name]
		if !ok || raw == nil {
			continue
		}
		switch f.Kind {
		case KindFile:
			continue
		case KindBool:
			switch v := raw.(type) {
			case bool:
				d[f.Name] = v
			case string:
				d[f.Name] = v == "true"
			}
		case KindDate:
			switch v := raw.(type) {
			case time.Time:
				d[f.Name] = FormatInputDate(v)
			case string:
				if t, err := ParseDate(v); err == nil {
					d[f.Name] = FormatInputDate(t)
				} else {
					d[f.Name] = v
				}
			}
		case KindList:
			d[f.Name] = toStringList(raw)
		default:
			d[f.Name] = toText(raw)
		}
	}
	return d
}

// RecordID extracts the record id as text, or "" when missing.
func RecordID(r Record) string {
	if r == nil {
		return ""
	}
	raw, ok := r["id"]
	if !ok || raw == nil {
		return ""
	}
	return toText(raw)
}

func toText(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func toStringList(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toText(item))
		}
		return out
	case string:
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}
