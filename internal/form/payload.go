package form

import (
	"strconv"
	"time"
)

// Part is a primitive value serialized as text.
type Part struct {
	Name  string
	Value string
}

// Attachment is a binary part of the transfer payload.
type Attachment struct {
	Name string
	File File
}

// Payload is the transfer form of a validated record: every primitive as
// its string representation, files as named binary parts. List items are
// repeated parts under the same name.
type Payload struct {
	Values []Part
	Files  []Attachment
}

// Value returns the first text part with the given name.
func (p *Payload) Value(name string) (string, bool) {
	for _, part := range p.Values {
		if part.Name == name {
			return part.Value, true
		}
	}
	return "", false
}

// All returns every text part with the given name.
func (p *Payload) All(name string) []string {
	var out []string
	for _, part := range p.Values {
		if part.Name == name {
			out = append(out, part.Value)
		}
	}
	return out
}

// NewPayload serializes snap in schema field order. Absent values are
// omitted.
func NewPayload(fields []Field, snap Snapshot) *Payload {
	p := &Payload{}
	for _, f := range fields {
		v, ok := snap[f.Name]
		if !ok {
			continue
		}
		switch tv := v.(type) {
		case File:
			p.Files = append(p.Files, Attachment{Name: f.Name, File: tv})
		case []string:
			for _, item := range tv {
				p.Values = append(p.Values, Part{Name: f.Name, Value: item})
			}
		case float64:
			p.Values = append(p.Values, Part{Name: f.Name, Value: strconv.FormatFloat(tv, 'f', -1, 64)})
		case time.Time:
			p.Values = append(p.Values, Part{Name: f.Name, Value: FormatWireDate(tv)})
		case bool:
			p.Values = append(p.Values, Part{Name: f.Name, Value: strconv.FormatBool(tv)})
		case string:
			p.Values = append(p.Values, Part{Name: f.Name, Value: tv})
		}
	}
	return p
}

// Submission is a finalized record ready for the gateway.
type Submission struct {
	Resource string
	Singular string
	ID       string // Empty for creation
	Payload  *Payload
	Snapshot Snapshot
}

// Action names the submission kind: "create" or "update".
func (s *Submission) Action() string {
	if s.ID == "" {
		return "create"
	}
	return "update"
}
