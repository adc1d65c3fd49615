// Package form implements the multi-step record wizard: draft state, step
// gating, coercion of raw input into typed snapshots, validation and the
// transfer payload handed to a submission gateway.
package form

import (
	"regexp"
	"slices"
)

// Kind identifies how a field's raw draft value is coerced and serialized.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindDate
	KindBool
	KindSelect
	KindFile
	KindList
)

// String returns the kind name used in logs and the review overlay.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	case KindSelect:
		return "select"
	case KindFile:
		return "file"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Field describes one entry of a record schema.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Required    bool
	ReadOnly    bool     // Computed by a Derivation, never edited directly
	Options     []string // Allowed values for KindSelect (empty = any)
	Placeholder string

	// Numeric bounds, applied to the coerced value.
	Min          *float64
	Max          *float64
	MinExclusive bool

	// Pattern is matched against trimmed text values.
	Pattern     *regexp.Regexp
	PatternCode string
}

// Bound is a helper for Field.Min and Field.Max literals.
func Bound(v float64) *float64 {
	return &v
}

// HasOption reports whether v is one of the field's select options.
// Fields without options accept any value.
func (f Field) HasOption(v string) bool {
	if len(f.Options) == 0 {
		return true
	}
	return slices.Contains(f.Options, v)
}

// Step is one screen of the wizard.
type Step struct {
	Title  string
	Fields []string
	Checks []Check // Cross-field checks run after the step's field rules
}

// Derivation keeps Target consistent with its Sources. Compute must be pure.
type Derivation struct {
	Target  string
	Sources []string
	Compute func(d Draft) string
}

// DependsOn reports whether a change to name requires recomputing the target.
func (dv Derivation) DependsOn(name string) bool {
	return slices.Contains(dv.Sources, name)
}
