package form

import (
	"strconv"
	"strings"
)

// Issue codes produced by the built-in field rules.
const (
	CodeRequired = "required"
	CodeNumber   = "number"
	CodeDate     = "date"
	CodeFile     = "file"
	CodeMin      = "min"
	CodeGreater  = "greater"
	CodeMax      = "max"
	CodeOption   = "option"
	CodePattern  = "pattern"
)

// Issue is one validation failure. Arg carries the bound or option that
// failed, for message catalogues that interpolate it.
type Issue struct {
	Path    string
	Code    string
	Message string
	Arg     string
}

// Check is a cross-field rule over a coerced snapshot. Checks must tolerate
// absent values; the field rules already report those.
type Check func(s Snapshot) []Issue

// ErrorMap maps field names to the message shown under the field.
type ErrorMap map[string]string

// Validation is the outcome of validating a draft: either OK with a
// snapshot ready to submit, or a list of issues in validator order.
type Validation struct {
	Snapshot Snapshot
	Issues   []Issue
}

// OK reports whether validation passed.
func (v Validation) OK() bool {
	return len(v.Issues) == 0
}

// Errors folds the issues into an ErrorMap. When several issues target the
// same field the first one wins.
func (v Validation) Errors(message func(Issue) string) ErrorMap {
	errs := make(ErrorMap, len(v.Issues))
	for _, is := range v.Issues {
		if _, seen := errs[is.Path]; seen {
			continue
		}
		if message != nil {
			errs[is.Path] = message(is)
		} else {
			errs[is.Path] = is.Message
		}
	}
	return errs
}

// Validate coerces the given fields of d and runs field rules followed by
// checks.
func Validate(fields []Field, checks []Check, d Draft) Validation {
	snap, coerceIssues := Coerce(fields, d)

	failed := make(map[string]Issue, len(coerceIssues))
	for _, is := range coerceIssues {
		failed[is.Path] = is
	}

	var issues []Issue
	for _, f := range fields {
		if is, ok := failed[f.Name]; ok {
			issues = append(issues, is)
			continue
		}
		issues = append(issues, fieldRules(f, snap)...)
	}
	for _, check := range checks {
		issues = append(issues, check(snap)...)
	}

	return Validation{Snapshot: snap, Issues: issues}
}

func fieldRules(f Field, snap Snapshot) []Issue {
	v, present := snap[f.Name]
	if !present {
		if f.Required {
			return []Issue{{Path: f.Name, Code: CodeRequired, Message: "This field is required"}}
		}
		return nil
	}

	var issues []Issue
	switch f.Kind {
	case KindNumber:
		n := v.(float64)
		if f.Min != nil {
			arg := formatBound(*f.Min)
			if f.MinExclusive && n <= *f.Min {
				issues = append(issues, Issue{Path: f.Name, Code: CodeGreater, Message: "Must be greater than " + arg, Arg: arg})
			} else if !f.MinExclusive && n < *f.Min {
				issues = append(issues, Issue{Path: f.Name, Code: CodeMin, Message: "Must be at least " + arg, Arg: arg})
			}
		}
		if f.Max != nil && n > *f.Max {
			arg := formatBound(*f.Max)
			issues = append(issues, Issue{Path: f.Name, Code: CodeMax, Message: "Must be at most " + arg, Arg: arg})
		}

	case KindSelect:
		if s := v.(string); !f.HasOption(s) {
			issues = append(issues, Issue{Path: f.Name, Code: CodeOption, Message: "Choose one of " + strings.Join(f.Options, ", "), Arg: s})
		}

	case KindText:
		if f.Pattern != nil && !f.Pattern.MatchString(v.(string)) {
			code := f.PatternCode
			if code == "" {
				code = CodePattern
			}
			issues = append(issues, Issue{Path: f.Name, Code: code, Message: "Invalid format"})
		}
	}
	return issues
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
