package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// InputDateLayout is the textual form date widgets edit.
	InputDateLayout = "2006-01-02"
	// WireDateLayout is how dates cross the gateway boundary.
	WireDateLayout = "2006-01-02T15:04:05Z"
)

// ParseDate parses a date-only input or an ISO-8601 timestamp. The result
// is anchored at 12:00 UTC on the UTC calendar date so no viewer timezone
// can shift it to a neighbouring day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(InputDateLayout, s); err == nil {
		return noonUTC(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return noonUTC(t.UTC()), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatWireDate renders t as YYYY-MM-DDT12:00:00Z.
func FormatWireDate(t time.Time) string {
	return noonUTC(t.UTC()).Format(WireDateLayout)
}

// FormatInputDate renders t as the YYYY-MM-DD text a date input expects.
func FormatInputDate(t time.Time) string {
	return t.UTC().Format(InputDateLayout)
}

func noonUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// ParseNumber parses a numeric input. Empty input reports ok=false with a
// nil error so callers can treat it as absent rather than zero.
func ParseNumber(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("invalid number %q", s)
	}
	return v, true, nil
}

// Coerce builds a snapshot of the given fields from d. Type coercion runs
// before any other rule; values that cannot be coerced are reported as
// issues and left out of the snapshot.
func Coerce(fields []Field, d Draft) (Snapshot, []Issue) {
	snap := make(Snapshot, len(fields))
	var issues []Issue
	for _, f := range fields {
		v, present, issue := coerceField(f, d[f.Name])
		if issue != nil {
			issues = append(issues, *issue)
			continue
		}
		if present {
			snap[f.Name] = v
		}
	}
	return snap, issues
}

func coerceField(f Field, raw any) (any, bool, *Issue) {
	switch f.Kind {
	case KindNumber:
		switch v := raw.(type) {
		case float64:
			return v, true, nil
		case int:
			return float64(v), true, nil
		case string:
			n, ok, err := ParseNumber(v)
			if err != nil {
				return nil, false, &Issue{Path: f.Name, Code: CodeNumber, Message: "Must be a number"}
			}
			return n, ok, nil
		}
		return nil, false, nil

	case KindDate:
		switch v := raw.(type) {
		case time.Time:
			if v.IsZero() {
				return nil, false, nil
			}
			return noonUTC(v.UTC()), true, nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, false, nil
			}
			t, err := ParseDate(v)
			if err != nil {
				return nil, false, &Issue{Path: f.Name, Code: CodeDate, Message: "Invalid date (use YYYY-MM-DD)"}
			}
			return t, true, nil
		}
		return nil, false, nil

	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, true, nil
		case string:
			return v == "true" || v == "on" || v == "1", true, nil
		}
		return false, true, nil

	case KindFile:
		v, ok := raw.(File)
		if !ok || v.IsZero() {
			return nil, false, nil
		}
		if !v.exists() {
			return nil, false, &Issue{Path: f.Name, Code: CodeFile, Message: "File not found"}
		}
		return v, true, nil

	case KindList:
		var items []string
		switch v := raw.(type) {
		case []string:
			items = v
		case string:
			items = strings.Split(v, ",")
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		if len(out) == 0 {
			return nil, false, nil
		}
		return out, true, nil

	default:
		var s string
		switch v := raw.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			s = strconv.Itoa(v)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, false, nil
		}
		return s, true, nil
	}
}
