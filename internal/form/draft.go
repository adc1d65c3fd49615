package form

import (
	"bytes"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

// Record is a record as exchanged with the backend.
type Record map[string]any

// Draft is the in-progress, not-yet-validated set of field values.
// Numeric and date fields hold the raw string typed by the user.
type Draft map[string]any

// Clone returns a copy that shares no mutable list storage with d.
func (d Draft) Clone() Draft {
	out := make(Draft, len(d))
	for k, v := range d {
		switch tv := v.(type) {
		case []string:
			out[k] = slices.Clone(tv)
		case File:
			tv.Data = bytes.Clone(tv.Data)
			out[k] = tv
		default:
			out[k] = v
		}
	}
	return out
}

// String returns the string value of name, or "" when unset or not a string.
func (d Draft) String(name string) string {
	s, _ := d[name].(string)
	return s
}

// Bool returns the boolean value of name.
func (d Draft) Bool(name string) bool {
	b, _ := d[name].(bool)
	return b
}

// List returns the list value of name.
func (d Draft) List(name string) []string {
	l, _ := d[name].([]string)
	return l
}

// File is an attachment picked by the user. Data takes precedence over Path.
type File struct {
	Name string
	Path string
	Data []byte
}

// FileFromPath references a file on disk; it is not read until Open.
func FileFromPath(path string) File {
	return File{Name: filepath.Base(path), Path: path}
}

// IsZero reports whether no file was picked.
func (f File) IsZero() bool {
	return f.Name == "" && f.Path == "" && f.Data == nil
}

// Open returns the attachment content.
func (f File) Open() (io.ReadCloser, error) {
	if f.Data != nil {
		return io.NopCloser(bytes.NewReader(f.Data)), nil
	}
	return os.Open(f.Path)
}

// exists reports whether the attachment can be read.
func (f File) exists() bool {
	if f.Data != nil {
		return true
	}
	info, err := os.Stat(f.Path)
	return err == nil && !info.IsDir()
}

// Snapshot is a coerced copy of a draft: numbers as float64, dates as
// time.Time at 12:00 UTC, absent keys for empty values.
type Snapshot map[string]any

// Clone returns a shallow copy of s.
func (s Snapshot) Clone() Snapshot {
	return maps.Clone(s)
}
