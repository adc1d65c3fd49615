package form

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date only", "2025-04-19", "2025-04-19T12:00:00Z"},
		{"padded", "  2025-04-19 ", "2025-04-19T12:00:00Z"},
		{"utc timestamp", "2025-04-19T00:00:00Z", "2025-04-19T12:00:00Z"},
		{"late offset rolls to next utc day", "2025-04-19T23:00:00-05:00", "2025-04-20T12:00:00Z"},
		{"fractional seconds", "2025-04-19T08:15:30.123Z", "2025-04-19T12:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, FormatWireDate(got))
		})
	}

	_, err := ParseDate("19/04/2025")
	require.Error(t, err)
}

func TestDateRoundTrip(t *testing.T) {
	t.Parallel()

	for _, day := range []string{"2025-01-01", "2025-04-19", "2024-02-29", "2025-12-31"} {
		parsed, err := ParseDate(day)
		require.NoError(t, err)
		wire := FormatWireDate(parsed)

		back, err := ParseDate(wire)
		require.NoError(t, err)
		require.Equal(t, day, FormatInputDate(back))
	}

	paris := time.FixedZone("CET", 3600)
	local := time.Date(2025, 4, 19, 0, 30, 0, 0, paris)
	require.Equal(t, "2025-04-18T12:00:00Z", FormatWireDate(local), "wire date uses the UTC calendar day")
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	v, ok, err := ParseNumber(" 12.5 ")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 12.5, v)

	_, ok, err = ParseNumber("")
	require.NoError(t, err)
	require.False(t, ok)

	for _, bad := range []string{"abc", "NaN", "Inf", "1,5"} {
		_, _, err = ParseNumber(bad)
		require.Error(t, err, bad)
	}
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF"), 0o644))

	fields := []Field{
		{Name: "n", Kind: KindNumber},
		{Name: "d", Kind: KindDate},
		{Name: "b", Kind: KindBool},
		{Name: "l", Kind: KindList},
		{Name: "t", Kind: KindText},
		{Name: "f", Kind: KindFile},
		{Name: "missing", Kind: KindFile},
	}
	snap, issues := Coerce(fields, Draft{
		"n":       "0",
		"d":       "2025-04-19",
		"l":       "a, b,,c",
		"t":       "   ",
		"f":       FileFromPath(doc),
		"missing": FileFromPath(filepath.Join(dir, "nope.pdf")),
	})

	require.Equal(t, []Issue{{Path: "missing", Code: CodeFile, Message: "File not found"}}, issues)
	require.Equal(t, 0.0, snap["n"], "zero is present, not absent")
	require.Equal(t, time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC), snap["d"])
	require.Equal(t, false, snap["b"])
	require.Equal(t, []string{"a", "b", "c"}, snap["l"])
	require.NotContains(t, snap, "t")
	require.Equal(t, "doc.pdf", snap["f"].(File).Name)
}

func TestSchemaCoverage(t *testing.T) {
	t.Parallel()

	s := testSchema()
	orphaned, unknown := s.Coverage()
	require.Empty(t, orphaned)
	require.Empty(t, unknown)

	s.Fields = append(s.Fields, Field{Name: "stray", Kind: KindText})
	s.Steps[0].Fields = append(s.Steps[0].Fields, "ghost")
	orphaned, unknown = s.Coverage()
	require.Equal(t, []string{"stray"}, orphaned)
	require.Equal(t, []string{"ghost"}, unknown)
}

func TestNewPayloadAttachments(t *testing.T) {
	t.Parallel()

	fields := []Field{
		{Name: "price", Kind: KindNumber},
		{Name: "photo", Kind: KindFile},
	}
	p := NewPayload(fields, Snapshot{
		"price": 275.0,
		"photo": File{Name: "car.jpg", Data: []byte{0xff, 0xd8}},
	})

	v, ok := p.Value("price")
	require.True(t, ok)
	require.Equal(t, "275", v)
	require.Len(t, p.Files, 1)
	require.Equal(t, "photo", p.Files[0].Name)
	require.Equal(t, "car.jpg", p.Files[0].File.Name)
}
