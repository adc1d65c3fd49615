package pricing

import (
	"testing"
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/stretchr/testify/require"
)

func TestTotalPrice(t *testing.T) {
	t.Parallel()

	rates := Rates{"7": 75, "9": 120.5}

	tests := []struct {
		name    string
		vehicle string
		start   string
		end     string
		extra   string
		want    string
	}{
		{"same day counts as one day", "7", "2025-04-01", "2025-04-01", "", "75.00"},
		{"three days plus extra", "7", "2025-04-01", "2025-04-04", "50", "275.00"},
		{"fractional rate", "9", "2025-04-01", "2025-04-03", "0.25", "241.25"},
		{"extra with trailing text", "7", "2025-04-01", "2025-04-02", "12.5 MAD", "87.50"},
		{"unparseable extra reads as zero", "7", "2025-04-01", "2025-04-02", "abc", "75.00"},
		{"end before start floors at one day", "7", "2025-04-05", "2025-04-01", "", "75.00"},
		{"iso timestamps", "7", "2025-04-01T12:00:00Z", "2025-04-03T12:00:00Z", "", "150.00"},
		{"unknown vehicle", "404", "2025-04-01", "2025-04-04", "", ""},
		{"missing start", "7", "", "2025-04-04", "", ""},
		{"unparseable end", "7", "2025-04-01", "04/04/2025", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, TotalPrice(rates, tt.vehicle, tt.start, tt.end, tt.extra))
		})
	}
}

func TestDays(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, 1, Days(start, start))
	require.Equal(t, 1, Days(start, start.Add(-48*time.Hour)))
	require.Equal(t, 2, Days(start, start.Add(25*time.Hour)))
	require.Equal(t, 3, Days(start, start.Add(72*time.Hour)))
}

func TestDerivation(t *testing.T) {
	t.Parallel()

	dv := Derivation(Rates{"7": 75})
	require.Equal(t, FieldTotalPrice, dv.Target)
	for _, src := range []string{FieldVehicle, FieldStartDate, FieldEndDate, FieldExtraCharge} {
		require.True(t, dv.DependsOn(src), "total should depend on %s", src)
	}
	require.False(t, dv.DependsOn("notes"))

	d := form.Draft{
		FieldVehicle:     "7",
		FieldStartDate:   "2025-04-01",
		FieldEndDate:     "2025-04-04",
		FieldExtraCharge: "50",
	}
	require.Equal(t, "275.00", dv.Compute(d))
}
