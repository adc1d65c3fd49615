// Package pricing computes reservation totals from a vehicle's daily rate,
// the booked dates and an extra charge.
package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
)

// Reservation field names the total price derives from.
const (
	FieldVehicle     = "vehicleId"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldExtraCharge = "extraCharge"
	FieldTotalPrice  = "totalPrice"
)

const day = 24 * time.Hour

// Rates maps vehicle ids to their daily rate.
type Rates map[string]float64

// Rate returns the daily rate of a vehicle.
func (r Rates) Rate(vehicleID string) (float64, bool) {
	rate, ok := r[strings.TrimSpace(vehicleID)]
	return rate, ok
}

// Days returns the number of billable days between start and end. Partial
// days round up and a same-day booking counts as one day.
func Days(start, end time.Time) int {
	days := int(math.Ceil(float64(end.Sub(start)) / float64(day)))
	if days < 1 {
		return 1
	}
	return days
}

// TotalPrice returns rate*days + extra as a two-decimal string, or "" when
// the vehicle is unknown or either date is missing or unparseable. The
// empty result lets the required rule on the total report the problem.
func TotalPrice(rates Rates, vehicleID, start, end, extra string) string {
	rate, ok := rates.Rate(vehicleID)
	if !ok {
		return ""
	}
	startDate, err := form.ParseDate(start)
	if err != nil {
		return ""
	}
	endDate, err := form.ParseDate(end)
	if err != nil {
		return ""
	}

	total := rate*float64(Days(startDate, endDate)) + leadingFloat(extra)
	return strconv.FormatFloat(math.Round(total*100)/100, 'f', 2, 64)
}

// Derivation wires TotalPrice into a reservation draft.
func Derivation(rates Rates) form.Derivation {
	return form.Derivation{
		Target:  FieldTotalPrice,
		Sources: []string{FieldVehicle, FieldStartDate, FieldEndDate, FieldExtraCharge},
		Compute: func(d form.Draft) string {
			return TotalPrice(rates,
				d.String(FieldVehicle),
				d.String(FieldStartDate),
				d.String(FieldEndDate),
				d.String(FieldExtraCharge),
			)
		},
	}
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// leadingFloat parses the numeric prefix of s, so "50" and "50 MAD" both
// read as 50. Anything without a numeric prefix reads as 0.
func leadingFloat(s string) float64 {
	m := numericPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
