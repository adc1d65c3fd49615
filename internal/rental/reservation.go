package rental

import (
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/pricing"
)

// Reservation statuses.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Issue codes for reservation cross-field checks.
const (
	CodeEndBeforeStart = "end_before_start"
	CodeSecondDriver   = "second_driver"
)

// Reservation is a validated reservation record.
type Reservation struct {
	ID               string    `mapstructure:"id"`
	ClientID         string    `mapstructure:"clientId"`
	VehicleID        string    `mapstructure:"vehicleId"`
	StartDate        time.Time `mapstructure:"startDate"`
	EndDate          time.Time `mapstructure:"endDate"`
	ExtraCharge      float64   `mapstructure:"extraCharge"`
	TotalPrice       float64   `mapstructure:"totalPrice"`
	Status           string    `mapstructure:"status"`
	SecondDriver     bool      `mapstructure:"secondDriver"`
	SecondDriverName string    `mapstructure:"secondDriverName"`
	PaymentMethod    string    `mapstructure:"paymentMethod"`
	Notes            string    `mapstructure:"notes"`
}

// Days returns the billable rental duration.
func (r Reservation) Days() int {
	return pricing.Days(r.StartDate, r.EndDate)
}

// ReservationSchema returns the three-step reservation wizard. The fleet
// supplies the vehicle choices and the daily rates the total price is
// derived from.
func ReservationSchema(fleet Fleet) *form.Schema {
	rates := fleet.Rates()
	return &form.Schema{
		Resource: "reservations",
		Singular: "reservation",
		Title:    "Reservation",
		Fields: []form.Field{
			{Name: "clientId", Label: "Client ID", Kind: form.KindText, Required: true},
			{Name: pricing.FieldVehicle, Label: "Vehicle", Kind: form.KindSelect, Required: true, Options: fleet.IDs()},

			{Name: pricing.FieldStartDate, Label: "Start date", Kind: form.KindDate, Required: true, Placeholder: "YYYY-MM-DD"},
			{Name: pricing.FieldEndDate, Label: "End date", Kind: form.KindDate, Required: true, Placeholder: "YYYY-MM-DD"},
			{Name: pricing.FieldExtraCharge, Label: "Extra charge", Kind: form.KindNumber, Min: form.Bound(0), Placeholder: "0"},
			{Name: pricing.FieldTotalPrice, Label: "Total price", Kind: form.KindNumber, Required: true, ReadOnly: true},
			{Name: "status", Label: "Status", Kind: form.KindSelect,
				Options: []string{ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted}},

			{Name: "secondDriver", Label: "Second driver", Kind: form.KindBool},
			{Name: "secondDriverName", Label: "Second driver name", Kind: form.KindText},
			{Name: "paymentMethod", Label: "Payment method", Kind: form.KindSelect, Required: true,
				Options: []string{"CASH", "CARD", "TRANSFER"}},
			{Name: "notes", Label: "Notes", Kind: form.KindText},
		},
		Steps: []form.Step{
			{Title: "Client & vehicle", Fields: []string{"clientId", pricing.FieldVehicle}},
			{
				Title:  "Dates & price",
				Fields: []string{pricing.FieldStartDate, pricing.FieldEndDate, pricing.FieldExtraCharge, pricing.FieldTotalPrice, "status"},
				Checks: []form.Check{checkEndNotBeforeStart},
			},
			{
				Title:  "Drivers & payment",
				Fields: []string{"secondDriver", "secondDriverName", "paymentMethod", "notes"},
				Checks: []form.Check{checkSecondDriver},
			},
		},
		Defaults: form.Draft{
			"status":       ReservationPending,
			"secondDriver": false,
		},
		Derivations: []form.Derivation{pricing.Derivation(rates)},
	}
}

func checkEndNotBeforeStart(s form.Snapshot) []form.Issue {
	start, ok1 := s[pricing.FieldStartDate].(time.Time)
	end, ok2 := s[pricing.FieldEndDate].(time.Time)
	if !ok1 || !ok2 || !end.Before(start) {
		return nil
	}
	return []form.Issue{{
		Path:    pricing.FieldEndDate,
		Code:    CodeEndBeforeStart,
		Message: "End date must be after start date",
	}}
}

func checkSecondDriver(s form.Snapshot) []form.Issue {
	if on, _ := s["secondDriver"].(bool); !on {
		return nil
	}
	if _, ok := s["secondDriverName"]; ok {
		return nil
	}
	return []form.Issue{{
		Path:    "secondDriverName",
		Code:    CodeSecondDriver,
		Message: "Second driver name is required",
	}}
}
