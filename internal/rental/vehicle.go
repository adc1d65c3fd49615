package rental

import (
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
)

// Vehicle statuses.
const (
	VehicleAvailable   = "AVAILABLE"
	VehicleRented      = "RENTED"
	VehicleMaintenance = "MAINTENANCE"
)

// Vehicle is a validated vehicle record.
type Vehicle struct {
	ID                  string    `mapstructure:"id"`
	Brand               string    `mapstructure:"brand"`
	Model               string    `mapstructure:"model"`
	Year                int       `mapstructure:"year"`
	PlateNumber         string    `mapstructure:"plateNumber"`
	Color               string    `mapstructure:"color"`
	Category            string    `mapstructure:"category"`
	FuelType            string    `mapstructure:"fuelType"`
	Transmission        string    `mapstructure:"transmission"`
	Seats               int       `mapstructure:"seats"`
	Mileage             float64   `mapstructure:"mileage"`
	DailyRate           float64   `mapstructure:"dailyRate"`
	Status              string    `mapstructure:"status"`
	Features            []string  `mapstructure:"features"`
	InsuranceExpiry     time.Time `mapstructure:"insuranceExpiry"`
	TechnicalInspection time.Time `mapstructure:"technicalInspection"`
	GPSEnabled          bool      `mapstructure:"gpsEnabled"`
}

// Label is the one-line description used in summaries.
func (v Vehicle) Label() string {
	return v.Brand + " " + v.Model + " (" + v.PlateNumber + ")"
}

// VehicleSchema returns the three-step vehicle wizard.
func VehicleSchema() *form.Schema {
	return &form.Schema{
		Resource: "vehicles",
		Singular: "vehicle",
		Title:    "Vehicle",
		Fields: []form.Field{
			{Name: "brand", Label: "Brand", Kind: form.KindText, Required: true, Placeholder: "Dacia"},
			{Name: "model", Label: "Model", Kind: form.KindText, Required: true, Placeholder: "Logan"},
			{Name: "year", Label: "Year", Kind: form.KindNumber, Required: true, Min: form.Bound(1950), Max: form.Bound(2100)},
			{Name: "plateNumber", Label: "Plate number", Kind: form.KindText, Required: true},
			{Name: "color", Label: "Color", Kind: form.KindText},
			{Name: "category", Label: "Category", Kind: form.KindSelect, Required: true,
				Options: []string{"ECONOMY", "COMPACT", "SEDAN", "SUV", "LUXURY", "VAN"}},

			{Name: "fuelType", Label: "Fuel", Kind: form.KindSelect, Required: true,
				Options: []string{"GASOLINE", "DIESEL", "ELECTRIC", "HYBRID"}},
			{Name: "transmission", Label: "Transmission", Kind: form.KindSelect, Required: true,
				Options: []string{"MANUAL", "AUTOMATIC"}},
			{Name: "seats", Label: "Seats", Kind: form.KindNumber, Required: true, Min: form.Bound(1), Max: form.Bound(60)},
			{Name: "mileage", Label: "Mileage (km)", Kind: form.KindNumber, Required: true, Min: form.Bound(0)},
			{Name: "dailyRate", Label: "Daily rate", Kind: form.KindNumber, Required: true, Min: form.Bound(0), MinExclusive: true},
			{Name: "status", Label: "Status", Kind: form.KindSelect,
				Options: []string{VehicleAvailable, VehicleRented, VehicleMaintenance}},
			{Name: "features", Label: "Features", Kind: form.KindList, Placeholder: "GPS, Bluetooth, Child seat"},

			{Name: "image", Label: "Photo", Kind: form.KindFile, Placeholder: "path/to/photo.jpg"},
			{Name: "registrationDocument", Label: "Registration (PDF)", Kind: form.KindFile, Placeholder: "path/to/carte-grise.pdf"},
			{Name: "insuranceExpiry", Label: "Insurance expiry", Kind: form.KindDate, Required: true, Placeholder: "YYYY-MM-DD"},
			{Name: "technicalInspection", Label: "Technical inspection", Kind: form.KindDate, Placeholder: "YYYY-MM-DD"},
			{Name: "gpsEnabled", Label: "GPS tracker installed", Kind: form.KindBool},
		},
		Steps: []form.Step{
			{Title: "Identity", Fields: []string{"brand", "model", "year", "plateNumber", "color", "category"}},
			{Title: "Specifications", Fields: []string{"fuelType", "transmission", "seats", "mileage", "dailyRate", "status", "features"}},
			{Title: "Documents", Fields: []string{"image", "registrationDocument", "insuranceExpiry", "technicalInspection", "gpsEnabled"}},
		},
		Defaults: form.Draft{
			"status":     VehicleAvailable,
			"gpsEnabled": false,
		},
	}
}
