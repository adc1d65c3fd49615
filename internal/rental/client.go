package rental

import (
	"regexp"
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
)

// CodeEmail is reported for malformed email addresses.
const CodeEmail = "email"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Client is a validated client (renter) record.
type Client struct {
	ID            string    `mapstructure:"id"`
	FirstName     string    `mapstructure:"firstName"`
	LastName      string    `mapstructure:"lastName"`
	Email         string    `mapstructure:"email"`
	Phone         string    `mapstructure:"phone"`
	BirthDate     time.Time `mapstructure:"birthDate"`
	LicenseNumber string    `mapstructure:"licenseNumber"`
	LicenseExpiry time.Time `mapstructure:"licenseExpiry"`
	Address       string    `mapstructure:"address"`
}

// FullName joins first and last name.
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ClientSchema returns the two-step client wizard.
func ClientSchema() *form.Schema {
	return &form.Schema{
		Resource: "clients",
		Singular: "client",
		Title:    "Client",
		Fields: []form.Field{
			{Name: "firstName", Label: "First name", Kind: form.KindText, Required: true},
			{Name: "lastName", Label: "Last name", Kind: form.KindText, Required: true},
			{Name: "email", Label: "Email", Kind: form.KindText, Required: true, Pattern: emailPattern, PatternCode: CodeEmail},
			{Name: "phone", Label: "Phone", Kind: form.KindText, Required: true},
			{Name: "birthDate", Label: "Birth date", Kind: form.KindDate, Required: true, Placeholder: "YYYY-MM-DD"},

			{Name: "licenseNumber", Label: "Driving license number", Kind: form.KindText, Required: true},
			{Name: "licenseExpiry", Label: "License expiry", Kind: form.KindDate, Required: true, Placeholder: "YYYY-MM-DD"},
			{Name: "address", Label: "Address", Kind: form.KindText},
			{Name: "idDocument", Label: "ID document", Kind: form.KindFile, Placeholder: "path/to/id.pdf"},
		},
		Steps: []form.Step{
			{Title: "Identity", Fields: []string{"firstName", "lastName", "email", "phone", "birthDate"}},
			{Title: "License", Fields: []string{"licenseNumber", "licenseExpiry", "address", "idDocument"}},
		},
	}
}
