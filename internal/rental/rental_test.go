package rental

import (
	"context"
	"testing"
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/stretchr/testify/require"
)

func testFleet() Fleet {
	return Fleet{
		{ID: "10", Brand: "Renault", Model: "Clio", PlateNumber: "10-A-1", DailyRate: 80},
		{ID: "1", Brand: "Dacia", Model: "Logan", PlateNumber: "1-A-1", DailyRate: 50},
		{ID: "2", Brand: "Peugeot", Model: "208", PlateNumber: "2-A-1", DailyRate: 62.5},
	}
}

type okGateway struct {
	subs []*form.Submission
}

func (g *okGateway) Submit(_ context.Context, sub *form.Submission) (form.Record, error) {
	g.subs = append(g.subs, sub)
	return form.Record{"id": float64(99)}, nil
}

func TestSchemas_StepCoverage(t *testing.T) {
	t.Parallel()

	for _, s := range []*form.Schema{VehicleSchema(), ReservationSchema(testFleet()), ClientSchema()} {
		orphaned, unknown := s.Coverage()
		require.Empty(t, orphaned, "%s: fields owned by no step", s.Resource)
		require.Empty(t, unknown, "%s: step fields missing from schema", s.Resource)
	}
}

func TestSchema_Lookup(t *testing.T) {
	t.Parallel()

	s, err := Schema("vehicle", nil)
	require.NoError(t, err)
	require.Equal(t, "vehicles", s.Resource)

	s, err = Schema("reservations", testFleet())
	require.NoError(t, err)
	require.Equal(t, 3, s.StepCount())

	_, err = Schema("invoice", nil)
	require.Error(t, err)
}

func TestFleet_IDsAndRates(t *testing.T) {
	t.Parallel()

	fleet := append(testFleet(), Vehicle{ID: "x7", DailyRate: 10}, Vehicle{ID: "2", DailyRate: 62.5})
	require.Equal(t, []string{"1", "2", "10", "x7"}, fleet.IDs())

	rate, ok := fleet.Rates().Rate("10")
	require.True(t, ok)
	require.Equal(t, 80.0, rate)

	v, ok := fleet.Find("2")
	require.True(t, ok)
	require.Equal(t, "Peugeot 208 (2-A-1)", v.Label())
}

func TestFleetFromRecords(t *testing.T) {
	t.Parallel()

	fleet := FleetFromRecords([]form.Record{
		{"id": float64(4), "brand": "Kia", "model": "Picanto", "dailyRate": "45.5", "year": float64(2021),
			"insuranceExpiry": "2026-01-31T12:00:00Z", "createdAt": "2025-01-01T00:00:00Z"},
		{"brand": "no id"},
	})
	require.Len(t, fleet, 1)
	require.Equal(t, "4", fleet[0].ID)
	require.Equal(t, 45.5, fleet[0].DailyRate)
	require.Equal(t, 2021, fleet[0].Year)
	require.Equal(t, time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC), fleet[0].InsuranceExpiry)
}

func TestReservation_DerivedTotal(t *testing.T) {
	t.Parallel()

	c := form.NewController(ReservationSchema(testFleet()), &okGateway{})
	require.NoError(t, c.UpdateField("clientId", "7"))
	require.NoError(t, c.UpdateField("vehicleId", "1"))
	require.Equal(t, "", c.Value("totalPrice"), "no dates yet")

	require.NoError(t, c.UpdateField("startDate", "2025-04-01"))
	require.NoError(t, c.UpdateField("endDate", "2025-04-06"))
	require.Equal(t, "250.00", c.Value("totalPrice"))

	require.NoError(t, c.UpdateField("extraCharge", "25"))
	require.Equal(t, "275.00", c.Value("totalPrice"))

	require.NoError(t, c.UpdateField("vehicleId", "2"))
	require.Equal(t, "337.50", c.Value("totalPrice"))

	require.ErrorIs(t, c.UpdateField("totalPrice", "1"), form.ErrReadOnlyField)
}

func TestReservation_UncomputableTotalIsRequired(t *testing.T) {
	t.Parallel()

	c := form.NewController(ReservationSchema(testFleet()), &okGateway{})
	require.NoError(t, c.UpdateField("clientId", "7"))
	require.NoError(t, c.UpdateField("vehicleId", "1"))
	require.True(t, c.GoNext())

	require.NoError(t, c.UpdateField("startDate", "2025-04-01"))
	require.False(t, c.GoNext())
	errs := c.Errors()
	require.Equal(t, "This field is required", errs["endDate"])
	require.Equal(t, "This field is required", errs["totalPrice"])
}

func TestReservation_EndBeforeStart(t *testing.T) {
	t.Parallel()

	c := form.NewController(ReservationSchema(testFleet()), &okGateway{})
	require.True(t, c.JumpToStep(2))
	require.NoError(t, c.UpdateField("vehicleId", "1"))
	require.NoError(t, c.UpdateField("startDate", "2025-04-10"))
	require.NoError(t, c.UpdateField("endDate", "2025-04-05"))

	require.False(t, c.GoNext())
	require.Equal(t, "End date must be after start date", c.Errors()["endDate"])

	require.NoError(t, c.UpdateField("endDate", "2025-04-10"))
	require.True(t, c.GoNext(), "same-day rental is allowed")
	require.Equal(t, "50.00", c.Draft().String("totalPrice"))
}

func TestReservation_SecondDriver(t *testing.T) {
	t.Parallel()

	c := form.NewController(ReservationSchema(testFleet()), &okGateway{})
	require.True(t, c.JumpToStep(3))
	require.NoError(t, c.UpdateField("paymentMethod", "CARD"))
	require.NoError(t, c.UpdateField("secondDriver", true))

	require.False(t, c.GoNext())
	require.Equal(t, "Second driver name is required", c.Errors()["secondDriverName"])

	require.NoError(t, c.UpdateField("secondDriver", false))
	require.False(t, c.GoNext(), "last step never advances")
	require.Empty(t, c.Errors())
}

func TestReservation_SubmitDecodes(t *testing.T) {
	t.Parallel()

	gw := &okGateway{}
	c := form.NewController(ReservationSchema(testFleet()), gw)
	for name, value := range map[string]any{
		"clientId":      "7",
		"vehicleId":     "1",
		"startDate":     "2025-04-19",
		"endDate":       "2025-04-21",
		"extraCharge":   "",
		"paymentMethod": "CASH",
	} {
		require.NoError(t, c.UpdateField(name, value))
	}

	rec, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "99", form.RecordID(rec))

	sub := gw.subs[0]
	start, _ := sub.Payload.Value("startDate")
	require.Equal(t, "2025-04-19T12:00:00Z", start)
	total, _ := sub.Payload.Value("totalPrice")
	require.Equal(t, "100", total)
	_, hasExtra := sub.Payload.Value("extraCharge")
	require.False(t, hasExtra, "empty optional number is omitted")

	var r Reservation
	require.NoError(t, Decode(sub.Snapshot, &r))
	require.Equal(t, "1", r.VehicleID)
	require.Equal(t, ReservationPending, r.Status)
	require.Equal(t, 100.0, r.TotalPrice)
	require.Equal(t, 2, r.Days())
}

func TestVehicle_RequiredNumericEmpty(t *testing.T) {
	t.Parallel()

	c := form.NewController(VehicleSchema(), &okGateway{})
	require.NoError(t, c.UpdateField("brand", "Dacia"))
	require.NoError(t, c.UpdateField("model", "Logan"))
	require.NoError(t, c.UpdateField("year", ""))
	require.NoError(t, c.UpdateField("plateNumber", "1234-A-5"))
	require.NoError(t, c.UpdateField("category", "ECONOMY"))

	require.False(t, c.GoNext())
	require.Equal(t, map[string]string{"year": "This field is required"}, map[string]string(c.Errors()))

	require.NoError(t, c.UpdateField("year", "1949"))
	require.False(t, c.GoNext())
	require.Equal(t, "Must be at least 1950", c.Errors()["year"])

	require.NoError(t, c.UpdateField("year", "2019"))
	require.True(t, c.GoNext())
	require.NoError(t, c.UpdateField("dailyRate", "0"))
	require.False(t, c.GoNext())
	require.Equal(t, "Must be greater than 0", c.Errors()["dailyRate"])
}

func TestVehicle_EditPrefill(t *testing.T) {
	t.Parallel()

	c := form.NewController(VehicleSchema(), &okGateway{})
	c.Initialize(form.Record{
		"id":              float64(5),
		"brand":           "Dacia",
		"year":            float64(2019),
		"features":        []any{"GPS", "Bluetooth"},
		"insuranceExpiry": "2026-03-01T12:00:00.000Z",
		"image":           "/uploads/car.jpg",
		"gpsEnabled":      true,
	})

	require.Equal(t, "5", c.ID())
	require.Equal(t, "2019", c.Value("year"))
	require.Equal(t, []string{"GPS", "Bluetooth"}, c.Value("features"))
	require.Equal(t, "2026-03-01", c.Value("insuranceExpiry"))
	require.Nil(t, c.Value("image"), "attachments are not pre-filled")
	require.Equal(t, true, c.Value("gpsEnabled"))
	require.Equal(t, VehicleAvailable, c.Value("status"), "defaults fill missing fields")
}

func TestClient_EmailPattern(t *testing.T) {
	t.Parallel()

	c := form.NewController(ClientSchema(), &okGateway{})
	require.NoError(t, c.UpdateField("firstName", "Amina"))
	require.NoError(t, c.UpdateField("lastName", "Idrissi"))
	require.NoError(t, c.UpdateField("email", "amina@"))
	require.NoError(t, c.UpdateField("phone", "+212600000000"))
	require.NoError(t, c.UpdateField("birthDate", "1990-02-03"))

	require.False(t, c.GoNext())
	require.Equal(t, "Invalid format", c.Errors()["email"])

	require.NoError(t, c.UpdateField("email", "amina@example.ma"))
	require.True(t, c.GoNext())
}
