// Package rental defines the record schemas rentdesk edits and the typed
// records a validated snapshot decodes into.
package rental

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"time"

	"github.com/mark3labs/rentdesk/internal/form"
	"github.com/mark3labs/rentdesk/internal/pricing"
	"github.com/mitchellh/mapstructure"
)

// Schema returns the schema for a resource name, singular or plural.
// Reservations need the fleet for vehicle choices and rates.
func Schema(resource string, fleet Fleet) (*form.Schema, error) {
	switch resource {
	case "vehicle", "vehicles":
		return VehicleSchema(), nil
	case "reservation", "reservations":
		return ReservationSchema(fleet), nil
	case "client", "clients":
		return ClientSchema(), nil
	default:
		return nil, fmt.Errorf("unknown resource: %s", resource)
	}
}

// Fleet is the list of vehicles a reservation can book.
type Fleet []Vehicle

// FleetFromRecords decodes vehicle records as returned by the list endpoint.
// Records that fail to decode are skipped.
func FleetFromRecords(records []form.Record) Fleet {
	fleet := make(Fleet, 0, len(records))
	for _, r := range records {
		var v Vehicle
		if err := Decode(r, &v); err != nil || v.ID == "" {
			continue
		}
		fleet = append(fleet, v)
	}
	return fleet
}

// Rates returns the daily rate per vehicle id.
func (f Fleet) Rates() pricing.Rates {
	rates := make(pricing.Rates, len(f))
	for _, v := range f {
		rates[v.ID] = v.DailyRate
	}
	return rates
}

// IDs returns the vehicle ids in numeric order, then lexical order for
// non-numeric ids.
func (f Fleet) IDs() []string {
	ids := make([]string, 0, len(f))
	for _, v := range f {
		ids = append(ids, v.ID)
	}
	sort.SliceStable(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return slices.Compact(ids)
}

// Find returns the vehicle with the given id.
func (f Fleet) Find(id string) (Vehicle, bool) {
	for _, v := range f {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

// Decode maps a snapshot or backend record onto a typed record. Backend
// records may carry numbers as text and ids as numbers, so input is
// decoded weakly; ISO timestamps decode into time.Time.
func Decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       stringToDateHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	return nil
}

// stringToDateHook accepts both YYYY-MM-DD and full ISO timestamps.
func stringToDateHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	s := data.(string)
	if s == "" {
		return time.Time{}, nil
	}
	return form.ParseDate(s)
}
