package portal

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

//go:embed fixtures.json
var defaultFixtures []byte

// Fixtures is the initial content of every collection.
type Fixtures struct {
	Users              []User              `json:"users"`
	TravelPackages     []TravelPackage     `json:"travelPackages"`
	Bookings           []Booking           `json:"bookings"`
	Payments           []Payment           `json:"payments"`
	Reviews            []Review            `json:"reviews"`
	Insurance          []Insurance         `json:"insurance"`
	AssistanceRequests []AssistanceRequest `json:"assistanceRequests"`
}

// DefaultFixtures decodes the demo data shipped with the binary.
func DefaultFixtures() (Fixtures, error) {
	return ReadFixtures(bytes.NewReader(defaultFixtures))
}

// LoadFixtures reads fixtures from a JSON file. An empty path yields the
// built-in demo data.
func LoadFixtures(path string) (Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Fixtures{}, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return ReadFixtures(f)
}

func ReadFixtures(r io.Reader) (Fixtures, error) {
	var fx Fixtures
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return Fixtures{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return fx, nil
}

// Counts reports the size of each collection, in a fixed order.
func (f Fixtures) Counts() []CollectionCount {
	return []CollectionCount{
		{CollectionUsers, len(f.Users)},
		{CollectionPackages, len(f.TravelPackages)},
		{CollectionBookings, len(f.Bookings)},
		{CollectionPayments, len(f.Payments)},
		{CollectionReviews, len(f.Reviews)},
		{CollectionInsurance, len(f.Insurance)},
		{CollectionAssistanceRequests, len(f.AssistanceRequests)},
	}
}

type CollectionCount struct {
	Collection Collection
	Count      int
}
