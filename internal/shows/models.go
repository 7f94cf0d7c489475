package shows

import (
	"errors"
	"time"
)

var (
	ErrShowNotFound       = errors.New("show not found")
	ErrUnknownPerformance = errors.New("unknown tour stop or performance")
)

// Show is one production on sale
type Show struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LongDescription string     `json:"long_description"`
	Date            time.Time  `json:"date"`
	Venue           string     `json:"venue"`
	Price           float64    `json:"price"`
	Blueprint       string     `json:"blueprint"`
	TourStops       []TourStop `json:"tour_stops,omitempty"`
}

// TourStop is a city leg of a touring show
type TourStop struct {
	ID           string        `json:"id"`
	City         string        `json:"city"`
	Venue        string        `json:"venue"`
	Address      string        `json:"address"`
	DateRange    string        `json:"date_range"`
	Performances []Performance `json:"performances"`
}

// Performance is a single time slot at a tour stop
type Performance struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	TimeLabel string    `json:"time_label"`
}

// ShowContext scopes holds, occupancy and orders to one showing
type ShowContext struct {
	Key             string    `json:"key"`
	ShowID          string    `json:"show_id"`
	Title           string    `json:"title"`
	Venue           string    `json:"venue"`
	Address         string    `json:"address,omitempty"`
	PerformanceDate time.Time `json:"performance_date"`
	TimeLabel       string    `json:"time_label,omitempty"`
	Blueprint       string    `json:"blueprint"`
}

// HasTourStops reports whether the show must be booked per stop and performance
func (s Show) HasTourStops() bool {
	return len(s.TourStops) > 0
}

// ContextKey builds the show context key. Stop and performance only count when both are set.
func ContextKey(showID, stopID, perfID string) string {
	if stopID != "" && perfID != "" {
		return showID + "-" + stopID + "-" + perfID
	}
	return showID
}
