package models

import "time"

// PositionReport is the normalized vessel position. Nil fields were not reported.
type PositionReport struct {
	VesselName     *string
	Latitude       *float64
	Longitude      *float64
	SpeedKnots     *float64
	Course         *float64
	Destination    *string
	ETA            *string
	LastReportTime *string
}

// Coordinates returns the [lat, lon] pair when both are known.
func (p PositionReport) Coordinates() (*Coordinates, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return nil, false
	}
	return &Coordinates{*p.Latitude, *p.Longitude}, true
}

type WeatherSnapshot struct {
	ConditionText string
	WindKph       float64
}

type EventSummary struct {
	Type      string    // raw registry type, e.g. "port_visit"
	Start     time.Time // zero when the registry did not report one
	StartDate string    // YYYY-MM-DD (UTC), empty when Start is zero
}

type ActivityProfile struct {
	RegisteredName  string
	Flag            string
	GearType        string
	RegistrySources string
	// Events is sorted by Start descending and capped.
	Events []EventSummary
	// RecentEvents holds one human-readable line per event, or a single
	// "no notable activity" line when Events is empty.
	RecentEvents []string
}
