package models

// Coordinates is a [lat, lon] pair. It marshals as a two element array.
type Coordinates [2]float64

func (c Coordinates) Lat() float64 { return c[0] }
func (c Coordinates) Lon() float64 { return c[1] }

// ReportOutcome classifies a finished pipeline run.
type ReportOutcome string

const (
	ReportComplete     ReportOutcome = "complete"
	ReportDegraded     ReportOutcome = "degraded"
	ReportShortCircuit ReportOutcome = "short_circuit"
)

type Report struct {
	Narrative   string       `json:"reporte"`
	Coordinates *Coordinates `json:"coordenadas"`

	Outcome  ReportOutcome `json:"-"`
	Degraded bool          `json:"-"`
}

type PortWeather struct {
	Port      string  `json:"puerto"`
	Condition string  `json:"condicion"`
	WindKph   float64 `json:"viento_kph"`
}
