package messages

import "time"

const TopicReportGenerated = "report.generated"

// ReportGenerated is the audit record of one finished report. It never carries
// the narrative or any vessel data beyond the identifier.
type ReportGenerated struct {
	RequestID      string    `json:"request_id,omitempty"`
	IMO            string    `json:"imo"`
	AccountID      *uint64   `json:"account_id,omitempty"`
	Outcome        string    `json:"outcome"`
	Degraded       bool      `json:"degraded"`
	HasCoordinates bool      `json:"has_coordinates"`
	GeneratedAt    time.Time `json:"generated_at"`
}
