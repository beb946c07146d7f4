package pgstore

import (
	"context"
	"time"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/pkg/errors"
)

// InsertReportAudit is idempotent per non-empty request id.
func (s *Storage) InsertReportAudit(ctx context.Context, a models.ReportAudit) error {
	_, err := s.db.Exec(ctx, `
INSERT INTO report_audit (
  request_id, imo, account_id, outcome, degraded, has_coordinates, generated_at, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (request_id) WHERE request_id <> '' DO NOTHING
`, a.RequestID, a.IMO, a.AccountID, a.Outcome, a.Degraded, a.HasCoordinates, a.GeneratedAt, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "insert report audit")
	}
	return nil
}

func (s *Storage) ListReportAudit(ctx context.Context, imo string, limit int) ([]*models.ReportAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
SELECT id, request_id, imo, account_id, outcome, degraded, has_coordinates, generated_at, created_at
FROM report_audit
WHERE imo = $1
ORDER BY generated_at DESC, id DESC
LIMIT $2
`, imo, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select report audit")
	}
	defer rows.Close()

	out := make([]*models.ReportAudit, 0, limit)
	for rows.Next() {
		var a models.ReportAudit
		if err := rows.Scan(
			&a.ID, &a.RequestID, &a.IMO, &a.AccountID, &a.Outcome,
			&a.Degraded, &a.HasCoordinates, &a.GeneratedAt, &a.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan report audit")
		}
		out = append(out, &a)
	}
	return out, errors.Wrap(rows.Err(), "iterate report audit")
}

// CountReportAudit backs the worker's /stats endpoint.
func (s *Storage) CountReportAudit(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM report_audit`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count report audit")
	}
	return n, nil
}
