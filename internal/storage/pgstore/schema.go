package pgstore

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS accounts (
  id BIGSERIAL PRIMARY KEY,
  given_names TEXT NOT NULL,
  family_names TEXT NOT NULL,
  email TEXT NOT NULL,
  country TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_accounts_email ON accounts(lower(email))`,
		`
CREATE TABLE IF NOT EXISTS report_audit (
  id BIGSERIAL PRIMARY KEY,
  request_id TEXT NOT NULL DEFAULT '',
  imo TEXT NOT NULL,
  account_id BIGINT NULL REFERENCES accounts(id) ON DELETE SET NULL,
  outcome TEXT NOT NULL,
  degraded BOOLEAN NOT NULL,
  has_coordinates BOOLEAN NOT NULL,
  generated_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_report_audit_imo_generated_at ON report_audit(imo, generated_at DESC)`,
		// Redelivered messages carry the same request id.
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_report_audit_request_id ON report_audit(request_id) WHERE request_id <> ''`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
