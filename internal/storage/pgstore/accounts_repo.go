package pgstore

import (
	"context"
	"strings"
	"time"

	"github.com/BearBump/VesselBrief/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const pgUniqueViolation = "23505"

func (s *Storage) CreateAccount(ctx context.Context, in models.AccountCreateInput) (*models.Account, error) {
	a := models.Account{
		GivenNames:   in.GivenNames,
		FamilyNames:  in.FamilyNames,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Country:      in.Country,
		PasswordHash: in.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := s.db.QueryRow(ctx, `
INSERT INTO accounts (given_names, family_names, email, country, password_hash, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, a.GivenNames, a.FamilyNames, a.Email, a.Country, a.PasswordHash, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, models.ErrEmailTaken
		}
		return nil, errors.Wrap(err, "insert account")
	}
	return &a, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getAccount(ctx, `WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (s *Storage) GetAccountByID(ctx context.Context, id uint64) (*models.Account, error) {
	return s.getAccount(ctx, `WHERE id = $1`, id)
}

func (s *Storage) getAccount(ctx context.Context, where string, arg any) (*models.Account, error) {
	var a models.Account
	err := s.db.QueryRow(ctx, `
SELECT id, given_names, family_names, email, country, password_hash, created_at
FROM accounts
`+where, arg).Scan(
		&a.ID, &a.GivenNames, &a.FamilyNames, &a.Email, &a.Country, &a.PasswordHash, &a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "select account")
	}
	return &a, nil
}
