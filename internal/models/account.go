package models

import "time"

type Account struct {
	ID           uint64
	GivenNames   string
	FamilyNames  string
	Email        string
	Country      string
	PasswordHash string
	CreatedAt    time.Time
}

type AccountCreateInput struct {
	GivenNames   string
	FamilyNames  string
	Email        string
	Country      string
	PasswordHash string
}

type ReportAudit struct {
	ID             uint64
	RequestID      string
	IMO            string
	AccountID      *uint64
	Outcome        string
	Degraded       bool
	HasCoordinates bool
	GeneratedAt    time.Time
	CreatedAt      time.Time
}
