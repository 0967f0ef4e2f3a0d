package models

import "time"

// Debtor is deduplicated by SSN within a client. The import pipeline creates
// debtors lazily and never updates them afterwards; only satellite contact
// records are appended.
type Debtor struct {
	ID          int64      `db:"id" json:"id"`
	ClientID    int64      `db:"client_id" json:"client_id"`
	SSN         string     `db:"ssn" json:"ssn"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth"`
	CreatedBy   int        `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type DebtorAddress struct {
	ID        int64     `db:"id" json:"id"`
	DebtorID  int64     `db:"debtor_id" json:"debtor_id"`
	Line1     string    `db:"line1" json:"line1"`
	Line2     string    `db:"line2" json:"line2"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Zip       string    `db:"zip" json:"zip"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DebtorPhone struct {
	ID        int64     `db:"id" json:"id"`
	DebtorID  int64     `db:"debtor_id" json:"debtor_id"`
	Number    string    `db:"number" json:"number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DebtorEmail struct {
	ID        int64     `db:"id" json:"id"`
	DebtorID  int64     `db:"debtor_id" json:"debtor_id"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
