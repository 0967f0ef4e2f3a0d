package models

import "time"

// Client is the creditor whose debt a portfolio contains.
type Client struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Portfolio struct {
	ID            int64     `db:"id" json:"id"`
	ClientID      int64     `db:"client_id" json:"client_id"`
	Name          string    `db:"name" json:"name"`
	PortfolioType string    `db:"portfolio_type" json:"portfolio_type"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

type PortfolioRequest struct {
	ClientID      int64  `json:"client_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	PortfolioType string `json:"portfolio_type"`
	IsActive      bool   `json:"is_active"`
}
