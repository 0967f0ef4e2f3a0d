package models

import "time"

// Allow-listed enum values for imported accounts. Values outside the
// allow-list are coerced to the defaults below without a recorded warning.
const (
	DefaultAccountType   = "other"
	DefaultAccountStatus = "active"
)

var AccountTypes = map[string]bool{
	"credit_card":   true,
	"medical":       true,
	"personal_loan": true,
	"auto_loan":     true,
	"student_loan":  true,
	"mortgage":      true,
	"utility":       true,
	"other":         true,
}

var AccountStatuses = map[string]bool{
	"active":        true,
	"closed":        true,
	"charged_off":   true,
	"in_collection": true,
	"settled":       true,
	"disputed":      true,
}

// NormalizeAccountType coerces an imported value onto the allow-list.
func NormalizeAccountType(value string) string {
	if AccountTypes[value] {
		return value
	}
	return DefaultAccountType
}

// NormalizeAccountStatus coerces an imported value onto the allow-list.
func NormalizeAccountStatus(value string) string {
	if AccountStatuses[value] {
		return value
	}
	return DefaultAccountStatus
}

// DebtAccount is the primary record produced by the import pipeline.
type DebtAccount struct {
	ID                    int64      `db:"id" json:"id"`
	ClientID              int64      `db:"client_id" json:"client_id"`
	PortfolioID           int64      `db:"portfolio_id" json:"portfolio_id"`
	DebtorID              *int64     `db:"debtor_id" json:"debtor_id"`
	ImportJobID           int64      `db:"import_job_id" json:"import_job_id"`
	AccountNumber         string     `db:"account_number" json:"account_number"`
	OriginalAccountNumber string     `db:"original_account_number" json:"original_account_number"`
	AccountType           string     `db:"account_type" json:"account_type"`
	AccountStatus         string     `db:"account_status" json:"account_status"`
	CurrentBalance        float64    `db:"current_balance" json:"current_balance"`
	OriginalBalance       float64    `db:"original_balance" json:"original_balance"`
	ChargeOffDate         *time.Time `db:"charge_off_date" json:"charge_off_date"`
	LastPaymentDate       *time.Time `db:"last_payment_date" json:"last_payment_date"`
	CreatedBy             int        `db:"created_by" json:"created_by"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}
