package models

import (
	"encoding/json"
	"time"
)

// Canonical mapped-data field names. The external field-mapping step writes
// these keys into staging_rows.mapped_data; everything downstream reads only
// these names.
const (
	FieldAccountNumber         = "account_number"
	FieldOriginalAccountNumber = "original_account_number"
	FieldCurrentBalance        = "current_balance"
	FieldOriginalBalance       = "original_balance"
	FieldSSN                   = "ssn"
	FieldFirstName             = "first_name"
	FieldLastName              = "last_name"
	FieldDateOfBirth           = "date_of_birth"
	FieldChargeOffDate         = "charge_off_date"
	FieldLastPaymentDate       = "last_payment_date"
	FieldPhone                 = "phone"
	FieldEmail                 = "email"
	FieldAddress1              = "address1"
	FieldAddress2              = "address2"
	FieldCity                  = "city"
	FieldState                 = "state"
	FieldZip                   = "zip"
	FieldAccountType           = "account_type"
	FieldAccountStatus         = "account_status"
)

// StagingRow is immutable once the external upload step has written it.
// Exactly one row exists per (job_id, row_number).
type StagingRow struct {
	ID         int64           `db:"id" json:"id"`
	JobID      int64           `db:"job_id" json:"job_id"`
	RowNumber  int             `db:"row_number" json:"row_number"`
	RawData    json.RawMessage `db:"raw_data" json:"raw_data"`
	MappedData json.RawMessage `db:"mapped_data" json:"mapped_data"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// Fields decodes mapped_data into the canonical field map. A row staged with
// no mapped data decodes as an empty map, not an error.
func (r *StagingRow) Fields() (map[string]string, error) {
	if len(r.MappedData) == 0 {
		return map[string]string{}, nil
	}
	var fields map[string]string
	if err := json.Unmarshal(r.MappedData, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
