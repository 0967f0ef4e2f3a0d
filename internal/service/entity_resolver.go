package service

import (
	"fmt"
	"strings"

	"collections-web/internal/models"

	"github.com/sirupsen/logrus"
)

// ImportTarget identifies where resolved records land. It is derived once per
// chunk from the job's portfolio reference.
type ImportTarget struct {
	ClientID    int64
	PortfolioID int64
}

// EntityResolver turns one staging row into a deduplicated debtor, its
// best-effort contact satellites, and a debt account.
type EntityResolver struct {
	debtors  debtorStore
	accounts accountStore
	log      *logrus.Logger
}

func NewEntityResolver(debtors debtorStore, accounts accountStore, log *logrus.Logger) *EntityResolver {
	return &EntityResolver{
		debtors:  debtors,
		accounts: accounts,
		log:      log,
	}
}

// ResolveRow processes a single staging row against the target portfolio.
// A returned error covers exactly this row; the caller records it and moves on.
func (s *EntityResolver) ResolveRow(row *models.StagingRow, target ImportTarget, jobID int64, actorID int) error {
	fields, err := row.Fields()
	if err != nil {
		return fmt.Errorf("mapped data unreadable: %w", err)
	}

	ssn := strings.TrimSpace(fields[models.FieldSSN])
	if ssn == "" {
		return fmt.Errorf("missing ssn, no debtor resolved and account skipped")
	}
	if digits := digitsOnly(ssn); digits != "" {
		ssn = digits
	}

	debtor := &models.Debtor{
		ClientID:  target.ClientID,
		SSN:       ssn,
		FirstName: strings.TrimSpace(fields[models.FieldFirstName]),
		LastName:  strings.TrimSpace(fields[models.FieldLastName]),
		CreatedBy: actorID,
	}
	if dob := strings.TrimSpace(fields[models.FieldDateOfBirth]); dob != "" {
		if t, err := parseDate(dob); err == nil {
			debtor.DateOfBirth = &t
		}
	}

	debtorID, err := s.debtors.Upsert(debtor)
	if err != nil {
		return fmt.Errorf("failed to resolve debtor: %w", err)
	}

	s.insertSatellites(debtorID, fields)

	account := &models.DebtAccount{
		ClientID:              target.ClientID,
		PortfolioID:           target.PortfolioID,
		DebtorID:              &debtorID,
		ImportJobID:           jobID,
		AccountNumber:         strings.TrimSpace(fields[models.FieldAccountNumber]),
		OriginalAccountNumber: strings.TrimSpace(fields[models.FieldOriginalAccountNumber]),
		AccountType:           s.normalizeEnum(models.FieldAccountType, fields[models.FieldAccountType], models.NormalizeAccountType),
		AccountStatus:         s.normalizeEnum(models.FieldAccountStatus, fields[models.FieldAccountStatus], models.NormalizeAccountStatus),
		CurrentBalance:        parseMoneyOrZero(fields[models.FieldCurrentBalance]),
		OriginalBalance:       parseMoneyOrZero(fields[models.FieldOriginalBalance]),
		CreatedBy:             actorID,
	}
	if raw := strings.TrimSpace(fields[models.FieldChargeOffDate]); raw != "" {
		if t, err := parseDate(raw); err == nil {
			account.ChargeOffDate = &t
		}
	}
	if raw := strings.TrimSpace(fields[models.FieldLastPaymentDate]); raw != "" {
		if t, err := parseDate(raw); err == nil {
			account.LastPaymentDate = &t
		}
	}

	if err := s.accounts.Insert(account); err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// insertSatellites writes address/phone/email records for the debtor.
// Failures are logged and never fail the row.
func (s *EntityResolver) insertSatellites(debtorID int64, fields map[string]string) {
	line1 := strings.TrimSpace(fields[models.FieldAddress1])
	city := strings.TrimSpace(fields[models.FieldCity])
	if line1 != "" || city != "" {
		address := &models.DebtorAddress{
			DebtorID: debtorID,
			Line1:    line1,
			Line2:    strings.TrimSpace(fields[models.FieldAddress2]),
			City:     city,
			State:    strings.TrimSpace(fields[models.FieldState]),
			Zip:      strings.TrimSpace(fields[models.FieldZip]),
		}
		if err := s.debtors.InsertAddress(address); err != nil {
			s.log.WithError(err).WithField("debtor_id", debtorID).Warn("Failed to insert debtor address")
		}
	}

	if phone := strings.TrimSpace(fields[models.FieldPhone]); phone != "" {
		if err := s.debtors.InsertPhone(&models.DebtorPhone{DebtorID: debtorID, Number: phone}); err != nil {
			s.log.WithError(err).WithField("debtor_id", debtorID).Warn("Failed to insert debtor phone")
		}
	}

	if email := strings.TrimSpace(fields[models.FieldEmail]); email != "" {
		if err := s.debtors.InsertEmail(&models.DebtorEmail{DebtorID: debtorID, Address: email}); err != nil {
			s.log.WithError(err).WithField("debtor_id", debtorID).Warn("Failed to insert debtor email")
		}
	}
}

func (s *EntityResolver) normalizeEnum(field, value string, normalize func(string) string) string {
	trimmed := strings.TrimSpace(value)
	normalized := normalize(trimmed)
	if trimmed != "" && normalized != trimmed {
		s.log.WithFields(logrus.Fields{
			"field": field,
			"value": trimmed,
		}).Debug("Coerced enum value to default")
	}
	return normalized
}
