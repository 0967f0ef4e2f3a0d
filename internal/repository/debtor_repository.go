package repository

import (
	"collections-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type DebtorRepository struct {
	db *sqlx.DB
}

func NewDebtorRepository(db *sqlx.DB) *DebtorRepository {
	return &DebtorRepository{db: db}
}

// Upsert inserts the debtor or returns the id of the existing one in a single
// statement. The unique key on (client_id, ssn) plus the LAST_INSERT_ID trick
// makes concurrent imports of the same SSN converge on one record without a
// separate lookup.
func (r *DebtorRepository) Upsert(debtor *models.Debtor) (int64, error) {
	query := `INSERT INTO debtors (client_id, ssn, first_name, last_name, date_of_birth, created_by)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`
	result, err := r.db.Exec(query,
		debtor.ClientID,
		debtor.SSN,
		debtor.FirstName,
		debtor.LastName,
		debtor.DateOfBirth,
		debtor.CreatedBy,
	)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	debtor.ID = id
	return id, nil
}

func (r *DebtorRepository) FindBySSN(clientID int64, ssn string) (*models.Debtor, error) {
	var debtor models.Debtor
	query := "SELECT * FROM debtors WHERE client_id = ? AND ssn = ? LIMIT 1"
	err := r.db.Get(&debtor, query, clientID, ssn)
	if err != nil {
		return nil, err
	}
	return &debtor, nil
}

func (r *DebtorRepository) FindByID(id int64) (*models.Debtor, error) {
	var debtor models.Debtor
	query := "SELECT * FROM debtors WHERE id = ? LIMIT 1"
	err := r.db.Get(&debtor, query, id)
	if err != nil {
		return nil, err
	}
	return &debtor, nil
}

func (r *DebtorRepository) InsertAddress(address *models.DebtorAddress) error {
	query := `INSERT INTO debtor_addresses (debtor_id, line1, line2, city, state, zip)
	          VALUES (:debtor_id, :line1, :line2, :city, :state, :zip)`
	result, err := r.db.NamedExec(query, address)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	address.ID = id
	return nil
}

func (r *DebtorRepository) InsertPhone(phone *models.DebtorPhone) error {
	query := `INSERT INTO debtor_phones (debtor_id, number) VALUES (:debtor_id, :number)`
	result, err := r.db.NamedExec(query, phone)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	phone.ID = id
	return nil
}

func (r *DebtorRepository) InsertEmail(email *models.DebtorEmail) error {
	query := `INSERT INTO debtor_emails (debtor_id, address) VALUES (:debtor_id, :address)`
	result, err := r.db.NamedExec(query, email)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	email.ID = id
	return nil
}
