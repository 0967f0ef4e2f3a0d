package repository

import (
	"collections-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type DebtAccountRepository struct {
	db *sqlx.DB
}

func NewDebtAccountRepository(db *sqlx.DB) *DebtAccountRepository {
	return &DebtAccountRepository{db: db}
}

func (r *DebtAccountRepository) Insert(account *models.DebtAccount) error {
	query := `INSERT INTO debt_accounts (client_id, portfolio_id, debtor_id, import_job_id,
	          account_number, original_account_number, account_type, account_status,
	          current_balance, original_balance, charge_off_date, last_payment_date, created_by)
	          VALUES (:client_id, :portfolio_id, :debtor_id, :import_job_id,
	          :account_number, :original_account_number, :account_type, :account_status,
	          :current_balance, :original_balance, :charge_off_date, :last_payment_date, :created_by)`
	result, err := r.db.NamedExec(query, account)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	account.ID = id
	return nil
}

func (r *DebtAccountRepository) FindByJob(jobID int64, limit, offset int) ([]models.DebtAccount, int, error) {
	var accounts []models.DebtAccount
	var total int

	countQuery := "SELECT COUNT(*) FROM debt_accounts WHERE import_job_id = ?"
	if err := r.db.Get(&total, countQuery, jobID); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM debt_accounts WHERE import_job_id = ? ORDER BY id LIMIT ? OFFSET ?"
	if err := r.db.Select(&accounts, query, jobID, limit, offset); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

func (r *DebtAccountRepository) FindByDebtor(debtorID int64) ([]models.DebtAccount, error) {
	var accounts []models.DebtAccount
	query := "SELECT * FROM debt_accounts WHERE debtor_id = ? ORDER BY id"
	err := r.db.Select(&accounts, query, debtorID)
	return accounts, err
}
