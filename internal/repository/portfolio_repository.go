package repository

import (
	"collections-web/internal/models"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type PortfolioRepository struct {
	db *sqlx.DB
}

func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) FindAll(limit, offset int, search string) ([]models.Portfolio, int, error) {
	var portfolios []models.Portfolio
	var total int

	whereClause := ""
	args := []interface{}{}

	if search != "" {
		whereClause = "WHERE name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM portfolios %s", whereClause)
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT * FROM portfolios %s ORDER BY name LIMIT ? OFFSET ?", whereClause)
	args = append(args, limit, offset)
	if err := r.db.Select(&portfolios, query, args...); err != nil {
		return nil, 0, err
	}

	return portfolios, total, nil
}

func (r *PortfolioRepository) FindByID(id int64) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	query := "SELECT * FROM portfolios WHERE id = ? LIMIT 1"
	err := r.db.Get(&portfolio, query, id)
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func (r *PortfolioRepository) Create(portfolio *models.Portfolio) error {
	query := `INSERT INTO portfolios (client_id, name, portfolio_type, is_active)
	          VALUES (:client_id, :name, :portfolio_type, :is_active)`
	result, err := r.db.NamedExec(query, portfolio)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	portfolio.ID = id
	return nil
}

func (r *PortfolioRepository) Update(portfolio *models.Portfolio) error {
	query := `UPDATE portfolios SET client_id = :client_id, name = :name,
	          portfolio_type = :portfolio_type, is_active = :is_active
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, portfolio)
	return err
}

func (r *PortfolioRepository) Delete(id int64) error {
	query := "DELETE FROM portfolios WHERE id = ?"
	_, err := r.db.Exec(query, id)
	return err
}
