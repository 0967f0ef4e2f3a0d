package repository

import (
	"collections-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ClientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindAll(limit, offset int) ([]models.Client, int, error) {
	var clients []models.Client
	var total int

	if err := r.db.Get(&total, "SELECT COUNT(*) FROM clients"); err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM clients ORDER BY name LIMIT ? OFFSET ?"
	if err := r.db.Select(&clients, query, limit, offset); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (r *ClientRepository) FindByID(id int64) (*models.Client, error) {
	var client models.Client
	query := "SELECT * FROM clients WHERE id = ? LIMIT 1"
	err := r.db.Get(&client, query, id)
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Create(client *models.Client) error {
	query := `INSERT INTO clients (name, code, is_active)
	          VALUES (:name, :code, :is_active)`
	result, err := r.db.NamedExec(query, client)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	client.ID = id
	return nil
}
