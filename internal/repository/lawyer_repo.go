package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mlevasseur/dossiers-militaires/internal/models"
	"github.com/mlevasseur/dossiers-militaires/pkg/database"
	"go.uber.org/zap"
)

// LawyerRepository persists lawyer reference data
type LawyerRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewLawyerRepository creates a new lawyer repository
func NewLawyerRepository(db *database.DB, logger *zap.Logger) *LawyerRepository {
	return &LawyerRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new lawyer
func (r *LawyerRepository) Create(ctx context.Context, l *models.Lawyer) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now()

	query := `
		INSERT INTO lawyers (id, first_name, last_name, specialized, email, phone, address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.FirstName, l.LastName, l.Specialized, l.Email, l.Phone, l.Address, l.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create lawyer", zap.Error(err))
		return fmt.Errorf("failed to create lawyer: %w", err)
	}
	return nil
}

// GetByID retrieves a lawyer by ID, nil when absent
func (r *LawyerRepository) GetByID(ctx context.Context, id string) (*models.Lawyer, error) {
	query := `
		SELECT id, first_name, last_name, specialized, email, phone, address, created_at
		FROM lawyers WHERE id = ?
	`
	l := &models.Lawyer{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Specialized, &l.Email, &l.Phone, &l.Address, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lawyer: %w", err)
	}
	return l, nil
}

// List returns all lawyers ordered by name
func (r *LawyerRepository) List(ctx context.Context) ([]*models.Lawyer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, specialized, email, phone, address, created_at
		FROM lawyers ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lawyers: %w", err)
	}
	defer rows.Close()

	var lawyers []*models.Lawyer
	for rows.Next() {
		l := &models.Lawyer{}
		if err := rows.Scan(&l.ID, &l.FirstName, &l.LastName, &l.Specialized, &l.Email, &l.Phone, &l.Address, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lawyer: %w", err)
		}
		lawyers = append(lawyers, l)
	}
	return lawyers, rows.Err()
}
