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

// CaseRepository persists Case records
type CaseRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *database.DB, logger *zap.Logger) *CaseRepository {
	return &CaseRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new case
func (r *CaseRepository) Create(ctx context.Context, c *models.Case) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO cases (id, title, location, incident_date, notes, archived, caseworker, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Title, c.Location, c.IncidentDate, c.Notes, c.Archived, c.Caseworker, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create case", zap.Error(err))
		return fmt.Errorf("failed to create case: %w", err)
	}
	return nil
}

// GetByID retrieves a case by ID, nil when absent
func (r *CaseRepository) GetByID(ctx context.Context, id string) (*models.Case, error) {
	query := `
		SELECT id, title, location, incident_date, notes, archived, caseworker, created_at, updated_at
		FROM cases WHERE id = ?
	`
	c := &models.Case{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Location, &c.IncidentDate, &c.Notes, &c.Archived, &c.Caseworker, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return c, nil
}

// List returns cases, newest first. Archived cases are excluded unless
// requested.
func (r *CaseRepository) List(ctx context.Context, includeArchived bool) ([]*models.Case, error) {
	query := `
		SELECT id, title, location, incident_date, notes, archived, caseworker, created_at, updated_at
		FROM cases
	`
	if !includeArchived {
		query += " WHERE archived = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	defer rows.Close()

	var cases []*models.Case
	for rows.Next() {
		c := &models.Case{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Location, &c.IncidentDate, &c.Notes, &c.Archived, &c.Caseworker, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// Update rewrites the mutable fields of a case
func (r *CaseRepository) Update(ctx context.Context, c *models.Case) error {
	c.UpdatedAt = time.Now()
	query := `
		UPDATE cases SET title = ?, location = ?, incident_date = ?, notes = ?, caseworker = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		c.Title, c.Location, c.IncidentDate, c.Notes, c.Caseworker, c.UpdatedAt, c.ID)
	if err != nil {
		r.logger.Error("Failed to update case", zap.String("case_id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to update case: %w", err)
	}
	return nil
}

// Archive flags a case and cascades to its members and their
// beneficiaries in one transaction. A non-archived member or beneficiary
// must never exist under an archived case.
func (r *CaseRepository) Archive(ctx context.Context, id string) error {
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		now := time.Now()
		if _, err := tx.ExecContext(ctx,
			"UPDATE cases SET archived = 1, updated_at = ? WHERE id = ?", now, id); err != nil {
			return fmt.Errorf("failed to archive case: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE members SET archived = 1, updated_at = ? WHERE case_id = ?", now, id); err != nil {
			return fmt.Errorf("failed to archive members: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE beneficiaries SET archived = 1, updated_at = ?
			WHERE member_id IN (SELECT id FROM members WHERE case_id = ?)`, now, id); err != nil {
			return fmt.Errorf("failed to archive beneficiaries: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to archive case tree", zap.String("case_id", id), zap.Error(err))
		return err
	}

	r.logger.Info("Archived case with members and beneficiaries", zap.String("case_id", id))
	return nil
}
