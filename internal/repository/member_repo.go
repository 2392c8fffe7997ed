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

// MemberRepository persists ServiceMember records
type MemberRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB, logger *zap.Logger) *MemberRepository {
	return &MemberRepository{
		db:     db,
		logger: logger,
	}
}

const memberColumns = `id, case_id, rank, first_name, last_name, unit, region, department,
	circumstance, injury, incapacity_days, deceased, archived, created_at, updated_at`

// Create inserts a new member
func (r *MemberRepository) Create(ctx context.Context, m *models.ServiceMember) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.CaseID, m.Rank, m.FirstName, m.LastName, m.Unit, m.Region, m.Department,
		m.Circumstance, m.Injury, m.IncapacityDays, m.Deceased, m.Archived, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create member", zap.Error(err))
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// GetByID retrieves a member by ID, nil when absent
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*models.ServiceMember, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE id = ?"
	m := &models.ServiceMember{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.CaseID, &m.Rank, &m.FirstName, &m.LastName, &m.Unit, &m.Region, &m.Department,
		&m.Circumstance, &m.Injury, &m.IncapacityDays, &m.Deceased, &m.Archived, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// GetByCaseID returns a case's members in creation order
func (r *MemberRepository) GetByCaseID(ctx context.Context, caseID string) ([]*models.ServiceMember, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE case_id = ? ORDER BY created_at, id"
	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.ServiceMember
	for rows.Next() {
		m := &models.ServiceMember{}
		if err := rows.Scan(
			&m.ID, &m.CaseID, &m.Rank, &m.FirstName, &m.LastName, &m.Unit, &m.Region, &m.Department,
			&m.Circumstance, &m.Injury, &m.IncapacityDays, &m.Deceased, &m.Archived, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Update rewrites the mutable fields of a member
func (r *MemberRepository) Update(ctx context.Context, m *models.ServiceMember) error {
	m.UpdatedAt = time.Now()
	query := `
		UPDATE members SET rank = ?, first_name = ?, last_name = ?, unit = ?, region = ?,
			department = ?, circumstance = ?, injury = ?, incapacity_days = ?, deceased = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		m.Rank, m.FirstName, m.LastName, m.Unit, m.Region, m.Department,
		m.Circumstance, m.Injury, m.IncapacityDays, m.Deceased, m.UpdatedAt, m.ID)
	if err != nil {
		r.logger.Error("Failed to update member", zap.String("member_id", m.ID), zap.Error(err))
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}
