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

// BeneficiaryRepository persists beneficiaries with their conventions,
// payments and designated lawyers. Reads return fully-populated records,
// the report side never traverses references itself.
type BeneficiaryRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewBeneficiaryRepository creates a new beneficiary repository
func NewBeneficiaryRepository(db *database.DB, logger *zap.Logger) *BeneficiaryRepository {
	return &BeneficiaryRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new beneficiary
func (r *BeneficiaryRepository) Create(ctx context.Context, b *models.Beneficiary) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `
		INSERT INTO beneficiaries (id, member_id, first_name, last_name, qualifier,
			decision_number, decision_date, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.MemberID, b.FirstName, b.LastName, b.Qualifier,
		b.DecisionNumber, b.DecisionDate, b.Archived, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to create beneficiary", zap.Error(err))
		return fmt.Errorf("failed to create beneficiary: %w", err)
	}
	return nil
}

// GetByID retrieves a fully-populated beneficiary, nil when absent
func (r *BeneficiaryRepository) GetByID(ctx context.Context, id string) (*models.Beneficiary, error) {
	query := `
		SELECT id, member_id, first_name, last_name, qualifier, decision_number,
			decision_date, archived, created_at, updated_at
		FROM beneficiaries WHERE id = ?
	`
	b := &models.Beneficiary{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.MemberID, &b.FirstName, &b.LastName, &b.Qualifier, &b.DecisionNumber,
		&b.DecisionDate, &b.Archived, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get beneficiary: %w", err)
	}
	if err := r.populate(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetByMemberID returns a member's beneficiaries, fully populated, in
// creation order
func (r *BeneficiaryRepository) GetByMemberID(ctx context.Context, memberID string) ([]*models.Beneficiary, error) {
	query := `
		SELECT id, member_id, first_name, last_name, qualifier, decision_number,
			decision_date, archived, created_at, updated_at
		FROM beneficiaries WHERE member_id = ? ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list beneficiaries: %w", err)
	}
	defer rows.Close()

	var beneficiaries []*models.Beneficiary
	for rows.Next() {
		b := &models.Beneficiary{}
		if err := rows.Scan(
			&b.ID, &b.MemberID, &b.FirstName, &b.LastName, &b.Qualifier, &b.DecisionNumber,
			&b.DecisionDate, &b.Archived, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan beneficiary: %w", err)
		}
		beneficiaries = append(beneficiaries, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range beneficiaries {
		if err := r.populate(ctx, b); err != nil {
			return nil, err
		}
	}
	return beneficiaries, nil
}

// AddConvention appends a convention to a beneficiary
func (r *BeneficiaryRepository) AddConvention(ctx context.Context, c *models.Convention) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()

	query := `
		INSERT INTO conventions (id, beneficiary_id, amount, result_percent,
			sent_to_lawyer, sent_to_beneficiary, validated, lawyer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.BeneficiaryID, c.Amount, c.ResultPercent,
		c.SentToLawyer, c.SentToBeneficiary, c.Validated, c.LawyerID, c.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to add convention", zap.Error(err))
		return fmt.Errorf("failed to add convention: %w", err)
	}
	return nil
}

// AddPayment appends a payment to a beneficiary after checking the
// optional bank fields
func (r *BeneficiaryRepository) AddPayment(ctx context.Context, p *models.Payment) error {
	if err := p.ValidateBankFields(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()

	query := `
		INSERT INTO payments (id, beneficiary_id, type, amount, date, recipient_name,
			recipient_qualifier, recipient_address, iban, bic, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BeneficiaryID, p.Type, p.Amount, p.Date, p.RecipientName,
		p.RecipientQualifier, p.RecipientAddress, p.IBAN, p.BIC, p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to add payment", zap.Error(err))
		return fmt.Errorf("failed to add payment: %w", err)
	}
	return nil
}

// AttachLawyer designates a lawyer for a beneficiary
func (r *BeneficiaryRepository) AttachLawyer(ctx context.Context, beneficiaryID, lawyerID string) error {
	query := `
		INSERT OR IGNORE INTO beneficiary_lawyers (beneficiary_id, lawyer_id) VALUES (?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, beneficiaryID, lawyerID); err != nil {
		return fmt.Errorf("failed to attach lawyer: %w", err)
	}
	return nil
}

// populate loads the ordered conventions, payments and lawyer list
func (r *BeneficiaryRepository) populate(ctx context.Context, b *models.Beneficiary) error {
	conventionRows, err := r.db.QueryContext(ctx, `
		SELECT id, beneficiary_id, amount, result_percent, sent_to_lawyer,
			sent_to_beneficiary, validated, lawyer_id, created_at
		FROM conventions WHERE beneficiary_id = ? ORDER BY created_at, id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to load conventions: %w", err)
	}
	defer conventionRows.Close()

	b.Conventions = nil
	for conventionRows.Next() {
		var c models.Convention
		if err := conventionRows.Scan(
			&c.ID, &c.BeneficiaryID, &c.Amount, &c.ResultPercent, &c.SentToLawyer,
			&c.SentToBeneficiary, &c.Validated, &c.LawyerID, &c.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan convention: %w", err)
		}
		b.Conventions = append(b.Conventions, c)
	}
	if err := conventionRows.Err(); err != nil {
		return err
	}

	paymentRows, err := r.db.QueryContext(ctx, `
		SELECT id, beneficiary_id, type, amount, date, recipient_name,
			recipient_qualifier, recipient_address, iban, bic, created_at
		FROM payments WHERE beneficiary_id = ? ORDER BY created_at, id
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to load payments: %w", err)
	}
	defer paymentRows.Close()

	b.Payments = nil
	for paymentRows.Next() {
		var p models.Payment
		if err := paymentRows.Scan(
			&p.ID, &p.BeneficiaryID, &p.Type, &p.Amount, &p.Date, &p.RecipientName,
			&p.RecipientQualifier, &p.RecipientAddress, &p.IBAN, &p.BIC, &p.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan payment: %w", err)
		}
		b.Payments = append(b.Payments, p)
	}
	if err := paymentRows.Err(); err != nil {
		return err
	}

	lawyerRows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.first_name, l.last_name, l.specialized, l.email, l.phone, l.address, l.created_at
		FROM lawyers l
		JOIN beneficiary_lawyers bl ON bl.lawyer_id = l.id
		WHERE bl.beneficiary_id = ?
		ORDER BY l.last_name, l.first_name
	`, b.ID)
	if err != nil {
		return fmt.Errorf("failed to load lawyers: %w", err)
	}
	defer lawyerRows.Close()

	b.Lawyers = nil
	for lawyerRows.Next() {
		var l models.Lawyer
		if err := lawyerRows.Scan(
			&l.ID, &l.FirstName, &l.LastName, &l.Specialized, &l.Email, &l.Phone, &l.Address, &l.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan lawyer: %w", err)
		}
		b.Lawyers = append(b.Lawyers, l)
	}
	return lawyerRows.Err()
}
