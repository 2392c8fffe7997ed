package repository

import (
	"context"
	"fmt"

	"github.com/mlevasseur/dossiers-militaires/internal/statistics"
	"github.com/mlevasseur/dossiers-militaires/pkg/database"
	"go.uber.org/zap"
)

// StatisticsRepository produces the flat per-member records the rollup
// aggregator groups. One row per member with its convention and payment
// sums pre-joined, NULL dimension values come back as empty strings and
// are bucketed downstream.
type StatisticsRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewStatisticsRepository creates a new statistics repository
func NewStatisticsRepository(db *database.DB, logger *zap.Logger) *StatisticsRepository {
	return &StatisticsRepository{
		db:     db,
		logger: logger,
	}
}

// MemberRecords returns one record per non-archived member with summed
// convention and payment amounts across its beneficiaries
func (r *StatisticsRepository) MemberRecords(ctx context.Context) ([]statistics.Record, error) {
	query := `
		SELECT
			COALESCE(CAST(strftime('%Y', c.incident_date) AS INTEGER), 0) AS year,
			COALESCE(m.region, '') AS region,
			COALESCE(m.department, '') AS department,
			COALESCE(c.caseworker, '') AS caseworker,
			COALESCE(m.circumstance, '') AS circumstance,
			(SELECT COUNT(*) FROM beneficiaries b WHERE b.member_id = m.id) AS beneficiaries,
			COALESCE((
				SELECT SUM(cv.amount) FROM conventions cv
				JOIN beneficiaries b ON b.id = cv.beneficiary_id
				WHERE b.member_id = m.id
			), 0) AS convention_amount,
			COALESCE((
				SELECT SUM(p.amount) FROM payments p
				JOIN beneficiaries b ON b.id = p.beneficiary_id
				WHERE b.member_id = m.id
			), 0) AS payment_amount,
			m.incapacity_days,
			m.deceased
		FROM members m
		JOIN cases c ON c.id = m.case_id
		WHERE m.archived = 0
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query statistics records", zap.Error(err))
		return nil, fmt.Errorf("failed to query statistics records: %w", err)
	}
	defer rows.Close()

	var records []statistics.Record
	for rows.Next() {
		var rec statistics.Record
		var deceased bool
		if err := rows.Scan(
			&rec.Year, &rec.Region, &rec.Department, &rec.Caseworker, &rec.Circumstance,
			&rec.Beneficiaries, &rec.ConventionAmount, &rec.PaymentAmount,
			&rec.IncapacityDays, &deceased); err != nil {
			return nil, fmt.Errorf("failed to scan statistics record: %w", err)
		}
		rec.Members = 1
		if deceased {
			rec.Deceased = 1
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
