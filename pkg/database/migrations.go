package database

import (
	"fmt"

	"go.uber.org/zap"
)

// Migration is one schema step, applied in version order
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations holds the full schema history. New steps append, existing
// steps never change once released.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_cases",
		SQL: `
			CREATE TABLE IF NOT EXISTS cases (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				location TEXT NOT NULL DEFAULT '',
				incident_date DATETIME,
				notes TEXT NOT NULL DEFAULT '',
				archived INTEGER NOT NULL DEFAULT 0,
				caseworker TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_cases_caseworker ON cases(caseworker);
			CREATE INDEX IF NOT EXISTS idx_cases_archived ON cases(archived);
		`,
	},
	{
		Version: 2,
		Name:    "create_members",
		SQL: `
			CREATE TABLE IF NOT EXISTS members (
				id TEXT PRIMARY KEY,
				case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
				rank TEXT NOT NULL DEFAULT '',
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				unit TEXT NOT NULL DEFAULT '',
				region TEXT NOT NULL DEFAULT '',
				department TEXT NOT NULL DEFAULT '',
				circumstance TEXT NOT NULL DEFAULT 'OTHER',
				injury TEXT NOT NULL DEFAULT '',
				incapacity_days INTEGER NOT NULL DEFAULT 0,
				deceased INTEGER NOT NULL DEFAULT 0,
				archived INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_members_case ON members(case_id);
			CREATE INDEX IF NOT EXISTS idx_members_region ON members(region);
		`,
	},
	{
		Version: 3,
		Name:    "create_lawyers",
		SQL: `
			CREATE TABLE IF NOT EXISTS lawyers (
				id TEXT PRIMARY KEY,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				specialized INTEGER NOT NULL DEFAULT 0,
				email TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				address TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_beneficiaries",
		SQL: `
			CREATE TABLE IF NOT EXISTS beneficiaries (
				id TEXT PRIMARY KEY,
				member_id TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				qualifier TEXT NOT NULL DEFAULT 'OTHER',
				decision_number TEXT NOT NULL DEFAULT '',
				decision_date DATETIME,
				archived INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_beneficiaries_member ON beneficiaries(member_id);

			CREATE TABLE IF NOT EXISTS beneficiary_lawyers (
				beneficiary_id TEXT NOT NULL REFERENCES beneficiaries(id) ON DELETE CASCADE,
				lawyer_id TEXT NOT NULL REFERENCES lawyers(id) ON DELETE CASCADE,
				PRIMARY KEY (beneficiary_id, lawyer_id)
			);
		`,
	},
	{
		Version: 5,
		Name:    "create_conventions_and_payments",
		SQL: `
			CREATE TABLE IF NOT EXISTS conventions (
				id TEXT PRIMARY KEY,
				beneficiary_id TEXT NOT NULL REFERENCES beneficiaries(id) ON DELETE CASCADE,
				amount REAL NOT NULL DEFAULT 0,
				result_percent REAL NOT NULL DEFAULT 0,
				sent_to_lawyer DATETIME,
				sent_to_beneficiary DATETIME,
				validated DATETIME,
				lawyer_id TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_conventions_beneficiary ON conventions(beneficiary_id);

			CREATE TABLE IF NOT EXISTS payments (
				id TEXT PRIMARY KEY,
				beneficiary_id TEXT NOT NULL REFERENCES beneficiaries(id) ON DELETE CASCADE,
				type TEXT NOT NULL DEFAULT 'OTHER',
				amount REAL NOT NULL DEFAULT 0,
				date DATETIME,
				recipient_name TEXT NOT NULL DEFAULT '',
				recipient_qualifier TEXT NOT NULL DEFAULT '',
				recipient_address TEXT NOT NULL DEFAULT '',
				iban TEXT NOT NULL DEFAULT '',
				bic TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_payments_beneficiary ON payments(beneficiary_id);
		`,
	},
}

// Migrator applies pending schema migrations
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// Run applies all migrations not yet recorded in schema_migrations
func (m *Migrator) Run() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.appliedVersions()
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		m.logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name))

		if _, err := m.db.Exec(migration.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}
		if _, err := m.db.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsTable() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`)
	return err
}

func (m *Migrator) appliedVersions() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
