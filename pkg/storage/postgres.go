package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/k1dory/telecom-deploy/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store interface using PostgreSQL. Reports are
// kept whole as JSONB with a few extracted columns for listing and trend
// queries.
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	// Run migrations
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveCostReport persists a cost report
func (s *PostgresStore) SaveCostReport(ctx context.Context, report *models.CostReport, clusterType string) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now().UTC()
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	query := `
		INSERT INTO cost_reports (
			id, cluster_type, current_cost_monthly, optimized_cost_monthly,
			savings_monthly, savings_percentage, report, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.ExecContext(ctx, query,
		report.ID, clusterType,
		report.CurrentMonthlyCost, report.OptimizedMonthly,
		report.SavingsMonthly, report.SavingsPercent,
		body, report.GeneratedAt,
	)

	return err
}

// GetCostReport retrieves a cost report by ID
func (s *PostgresStore) GetCostReport(ctx context.Context, id string) (*models.CostReport, error) {
	var body []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM cost_reports WHERE id = $1`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cost report not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	var report models.CostReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}

	return &report, nil
}

// ListCostReports retrieves the most recent cost reports
func (s *PostgresStore) ListCostReports(ctx context.Context, limit int) ([]*models.CostReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT report
		FROM cost_reports
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.CostReport
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}

		var report models.CostReport
		if err := json.Unmarshal(body, &report); err != nil {
			return nil, fmt.Errorf("failed to decode stored report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// SaveSecurityReport persists a security report
func (s *PostgresStore) SaveSecurityReport(ctx context.Context, report *models.SecurityReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now().UTC()
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	query := `
		INSERT INTO security_reports (id, score, grade, report, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = s.db.ExecContext(ctx, query,
		report.ID, report.Score, report.Grade, body, report.GeneratedAt,
	)

	return err
}

// GetSecurityReport retrieves a security report by ID
func (s *PostgresStore) GetSecurityReport(ctx context.Context, id string) (*models.SecurityReport, error) {
	var body []byte

	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM security_reports WHERE id = $1`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("security report not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	var report models.SecurityReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}

	return &report, nil
}

// ListSecurityReports retrieves the most recent security reports
func (s *PostgresStore) ListSecurityReports(ctx context.Context, limit int) ([]*models.SecurityReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT report
		FROM security_reports
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.SecurityReport
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}

		var report models.SecurityReport
		if err := json.Unmarshal(body, &report); err != nil {
			return nil, fmt.Errorf("failed to decode stored report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
