package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogulcanaydogan/aws-cost-reporter/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite implements the Storage interface using an SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates an SQLite database at the given path.
func NewSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) RecordReport(ctx context.Context, report *model.CostReport) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	if report.SentAt.IsZero() {
		report.SentAt = time.Now().UTC()
	}
	if report.Currency == "" {
		report.Currency = "USD"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cost_reports (id, tag_key, tag_value, start_date, end_date, total_cost, currency, message, notifier, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Tag.Key, report.Tag.Value,
		report.Range.StartDate(), report.Range.EndDate(),
		report.TotalCost, report.Currency, report.Message, report.Notifier, report.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert cost report: %w", err)
	}
	return nil
}

func (s *SQLite) ListReports(ctx context.Context, filter model.HistoryFilter) ([]model.CostReport, error) {
	query := `SELECT id, tag_key, tag_value, start_date, end_date, total_cost, currency, message, notifier, sent_at
		FROM cost_reports`
	where, args := buildWhereClause(filter)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY sent_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cost reports: %w", err)
	}
	defer rows.Close()

	var reports []model.CostReport
	for rows.Next() {
		var (
			r          model.CostReport
			start, end string
		)
		if err := rows.Scan(&r.ID, &r.Tag.Key, &r.Tag.Value, &start, &end,
			&r.TotalCost, &r.Currency, &r.Message, &r.Notifier, &r.SentAt); err != nil {
			return nil, fmt.Errorf("scan cost report row: %w", err)
		}
		if r.Range.Start, err = time.Parse(model.DateLayout, start); err != nil {
			return nil, fmt.Errorf("parse start date %q: %w", start, err)
		}
		if r.Range.End, err = time.Parse(model.DateLayout, end); err != nil {
			return nil, fmt.Errorf("parse end date %q: %w", end, err)
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// buildWhereClause constructs a SQL WHERE clause from a HistoryFilter.
func buildWhereClause(filter model.HistoryFilter) (string, []any) {
	var conditions []string
	var args []any

	if filter.TagKey != "" {
		conditions = append(conditions, "tag_key = ?")
		args = append(args, filter.TagKey)
	}
	if filter.TagValue != "" {
		conditions = append(conditions, "tag_value = ?")
		args = append(args, filter.TagValue)
	}

	return strings.Join(conditions, " AND "), args
}
