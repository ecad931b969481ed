package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/auditgen/discrepancy-engine/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- One row per comparison run
	CREATE TABLE IF NOT EXISTS comparisons (
		comparison_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		documents TEXT NOT NULL,
		consistency_score REAL NOT NULL,
		confidence_level REAL NOT NULL,
		trivial INTEGER DEFAULT 0,
		total_groups INTEGER NOT NULL,
		consistent_groups INTEGER NOT NULL,
		degraded_findings INTEGER NOT NULL
	);

	-- Discrepancies emitted by a comparison, in emission order
	CREATE TABLE IF NOT EXISTS discrepancies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comparison_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		discrepancy_type TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		description TEXT NOT NULL,
		affected_sections TEXT NOT NULL,
		recommendations TEXT NOT NULL,
		finding_ids TEXT NOT NULL,
		FOREIGN KEY (comparison_id) REFERENCES comparisons(comparison_id) ON DELETE CASCADE,
		UNIQUE(comparison_id, ordinal)
	);

	-- Recoverable faults noted during a run
	CREATE TABLE IF NOT EXISTS warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		comparison_id TEXT NOT NULL,
		code TEXT NOT NULL,
		finding_id TEXT,
		message TEXT NOT NULL,
		FOREIGN KEY (comparison_id) REFERENCES comparisons(comparison_id) ON DELETE CASCADE
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_discrepancies_comparison ON discrepancies(comparison_id, ordinal);
	CREATE INDEX IF NOT EXISTS idx_discrepancies_risk ON discrepancies(risk_level);
	CREATE INDEX IF NOT EXISTS idx_warnings_comparison ON warnings(comparison_id);
	CREATE INDEX IF NOT EXISTS idx_comparisons_timestamp ON comparisons(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveComparison stores a comparison with its discrepancies and warnings in a
// single transaction. Saving the same comparison ID again replaces the prior
// record, which keeps repeated runs over identical inputs idempotent.
func (s *Store) SaveComparison(ctx context.Context, record store.ComparisonRecord) error {
	documents, err := store.EncodeStrings(record.Documents)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Replace any earlier save of the same comparison
	if _, err := tx.ExecContext(ctx, `DELETE FROM comparisons WHERE comparison_id = ?`, record.ComparisonID); err != nil {
		return fmt.Errorf("failed to clear prior comparison: %w", err)
	}

	trivial := 0
	if record.Trivial {
		trivial = 1
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO comparisons (comparison_id, timestamp, documents, consistency_score, confidence_level, trivial, total_groups, consistent_groups, degraded_findings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ComparisonID,
		record.Timestamp.Unix(),
		documents,
		record.ConsistencyScore,
		record.ConfidenceLevel,
		trivial,
		record.TotalGroups,
		record.ConsistentGroups,
		record.DegradedFindings,
	); err != nil {
		return fmt.Errorf("failed to insert comparison: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO discrepancies (comparison_id, ordinal, discrepancy_type, risk_level, description, affected_sections, recommendations, finding_ids)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, d := range record.Discrepancies {
		sections, err := store.EncodeStrings(d.AffectedSections)
		if err != nil {
			return fmt.Errorf("failed to encode affected sections: %w", err)
		}
		recommendations, err := store.EncodeStrings(d.Recommendations)
		if err != nil {
			return fmt.Errorf("failed to encode recommendations: %w", err)
		}
		findingIDs, err := store.EncodeStrings(d.FindingIDs)
		if err != nil {
			return fmt.Errorf("failed to encode finding IDs: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			record.ComparisonID,
			i,
			d.Type,
			d.RiskLevel,
			d.Description,
			sections,
			recommendations,
			findingIDs,
		); err != nil {
			return fmt.Errorf("failed to insert discrepancy: %w", err)
		}
	}

	for _, w := range record.Warnings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO warnings (comparison_id, code, finding_id, message)
			VALUES (?, ?, ?, ?)
		`,
			record.ComparisonID,
			w.Code,
			w.FindingID,
			w.Message,
		); err != nil {
			return fmt.Errorf("failed to insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetComparison retrieves a comparison and its discrepancies and warnings.
func (s *Store) GetComparison(ctx context.Context, comparisonID string) (store.ComparisonRecord, error) {
	record, err := s.getComparisonRow(ctx, comparisonID)
	if err != nil {
		return store.ComparisonRecord{}, err
	}

	record.Discrepancies, err = s.getDiscrepancies(ctx, comparisonID)
	if err != nil {
		return store.ComparisonRecord{}, err
	}

	record.Warnings, err = s.getWarnings(ctx, comparisonID)
	if err != nil {
		return store.ComparisonRecord{}, err
	}

	return record, nil
}

func (s *Store) getComparisonRow(ctx context.Context, comparisonID string) (store.ComparisonRecord, error) {
	query := `
		SELECT comparison_id, timestamp, documents, consistency_score, confidence_level, trivial, total_groups, consistent_groups, degraded_findings
		FROM comparisons
		WHERE comparison_id = ?
	`

	record, err := scanComparison(s.db.QueryRowContext(ctx, query, comparisonID))
	if err != nil {
		if err == sql.ErrNoRows {
			return store.ComparisonRecord{}, fmt.Errorf("comparison not found: %s", comparisonID)
		}
		return store.ComparisonRecord{}, fmt.Errorf("failed to get comparison: %w", err)
	}

	return record, nil
}

func (s *Store) getDiscrepancies(ctx context.Context, comparisonID string) ([]store.DiscrepancyRecord, error) {
	query := `
		SELECT comparison_id, ordinal, discrepancy_type, risk_level, description, affected_sections, recommendations, finding_ids
		FROM discrepancies
		WHERE comparison_id = ?
		ORDER BY ordinal ASC
	`

	rows, err := s.db.QueryContext(ctx, query, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get discrepancies: %w", err)
	}
	defer rows.Close()

	var discrepancies []store.DiscrepancyRecord
	for rows.Next() {
		var d store.DiscrepancyRecord
		var sections, recommendations, findingIDs string

		if err := rows.Scan(
			&d.ComparisonID,
			&d.Ordinal,
			&d.Type,
			&d.RiskLevel,
			&d.Description,
			&sections,
			&recommendations,
			&findingIDs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan discrepancy: %w", err)
		}

		if d.AffectedSections, err = store.DecodeStrings(sections); err != nil {
			return nil, fmt.Errorf("failed to decode affected sections: %w", err)
		}
		if d.Recommendations, err = store.DecodeStrings(recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode recommendations: %w", err)
		}
		if d.FindingIDs, err = store.DecodeStrings(findingIDs); err != nil {
			return nil, fmt.Errorf("failed to decode finding IDs: %w", err)
		}

		discrepancies = append(discrepancies, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discrepancies: %w", err)
	}

	return discrepancies, nil
}

func (s *Store) getWarnings(ctx context.Context, comparisonID string) ([]store.WarningRecord, error) {
	query := `
		SELECT comparison_id, code, finding_id, message
		FROM warnings
		WHERE comparison_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get warnings: %w", err)
	}
	defer rows.Close()

	var warnings []store.WarningRecord
	for rows.Next() {
		var w store.WarningRecord

		if err := rows.Scan(
			&w.ComparisonID,
			&w.Code,
			&w.FindingID,
			&w.Message,
		); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}

		warnings = append(warnings, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warnings: %w", err)
	}

	return warnings, nil
}

// ListComparisons retrieves the most recent comparisons, limited by the given
// count. Discrepancy and warning details are not populated; use GetComparison
// for the full record.
func (s *Store) ListComparisons(ctx context.Context, limit int) ([]store.ComparisonRecord, error) {
	query := `
		SELECT comparison_id, timestamp, documents, consistency_score, confidence_level, trivial, total_groups, consistent_groups, degraded_findings
		FROM comparisons
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list comparisons: %w", err)
	}
	defer rows.Close()

	var records []store.ComparisonRecord
	for rows.Next() {
		record, err := scanComparison(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comparisons: %w", err)
	}

	return records, nil
}

// Stats summarizes the stored comparison history.
func (s *Store) Stats(ctx context.Context) (store.ComparisonStats, error) {
	stats := store.ComparisonStats{
		ByRiskLevel: make(map[string]int),
	}

	var avgConsistency sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(consistency_score)
		FROM comparisons
	`).Scan(&stats.TotalComparisons, &avgConsistency)
	if err != nil {
		return store.ComparisonStats{}, fmt.Errorf("failed to get comparison stats: %w", err)
	}

	if avgConsistency.Valid {
		stats.AverageConsistency = avgConsistency.Float64
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT risk_level, COUNT(*)
		FROM discrepancies
		GROUP BY risk_level
	`)
	if err != nil {
		return store.ComparisonStats{}, fmt.Errorf("failed to get risk level stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int

		if err := rows.Scan(&level, &count); err != nil {
			return store.ComparisonStats{}, fmt.Errorf("failed to scan risk level stat: %w", err)
		}

		stats.ByRiskLevel[level] = count
		stats.TotalDiscrepancies += count
	}

	if err := rows.Err(); err != nil {
		return store.ComparisonStats{}, fmt.Errorf("error iterating risk level stats: %w", err)
	}

	return stats, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComparison(row rowScanner) (store.ComparisonRecord, error) {
	var record store.ComparisonRecord
	var timestamp int64
	var documents string
	var trivial int

	if err := row.Scan(
		&record.ComparisonID,
		&timestamp,
		&documents,
		&record.ConsistencyScore,
		&record.ConfidenceLevel,
		&trivial,
		&record.TotalGroups,
		&record.ConsistentGroups,
		&record.DegradedFindings,
	); err != nil {
		return store.ComparisonRecord{}, err
	}

	record.Timestamp = time.Unix(timestamp, 0)
	record.Trivial = trivial == 1

	var err error
	if record.Documents, err = store.DecodeStrings(documents); err != nil {
		return store.ComparisonRecord{}, err
	}

	return record, nil
}
