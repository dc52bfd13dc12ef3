package queries

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

type StatusCheckRepository struct {
	db *sql.DB
}

func NewStatusCheckRepository(db *sql.DB) *StatusCheckRepository {
	return &StatusCheckRepository{db: db}
}

// Insert stores a check. The check itself is left untouched since it is
// shared with other event subscribers.
func (r *StatusCheckRepository) Insert(ctx context.Context, check *models.StatusCheck) error {
	query := `
		INSERT INTO status_checks
			(server, status, latest_value, min_threshold, max_threshold,
			 range_start, range_end, row_count, evaluated_at, trace_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		check.Server,
		string(check.Status),
		check.LatestValue,
		check.MinThreshold,
		check.MaxThreshold,
		check.RangeStart,
		check.RangeEnd,
		check.Rows,
		check.EvaluatedAt,
		nullString(check.TraceID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert status check: %w", err)
	}
	return nil
}

// Recent returns the newest checks first. An empty server matches all
// servers.
func (r *StatusCheckRepository) Recent(ctx context.Context, server string, limit int) ([]models.StatusCheck, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, server, status, latest_value, min_threshold, max_threshold,
			   range_start, range_end, row_count, evaluated_at, COALESCE(trace_id, '')
		FROM status_checks
		WHERE ($1 = '' OR server = $1)
		ORDER BY evaluated_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, server, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checks := make([]models.StatusCheck, 0, limit)
	for rows.Next() {
		var (
			c          models.StatusCheck
			status     string
			start, end sql.NullTime
		)
		err := rows.Scan(
			&c.ID, &c.Server, &status, &c.LatestValue, &c.MinThreshold, &c.MaxThreshold,
			&start, &end, &c.Rows, &c.EvaluatedAt, &c.TraceID,
		)
		if err != nil {
			return nil, err
		}
		c.Status = models.Status(status)
		if start.Valid {
			c.RangeStart = &start.Time
		}
		if end.Valid {
			c.RangeEnd = &end.Time
		}
		checks = append(checks, c)
	}

	return checks, rows.Err()
}

// CountByStatus counts checks evaluated since the given time.
func (r *StatusCheckRepository) CountByStatus(ctx context.Context, server string, since time.Time) (map[models.Status]int64, error) {
	query := `
		SELECT status, COUNT(*)
		FROM status_checks
		WHERE ($1 = '' OR server = $1) AND evaluated_at >= $2
		GROUP BY status`

	rows, err := r.db.QueryContext(ctx, query, server, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int64, 3)
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
