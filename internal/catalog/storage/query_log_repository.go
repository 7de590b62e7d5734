package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"catalog_browser/config"
)

// QueryRecord is one applied (or failed) catalog query.
type QueryRecord struct {
	ID           string
	SessionID    string
	Action       string
	Endpoint     string
	Params       string
	ResultCount  int
	DisplayTotal int
	FallbackUsed bool
	Error        string
	CreatedAt    time.Time
}

type QueryLogRepository struct {
	db     *sql.DB
	driver string
}

func NewQueryLogRepository(db *sql.DB, driver string) *QueryLogRepository {
	return &QueryLogRepository{db: db, driver: driver}
}

// bind переписывает $n плейсхолдеры в ? для SQLite.
func (r *QueryLogRepository) bind(query string) string {
	if r.driver != config.DriverSqlite {
		return query
	}
	for i := 10; i >= 1; i-- {
		query = strings.ReplaceAll(query, "$"+strconv.Itoa(i), "?")
	}
	return query
}

func (r *QueryLogRepository) Record(ctx context.Context, rec QueryRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := r.bind(`
		INSERT INTO catalog_query_log
			(id, session_id, action, endpoint, params, result_count, display_total, fallback_used, error, created_at_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`)

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SessionID, rec.Action, rec.Endpoint, rec.Params,
		rec.ResultCount, rec.DisplayTotal, rec.FallbackUsed, rec.Error, rec.CreatedAt.UnixMilli())
	if err != nil {
		return errors.Wrap(err, "insert query log")
	}
	return nil
}

// Recent returns the latest records of a session, newest first.
func (r *QueryLogRepository) Recent(ctx context.Context, sessionID string, limit int) ([]QueryRecord, error) {
	query := r.bind(`
		SELECT id, session_id, action, endpoint, params, result_count, display_total, fallback_used, error, created_at_ms
		FROM catalog_query_log
		WHERE session_id = $1
		ORDER BY created_at_ms DESC, id
		LIMIT $2`)

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "select query log")
	}
	defer rows.Close()

	var records []QueryRecord
	for rows.Next() {
		var (
			rec       QueryRecord
			createdMs int64
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Action, &rec.Endpoint, &rec.Params,
			&rec.ResultCount, &rec.DisplayTotal, &rec.FallbackUsed, &rec.Error, &createdMs); err != nil {
			return nil, errors.Wrap(err, "scan query log")
		}
		rec.CreatedAt = time.UnixMilli(createdMs)
		records = append(records, rec)
	}
	return records, rows.Err()
}
