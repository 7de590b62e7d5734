package querylog

import (
	"database/sql"

	"catalog_browser/pkg/dbconnect/migration"
)

// CreateQueryLogTable создаёт таблицу журнала запросов. DDL общий для PostgreSQL
// и SQLite, поэтому время хранится в миллисекундах.
type CreateQueryLogTable struct{}

func (m *CreateQueryLogTable) UpMigration(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_query_log (
		id VARCHAR(36) PRIMARY KEY,
		session_id VARCHAR(36) NOT NULL,
		action VARCHAR(32) NOT NULL,
		endpoint VARCHAR(32) NOT NULL,
		params TEXT NOT NULL,
		result_count INT NOT NULL,
		display_total INT NOT NULL,
		fallback_used BOOLEAN NOT NULL,
		error TEXT NOT NULL,
		created_at_ms BIGINT NOT NULL
	);`
	return applyOnce(db, MigrationQueryLogTable, query)
}

type CreateQueryLogSessionIndex struct{}

func (m *CreateQueryLogSessionIndex) UpMigration(db *sql.DB) error {
	query := `
	CREATE INDEX IF NOT EXISTS catalog_query_log_session_idx
		ON catalog_query_log (session_id, created_at_ms);`
	return applyOnce(db, MigrationQueryLogIndex, query)
}

func All() []migration.MigrationInterface {
	return []migration.MigrationInterface{
		&CreateMigrationsTable{},
		&CreateQueryLogTable{},
		&CreateQueryLogSessionIndex{},
	}
}
