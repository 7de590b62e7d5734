package querylog

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-faster/errors"
)

const (
	MigrationQueryLogTable = "catalog_query_log.table"
	MigrationQueryLogIndex = "catalog_query_log.session_idx"
)

// CreateMigrationsTable создаёт реестр применённых миграций. В SQLite нет схем,
// поэтому реестр живёт в общей таблице, а не в migrations.migrations.
type CreateMigrationsTable struct{}

func (m *CreateMigrationsTable) UpMigration(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name VARCHAR(255) PRIMARY KEY,
			applied_at_ms BIGINT NOT NULL
		);`)
	if err != nil {
		return errors.Wrap(err, "create schema_migrations table")
	}
	return nil
}

// applyOnce выполняет запросы миграции name, если она ещё не отмечена в реестре.
// Имена миграций являются константами пакета и подставляются в текст запроса.
func applyOnce(db *sql.DB, name string, queries ...string) error {
	var migrationExists bool
	err := db.QueryRow(fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = '%s')", name)).Scan(&migrationExists)
	if err != nil {
		return errors.Wrapf(err, "check migration %q", name)
	}
	if migrationExists {
		log.Printf("Migration '%s' already completed. Skipping.", name)
		return nil
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return errors.Wrapf(err, "execute migration %q", name)
		}
	}

	_, err = db.Exec(fmt.Sprintf("INSERT INTO schema_migrations (name, applied_at_ms) VALUES ('%s', %d)",
		name, time.Now().UnixMilli()))
	if err != nil {
		return errors.Wrapf(err, "mark migration %q as complete", name)
	}
	log.Printf("Migration '%s' completed successfully.", name)
	return nil
}
