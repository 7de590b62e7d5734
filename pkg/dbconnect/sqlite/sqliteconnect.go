package sqlite

import (
	"database/sql"
	"sync"

	"github.com/go-faster/errors"
	_ "modernc.org/sqlite"

	"catalog_browser/config"
)

// SqliteDatabase хранит журнал запросов в локальном файле, когда PostgreSQL не нужен.
type SqliteDatabase struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// NewSqliteConnector принимает путь к файлу или ":memory:".
func NewSqliteConnector(path string) *SqliteDatabase {
	return &SqliteDatabase{path: path}
}

func (s *SqliteDatabase) Driver() string {
	return config.DriverSqlite
}

func (s *SqliteDatabase) Connect() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// один writer; для ":memory:" каждое соединение получило бы свою базу
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlite")
	}
	s.db = db
	return s.db, nil
}

func (s *SqliteDatabase) Ping() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return errors.New("database connection is not established")
	}
	return s.db.Ping()
}

func (s *SqliteDatabase) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
