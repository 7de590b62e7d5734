package dbconnect

import "database/sql"

type Database interface {
	Connect() (*sql.DB, error)
	Ping() error
	Close() error
	// Driver возвращает имя драйвера, от него зависит синтаксис плейсхолдеров.
	Driver() string
}
