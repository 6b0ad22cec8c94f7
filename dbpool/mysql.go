package dbpool

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// openMySQL opens a MySQL connection. Network engines get no file-lock
// retry loop; the driver handles transient reconnects itself.
func (m *DBManager) openMySQL(opts OpenOptions) (*sql.DB, error) {
	db, err := sql.Open("mysql", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("dbpool: failed to open MySQL: %w", err)
	}

	configurePool(db)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("dbpool: failed to ping MySQL: %w", err)
	}
	return db, nil
}
