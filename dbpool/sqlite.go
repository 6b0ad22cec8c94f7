package dbpool

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// openSQLite opens a SQLite database with retry logic. WAL mode keeps
// concurrent readers cheap, but SQLITE_BUSY still needs retries on Windows.
func (m *DBManager) openSQLite(opts OpenOptions) (*sql.DB, error) {
	maxRetries, baseMs := retryParams(opts)

	connStr := opts.Path + "?_journal_mode=WAL&_busy_timeout=5000"
	if opts.Mode == ModeReadOnly {
		connStr += "&mode=ro"
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		db, err := sql.Open("sqlite", connStr)
		if err != nil {
			lastErr = err
			m.logger(fmt.Sprintf("[dbpool] SQLite open attempt %d/%d failed: %v", i+1, maxRetries, err))
			time.Sleep(time.Duration(baseMs*(i+1)) * time.Millisecond)
			continue
		}

		configurePool(db)

		if err := db.Ping(); err != nil {
			db.Close()
			lastErr = err
			m.logger(fmt.Sprintf("[dbpool] SQLite ping attempt %d/%d failed: %v", i+1, maxRetries, err))
			time.Sleep(time.Duration(baseMs*(i+1)) * time.Millisecond)
			continue
		}

		return db, nil
	}

	return nil, fmt.Errorf("dbpool: failed to open SQLite %q after %d retries: %w", opts.Path, maxRetries, lastErr)
}
