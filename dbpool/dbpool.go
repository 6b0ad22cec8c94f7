// Package dbpool provides a unified database connection manager that
// abstracts away engine-specific details (SQLite, MySQL) and handles retry
// logic and connection pool settings.
//
// All code that needs a *sql.DB should go through DBManager instead of
// calling sql.Open directly.
package dbpool

import (
	"database/sql"
	"fmt"
)

// Engine identifies the database engine to use.
type Engine string

const (
	EngineSQLite Engine = "sqlite"
	EngineMySQL  Engine = "mysql"
)

// AccessMode controls whether the connection is read-only or read-write.
type AccessMode int

const (
	ModeReadWrite AccessMode = iota
	ModeReadOnly
)

// OpenOptions configures how a database connection is opened.
type OpenOptions struct {
	// Engine to use. Defaults to EngineSQLite if empty.
	Engine Engine
	// Path is the file path for SQLite. For MySQL, this is the DSN string.
	Path string
	// Mode controls read-only vs read-write access.
	Mode AccessMode
	// MaxRetries overrides the default retry count (0 = use default).
	MaxRetries int
	// RetryBaseMs overrides the base retry interval in milliseconds (0 = use default).
	RetryBaseMs int
}

// Logger is a simple logging function signature.
type Logger func(string)

// DBManager is the central connection manager.
type DBManager struct {
	logger Logger
	engine Engine
}

// New creates a new DBManager with the given default engine and logger.
func New(defaultEngine Engine, logger Logger) *DBManager {
	if logger == nil {
		logger = func(string) {}
	}
	if defaultEngine == "" {
		defaultEngine = EngineSQLite
	}
	return &DBManager{engine: defaultEngine, logger: logger}
}

// DefaultEngine returns the manager's default engine.
func (m *DBManager) DefaultEngine() Engine {
	return m.engine
}

// Open opens a database connection with the given options. File-based
// engines get retry logic for lock contention.
func (m *DBManager) Open(opts OpenOptions) (*sql.DB, error) {
	eng := opts.Engine
	if eng == "" {
		eng = m.engine
	}
	switch eng {
	case EngineSQLite:
		return m.openSQLite(opts)
	case EngineMySQL:
		return m.openMySQL(opts)
	}
	return nil, fmt.Errorf("dbpool: unsupported engine %q", eng)
}

func retryParams(opts OpenOptions) (int, int) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	baseMs := opts.RetryBaseMs
	if baseMs <= 0 {
		baseMs = 100
	}
	return maxRetries, baseMs
}

// configurePool applies uniform connection pool settings.
func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
}
