package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Database wraps a *sql.DB providing higher-level helper methods for the
// admin server's own durable state: admin sessions and key/value settings.
// All platform content lives behind the remote backends; nothing here is an
// authoritative copy of it.
type Database struct {
	conn   *sql.DB
	logger *logrus.Logger

	// Prepared statements for the hot paths
	insertSessionStmt  *sql.Stmt
	getSessionStmt     *sql.Stmt
	deleteSessionStmt  *sql.Stmt
	refreshSessionStmt *sql.Stmt
	getSettingStmt     *sql.Stmt
	setSettingStmt     *sql.Stmt
}

// SessionRecord is a persisted admin session row.
type SessionRecord struct {
	ID        string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewDatabase opens (or creates) a SQLite database at the provided path and
// ensures all required tables exist. It applies lightweight
// performance-oriented pragmas (WAL, cache sizing). Caller should Close() it
// when finished.
func NewDatabase(dbPath string) (*Database, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works better with fewer connections
	conn.SetMaxOpenConns(5)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(15 * time.Minute)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=memory;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	db := &Database{
		conn:   conn,
		logger: logger,
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("db_path", dbPath).Info("Database initialized successfully")
	return db, nil
}

// createTables creates tables if they do not already exist. Idempotent.
func (db *Database) createTables() error {
	sessionsTable := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL
	);`

	settingsTable := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	indices := []string{
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);",
	}

	for _, stmt := range []string{sessionsTable, settingsTable} {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}
	for _, idx := range indices {
		if _, err := db.conn.Exec(idx); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) prepareStatements() error {
	var err error

	if db.insertSessionStmt, err = db.conn.Prepare(
		"INSERT INTO sessions (id, email, created_at, expires_at) VALUES (?, ?, ?, ?)"); err != nil {
		return err
	}
	if db.getSessionStmt, err = db.conn.Prepare(
		"SELECT id, email, created_at, expires_at FROM sessions WHERE id = ?"); err != nil {
		return err
	}
	if db.deleteSessionStmt, err = db.conn.Prepare(
		"DELETE FROM sessions WHERE id = ?"); err != nil {
		return err
	}
	if db.refreshSessionStmt, err = db.conn.Prepare(
		"UPDATE sessions SET expires_at = ? WHERE id = ?"); err != nil {
		return err
	}
	if db.getSettingStmt, err = db.conn.Prepare(
		"SELECT value FROM settings WHERE key = ?"); err != nil {
		return err
	}
	if db.setSettingStmt, err = db.conn.Prepare(
		"INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) " +
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP"); err != nil {
		return err
	}

	return nil
}

// InsertSession stores a new admin session.
func (db *Database) InsertSession(rec SessionRecord) error {
	_, err := db.insertSessionStmt.Exec(rec.ID, rec.Email, rec.CreatedAt, rec.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id. Returns sql.ErrNoRows when absent.
func (db *Database) GetSession(id string) (SessionRecord, error) {
	var rec SessionRecord
	err := db.getSessionStmt.QueryRow(id).Scan(&rec.ID, &rec.Email, &rec.CreatedAt, &rec.ExpiresAt)
	if err != nil {
		return SessionRecord{}, err
	}
	return rec, nil
}

// DeleteSession removes a session.
func (db *Database) DeleteSession(id string) error {
	_, err := db.deleteSessionStmt.Exec(id)
	return err
}

// RefreshSession extends a session's expiry.
func (db *Database) RefreshSession(id string, expiresAt time.Time) error {
	res, err := db.refreshSessionStmt.Exec(expiresAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteExpiredSessions drops all sessions that expired before now. Returns
// the number of rows removed.
func (db *Database) DeleteExpiredSessions() (int64, error) {
	res, err := db.conn.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetSetting returns a settings value, or ok=false when the key is unset.
func (db *Database) GetSetting(key string) (string, bool, error) {
	var value string
	err := db.getSettingStmt.QueryRow(key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting upserts a settings value.
func (db *Database) SetSetting(key, value string) error {
	_, err := db.setSettingStmt.Exec(key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// Close closes prepared statements and the underlying connection.
func (db *Database) Close() error {
	stmts := []*sql.Stmt{
		db.insertSessionStmt,
		db.getSessionStmt,
		db.deleteSessionStmt,
		db.refreshSessionStmt,
		db.getSettingStmt,
		db.setSettingStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return db.conn.Close()
}
