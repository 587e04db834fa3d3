/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Persists the transaction ledger and the settings document in one SQLite
  file so the bank survives restarts.

INTERFACES IMPLEMENTED:
  bank.Store:              Transaction persistence
  household.SettingsStore: The single settings row

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the transactions table
  - No DELETE statements on the transactions table
  - transactions.id is the primary key, so a replayed interest period
    fails with bank.ErrDuplicateTransaction instead of paying twice

KEY TABLES:
  transactions: Immutable ledger, one row per deposit/withdraw/interest
  settings:     One row (id = 1) holding the factory JSON document

ORDERING:
  Rows are loaded by timestamp_ms, ties broken by insertion order (seq).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's own locking.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/timebank.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  ledger := bank.NewLedger(store)

SEE ALSO:
  - bank/store.go: Store interface
  - bank/store/memory.go: In-memory implementation for testing
  - factory/settings.go: Settings document format
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/factory"
	"github.com/warp/timebank/household"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Store implements bank.Store and household.SettingsStore using SQLite.
type Store struct {
	db       *sql.DB
	mu       sync.RWMutex
	settings *factory.SettingsFactory
}

// New creates a new SQLite store with the given database path.
// Use MemoryPath for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, settings: factory.NewSettingsFactory()}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		subject_id TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('deposit', 'withdraw', 'interest')),
		amount INTEGER NOT NULL CHECK (amount >= 0),
		base_amount INTEGER NOT NULL DEFAULT 0,
		multiplier TEXT,
		category TEXT,
		timestamp_ms INTEGER NOT NULL,
		note TEXT,
		message TEXT,
		created_at TEXT NOT NULL
	);

	-- Per-subject history in time order (hot path for balance and accrual)
	CREATE INDEX IF NOT EXISTS idx_transactions_subject_time
		ON transactions(subject_id, timestamp_ms, seq);

	-- Settings document (single row)
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTION STORE (bank.Store interface)
// =============================================================================

// Append adds a transaction to the ledger.
func (s *Store) Append(ctx context.Context, tx bank.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendTx(ctx, s.db, tx)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) appendTx(ctx context.Context, db execer, tx bank.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, subject_id, kind, amount, base_amount, multiplier, category,
		 timestamp_ms, note, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		tx.ID,
		tx.SubjectID,
		tx.Kind,
		tx.Amount,
		tx.BaseAmount,
		tx.Multiplier,
		nullString(tx.Category),
		int64(tx.Timestamp),
		nullString(tx.Note),
		nullString(tx.Message),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %s", bank.ErrDuplicateTransaction, tx.ID)
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// AppendBatch adds multiple transactions atomically.
func (s *Store) AppendBatch(ctx context.Context, txs []bank.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, tx := range txs {
		if err := s.appendTx(ctx, sqlTx, tx); err != nil {
			return err
		}
	}

	return sqlTx.Commit()
}

const selectTransactions = `
	SELECT id, subject_id, kind, amount, base_amount, multiplier, category,
	       timestamp_ms, note, message
	FROM transactions
`

// Load returns all transactions for a subject in time order.
func (s *Store) Load(ctx context.Context, subjectID bank.SubjectID) ([]bank.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryTransactions(ctx,
		selectTransactions+` WHERE subject_id = ? ORDER BY timestamp_ms ASC, seq ASC`,
		subjectID)
}

// Exists checks if a transaction ID exists.
func (s *Store) Exists(ctx context.Context, id bank.TransactionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE id = ?",
		id,
	).Scan(&count)

	return count > 0, err
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...any) ([]bank.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []bank.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func scanTransaction(rows *sql.Rows) (bank.Transaction, error) {
	var (
		tx          bank.Transaction
		timestampMs int64
		category    sql.NullString
		note        sql.NullString
		message     sql.NullString
	)

	err := rows.Scan(
		&tx.ID, &tx.SubjectID, &tx.Kind, &tx.Amount, &tx.BaseAmount, &tx.Multiplier,
		&category, &timestampMs, &note, &message,
	)
	if err != nil {
		return tx, fmt.Errorf("failed to scan transaction: %w", err)
	}

	tx.Timestamp = bank.Timestamp(timestampMs)
	tx.Category = category.String
	tx.Note = note.String
	tx.Message = message.String

	return tx, nil
}

// =============================================================================
// SETTINGS STORE (household.SettingsStore interface)
// =============================================================================

// LoadSettings returns the stored settings, or found=false if none were saved.
func (s *Store) LoadSettings(ctx context.Context) (household.Settings, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configJSON string
	err := s.db.QueryRowContext(ctx, "SELECT config_json FROM settings WHERE id = 1").Scan(&configJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return household.Settings{}, false, nil
	}
	if err != nil {
		return household.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	settings, err := s.settings.ParseSettings([]byte(configJSON))
	if err != nil {
		return household.Settings{}, false, fmt.Errorf("stored settings are invalid: %w", err)
	}
	return settings, true, nil
}

// SaveSettings replaces the stored settings.
func (s *Store) SaveSettings(ctx context.Context, settings household.Settings) error {
	data, err := s.settings.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (id, config_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET config_json = excluded.config_json, updated_at = excluded.updated_at
	`, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// ResetSettings deletes the stored settings so defaults apply again.
// The transactions table is not touched.
func (s *Store) ResetSettings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings"); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
