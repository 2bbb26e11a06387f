// Package content stores document bodies keyed by canonical key.
//
// It is the document-content collaborator of the resolver: callers resolve
// whatever spelling they hold to a canonical key, then read the body from
// here. Bodies live in SQLite so an index built once survives restarts.
package content

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

var (
	// ErrNotFound is returned when no document is stored under a key.
	ErrNotFound = errors.New("document not found")
	// ErrTooLarge is returned by Put when a body exceeds MaxDocumentBytes.
	ErrTooLarge = errors.New("document too large")
	// ErrEmptyKey is returned by Put for a blank key.
	ErrEmptyKey = errors.New("empty key")
)

// ─── Types ───────────────────────────────────────────────────────────────────

// Document is one stored document body.
type Document struct {
	Key       string `json:"key"`
	Address   string `json:"address,omitempty"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Size      int    `json:"size"`
	Checksum  string `json:"checksum"`
	Revision  int    `json:"revision"`
	IndexedAt string `json:"indexed_at"`
	UpdatedAt string `json:"updated_at"`
}

// PutParams holds the input for storing a document.
type PutParams struct {
	Key     string `json:"key"`
	Address string `json:"address,omitempty"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body"`
}

// Stats holds aggregate store statistics.
type Stats struct {
	TotalDocuments int     `json:"total_documents"`
	TotalBytes     int64   `json:"total_bytes"`
	Addressed      int     `json:"addressed"`
	LastIndexedAt  *string `json:"last_indexed_at,omitempty"`
}

// Matcher finds a key among differently spelled candidates.
// *resolver.Engine satisfies it.
type Matcher interface {
	FindByAnyKey(query string, candidates []string) (string, bool)
	SameEntity(query, candidate string) bool
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds content store configuration.
type Config struct {
	DataDir          string
	MaxDocumentBytes int
}

// DefaultConfig returns the default configuration for the content store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:          filepath.Join(home, ".keysync"),
		MaxDocumentBytes: 1 << 20,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the document store backed by SQLite.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	query   func(db queryer, query string, args ...any) (*sql.Rows, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryHook(db queryer, query string, args ...any) (*sql.Rows, error) {
	if s.hooks.query != nil {
		return s.hooks.query(db, query, args...)
	}
	return db.Query(query, args...)
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a Store under cfg.DataDir, opening documents.db in WAL mode
// and running migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("content: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "documents.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("content: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("content: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("content: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	_, err := s.execHook(s.db, `
		CREATE TABLE IF NOT EXISTS documents (
			key        TEXT PRIMARY KEY,
			address    TEXT,
			title      TEXT    NOT NULL DEFAULT '',
			body       TEXT    NOT NULL,
			size       INTEGER NOT NULL,
			checksum   TEXT    NOT NULL,
			revision   INTEGER NOT NULL DEFAULT 1,
			indexed_at TEXT    NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_documents_address ON documents(address);
		CREATE INDEX IF NOT EXISTS idx_documents_indexed ON documents(indexed_at DESC);
	`)
	return err
}

// ─── Documents ───────────────────────────────────────────────────────────────

const documentColumns = "key, address, title, body, size, checksum, revision, indexed_at, updated_at"

// Put stores a document under its canonical key. Storing an identical body
// again only refreshes indexed_at; a changed body bumps the revision.
func (s *Store) Put(p PutParams) (*Document, error) {
	if strings.TrimSpace(p.Key) == "" {
		return nil, fmt.Errorf("content: put: %w", ErrEmptyKey)
	}
	if s.cfg.MaxDocumentBytes > 0 && len(p.Body) > s.cfg.MaxDocumentBytes {
		return nil, fmt.Errorf("content: put %q (%d bytes): %w", p.Key, len(p.Body), ErrTooLarge)
	}
	if p.Title == "" {
		p.Title = DeriveTitle(p.Key, p.Body)
	}
	sum := checksum(p.Body)
	now := Now()

	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("content: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRow("SELECT checksum FROM documents WHERE key = ?", p.Key).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.execHook(tx,
			`INSERT INTO documents (key, address, title, body, size, checksum, revision, indexed_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			p.Key, nullableString(p.Address), p.Title, p.Body, len(p.Body), sum, now, now,
		)
	case err != nil:
		return nil, fmt.Errorf("content: put %q: %w", p.Key, err)
	case existing == sum:
		_, err = s.execHook(tx,
			`UPDATE documents SET indexed_at = ?, address = COALESCE(?, address) WHERE key = ?`,
			now, nullableString(p.Address), p.Key,
		)
	default:
		_, err = s.execHook(tx,
			`UPDATE documents
			 SET address = COALESCE(?, address), title = ?, body = ?, size = ?, checksum = ?,
			     revision = revision + 1, indexed_at = ?, updated_at = ?
			 WHERE key = ?`,
			nullableString(p.Address), p.Title, p.Body, len(p.Body), sum, now, now, p.Key,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("content: put %q: %w", p.Key, err)
	}

	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("content: commit: %w", err)
	}
	return s.Get(p.Key)
}

// Get returns the document stored under key, or ErrNotFound.
func (s *Store) Get(key string) (*Document, error) {
	var (
		d       Document
		address sql.NullString
	)
	err := s.db.QueryRow("SELECT "+documentColumns+" FROM documents WHERE key = ?", key).Scan(
		&d.Key, &address, &d.Title, &d.Body, &d.Size, &d.Checksum, &d.Revision, &d.IndexedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("content: %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("content: get %q: %w", key, err)
	}
	d.Address = address.String
	return &d, nil
}

// Delete removes the document stored under key, or returns ErrNotFound.
func (s *Store) Delete(key string) error {
	res, err := s.execHook(s.db, "DELETE FROM documents WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("content: delete %q: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("content: %q: %w", key, ErrNotFound)
	}
	return nil
}

// Keys returns every stored key in ascending order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.queryHook(s.db, "SELECT key FROM documents ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("content: keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("content: keys: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Lookup finds the document for any spelling of its key: the exact key
// first, then the stored key m considers the same entity.
func (s *Store) Lookup(m Matcher, spelling string) (*Document, error) {
	doc, err := s.Get(spelling)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return doc, err
	}

	keys, err := s.Keys()
	if err != nil {
		return nil, err
	}
	key, ok := m.FindByAnyKey(spelling, keys)
	if !ok || !m.SameEntity(spelling, key) {
		return nil, fmt.Errorf("content: %q: %w", spelling, ErrNotFound)
	}
	return s.Get(key)
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate store statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var last sql.NullString
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(size), 0), COUNT(address), MAX(indexed_at)
		FROM documents`,
	).Scan(&stats.TotalDocuments, &stats.TotalBytes, &stats.Addressed, &last)
	if err != nil {
		return nil, fmt.Errorf("content: stats: %w", err)
	}
	if last.Valid {
		stats.LastIndexedAt = &last.String
	}
	return stats, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// DeriveTitle returns the first markdown heading of body, or the key's
// filename without extension.
func DeriveTitle(key, body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if t := strings.TrimSpace(strings.TrimLeft(line, "#")); t != "" {
				return t
			}
		}
	}
	name := key
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func checksum(body string) string {
	h := sha256.Sum256([]byte(body))
	return hex.EncodeToString(h[:])
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const timeLayout = "2006-01-02 15:04:05"

// Now returns the current time formatted for SQLite.
func Now() string {
	return time.Now().UTC().Format(timeLayout)
}
