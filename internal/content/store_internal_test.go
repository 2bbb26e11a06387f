package content

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
)

func newInternalStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNew_OpenFailure(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("no driver") }

	_, err := New(Config{DataDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), "open database") {
		t.Fatalf("err = %v, want open database failure", err)
	}
}

func TestPut_BeginFailure(t *testing.T) {
	s := newInternalStore(t)
	s.hooks.beginTx = func(*sql.DB) (*sql.Tx, error) { return nil, errors.New("locked") }

	if _, err := s.Put(PutParams{Key: "a.md", Body: "x"}); err == nil || !strings.Contains(err.Error(), "begin") {
		t.Fatalf("err = %v, want begin failure", err)
	}
}

func TestPut_CommitFailureLeavesNoRow(t *testing.T) {
	s := newInternalStore(t)
	s.hooks.commit = func(tx *sql.Tx) error {
		_ = tx.Rollback()
		return errors.New("disk full")
	}

	if _, err := s.Put(PutParams{Key: "a.md", Body: "x"}); err == nil {
		t.Fatal("Put should fail when commit fails")
	}
	s.hooks.commit = nil
	if _, err := s.Get("a.md"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("row survived failed commit: %v", err)
	}
}

func TestPut_ExecFailure(t *testing.T) {
	s := newInternalStore(t)
	s.hooks.exec = func(execer, string, ...any) (sql.Result, error) { return nil, errors.New("readonly") }

	if _, err := s.Put(PutParams{Key: "a.md", Body: "x"}); err == nil || !strings.Contains(err.Error(), "readonly") {
		t.Fatalf("err = %v, want readonly", err)
	}
}

func TestKeys_QueryFailure(t *testing.T) {
	s := newInternalStore(t)
	s.hooks.query = func(queryer, string, ...any) (*sql.Rows, error) { return nil, errors.New("corrupt") }

	if _, err := s.Keys(); err == nil {
		t.Fatal("Keys should surface query errors")
	}
}

func TestChecksum_Stable(t *testing.T) {
	if checksum("a") != checksum("a") || checksum("a") == checksum("b") {
		t.Fatal("checksum must be deterministic and content-sensitive")
	}
}
