package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/HendryAvila/keysync/internal/content"
)

type failingSource struct{ err error }

func (f failingSource) Document(context.Context, string) (*content.Document, error) {
	return nil, f.err
}

func TestFileSource_ReadsAnySpelling(t *testing.T) {
	e := newTestEngine(t, map[string]string{registryKey: "# Registry Standard\n- [ ] one\n"})
	src := content.FileSource{Resolver: e}

	for _, sp := range []string{"../" + registryKey, "abstract://standard:registry", e.Root() + "/" + registryKey} {
		doc, err := src.Document(context.Background(), sp)
		if err != nil {
			t.Fatalf("Document(%q): %v", sp, err)
		}
		if doc.Key != registryKey {
			t.Errorf("Document(%q).Key = %q", sp, doc.Key)
		}
		if doc.Address != "abstract://standard:registry" {
			t.Errorf("Document(%q).Address = %q", sp, doc.Address)
		}
		if doc.Title != "Registry Standard" {
			t.Errorf("Document(%q).Title = %q", sp, doc.Title)
		}
	}
}

func TestFileSource_Misses(t *testing.T) {
	e := newTestEngine(t, map[string]string{registryKey: "x", "dir/keep.md": "x"})
	src := content.FileSource{Resolver: e}

	for _, sp := range []string{"", "abstract://standard:does_not_exist", "ghost.md", "dir"} {
		if _, err := src.Document(context.Background(), sp); !errors.Is(err, content.ErrNotFound) {
			t.Errorf("Document(%q): err = %v, want ErrNotFound", sp, err)
		}
	}
}

func TestFileSource_TooLarge(t *testing.T) {
	e := newTestEngine(t, map[string]string{"big.md": "0123456789"})
	src := content.FileSource{Resolver: e, MaxBytes: 5}

	if _, err := src.Document(context.Background(), "big.md"); !errors.Is(err, content.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestFileSource_CancelledContext(t *testing.T) {
	e := newTestEngine(t, map[string]string{"a.md": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (content.FileSource{Resolver: e}).Document(ctx, "a.md"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLayered_FallsThroughToFiles(t *testing.T) {
	e := newTestEngine(t, map[string]string{registryKey: "from disk", "todo/a.md": "todo"})
	s := newTestStore(t)
	mustPut(t, s, content.PutParams{Key: registryKey, Body: "from store"})

	src := content.Layered{
		content.StoreSource{Store: s, Matcher: e},
		content.FileSource{Resolver: e},
	}

	doc, err := src.Document(context.Background(), "abstract://standard:registry")
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if doc.Body != "from store" {
		t.Errorf("body = %q, want store copy first", doc.Body)
	}

	doc, err = src.Document(context.Background(), "todo/a.md")
	if err != nil {
		t.Fatalf("todo: %v", err)
	}
	if doc.Body != "todo" {
		t.Errorf("body = %q, want file fallback", doc.Body)
	}

	if _, err := src.Document(context.Background(), "nowhere.md"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("miss: err = %v, want ErrNotFound", err)
	}
}

func TestLayered_ReportsFirstRealError(t *testing.T) {
	boom := errors.New("boom")
	src := content.Layered{
		failingSource{err: content.ErrNotFound},
		failingSource{err: boom},
		failingSource{err: content.ErrNotFound},
	}

	if _, err := src.Document(context.Background(), "a.md"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
