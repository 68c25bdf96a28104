package memstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/edelzer/memory-toolkit/internal/pathval"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "memories"), 0o755); err != nil {
		t.Fatal(err)
	}
	s, err := New(root)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	return s
}

func writeRecord(t *testing.T, s *Store, rel, content string) {
	t.Helper()
	abs := filepath.Join(s.MemoryRoot(), filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewRequiresMemoriesDir(t *testing.T) {
	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("expected error for missing memories directory")
	}
}

func TestScanAllOrderIsDeterministic(t *testing.T) {
	s := newTestStore(t)
	writeRecord(t, s, "project-knowledge/zeta.xml", "<p/>")
	writeRecord(t, s, "session-context/b.xml", "<s/>")
	writeRecord(t, s, "session-context/a.xml", "<s/>")
	writeRecord(t, s, "development-patterns/debugging-solutions.xml", "<p/>")

	files, err := s.ScanAll()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{
		"session-context/a.xml",
		"session-context/b.xml",
		"development-patterns/debugging-solutions.xml",
		"project-knowledge/zeta.xml",
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(files))
	}
	for i, f := range files {
		if f.RelPath != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], f.RelPath)
		}
	}
}

func TestScanSkipsNonXML(t *testing.T) {
	s := newTestStore(t)
	writeRecord(t, s, "session-context/a.xml", "<s/>")
	if err := os.WriteFile(filepath.Join(s.MemoryRoot(), "session-context", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := s.ScanCategory("session-context")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "session-context/a.xml" {
		t.Errorf("expected only the xml record, got %v", files)
	}
}

func TestAccessGoesThroughValidator(t *testing.T) {
	s := newTestStore(t)

	var ve *pathval.ValidationError
	if _, err := s.Read("../outside.xml"); !errors.As(err, &ve) {
		t.Errorf("expected validation error for traversal, got %v", err)
	}
	if _, err := s.Read("scratch/a.xml"); !errors.As(err, &ve) {
		t.Errorf("expected validation error for invalid category, got %v", err)
	}
	if err := s.Remove("session-context/a.txt"); !errors.As(err, &ve) {
		t.Errorf("expected validation error for wrong extension, got %v", err)
	}
}

func TestCopyToArchivePreservesSubPath(t *testing.T) {
	s := newTestStore(t)
	writeRecord(t, s, "client-context/acme.xml", "<client/>")

	bundle := s.ArchivePath("demo-2026")
	n, err := s.CopyToArchive("client-context/acme.xml", bundle)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if n != int64(len("<client/>")) {
		t.Errorf("expected %d bytes copied, got %d", len("<client/>"), n)
	}

	copied, err := os.ReadFile(filepath.Join(bundle, "client-context", "acme.xml"))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(copied) != "<client/>" {
		t.Errorf("unexpected copy content: %q", copied)
	}

	// Original is untouched by a copy.
	if _, err := os.Stat(filepath.Join(s.MemoryRoot(), "client-context", "acme.xml")); err != nil {
		t.Errorf("original should remain: %v", err)
	}
}

func TestCopyToArchiveRejectsEscape(t *testing.T) {
	s := newTestStore(t)
	writeRecord(t, s, "client-context/acme.xml", "<client/>")

	if _, err := s.CopyToArchive("client-context/acme.xml", filepath.Join(s.WorkspaceRoot(), "elsewhere")); err == nil {
		t.Fatal("expected rejection of a destination outside memories/archives")
	}
}
