package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	rel, err := s.Save(ctx, "7KD3QX2M", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rel != "reports/7KD3QX2M/photo.jpg" {
		t.Fatalf("unexpected relative path %q", rel)
	}

	got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading stored photo: %v", err)
	}
	if string(got) != "jpeg-bytes" {
		t.Fatalf("unexpected content %q", got)
	}

	// reemplazo: queda solo la última
	if _, err := s.Save(ctx, "7KD3QX2M", []byte("second")); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(root, "reports", "7KD3QX2M"))
	if len(entries) != 1 {
		t.Fatalf("expected only photo.jpg, got %d entries", len(entries))
	}

	if err := s.Delete(ctx, "7KD3QX2M"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "reports", "7KD3QX2M")); !os.IsNotExist(err) {
		t.Fatalf("photo dir should be gone, stat err=%v", err)
	}
	if err := s.Delete(ctx, "7KD3QX2M"); err != nil {
		t.Fatalf("Delete of missing dir should be a no-op: %v", err)
	}
}

func TestSave_RejectsBadCodes(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, code := range []string{"", "../etc", "7kd3qx2m", "ABC/DEF1"} {
		if _, err := s.Save(context.Background(), code, []byte("x")); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("code %q: expected ErrInvalidCode, got %v", code, err)
		}
	}
}

func TestNew_RequiresRoot(t *testing.T) {
	if _, err := New(" "); !errors.Is(err, ErrNoRoot) {
		t.Fatalf("expected ErrNoRoot, got %v", err)
	}
}
