package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"campaignbuilder/internal/domain"
)

func TestFileStoreWriteRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx := context.Background()
	key, err := store.Write(ctx, "./job_a1/imagens/x.png", []byte("img"))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if key != "job_a1/imagens/x.png" {
		t.Fatalf("unexpected key %q", key)
	}
	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(data) != "img" {
		t.Fatalf("Read = %q", data)
	}
}

func TestFileStoreReadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx := context.Background()
	if err := store.EnsureDir(ctx, "job_a1"); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	for _, key := range []string{"job_a1/missing.html", "job_a1"} {
		if _, err := store.Read(ctx, key); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Read(%q) expected ErrNotFound, got %v", key, err)
		}
	}
}

func TestFileStoreEnsureDir(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if err := store.EnsureDir(context.Background(), "job_a1/imagens"); err != nil {
		t.Fatalf("EnsureDir error: %v", err)
	}
	info, err := os.Stat(filepath.Join(base, "job_a1", "imagens"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory, got %v", err)
	}
}

func TestFileStoreWriteFailureIsStorageError(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	// a regular file where a directory is expected
	if err := os.WriteFile(filepath.Join(base, "job_a1"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	if _, err := store.Write(context.Background(), "job_a1/f.html", []byte("x")); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestFileStoreCancelledContextIsStorageError(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := map[string]func() error{
		"write":  func() error { _, err := store.Write(ctx, "job_a1/x.html", []byte("x")); return err },
		"read":   func() error { _, err := store.Read(ctx, "job_a1/x.html"); return err },
		"ensure": func() error { return store.EnsureDir(ctx, "job_a1") },
	}
	for name, call := range calls {
		err := call()
		if got := domain.ErrorKind(err); got != "storage_error" {
			t.Fatalf("%s: kind = %q (%v), want storage_error", name, got, err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: cause lost: %v", name, err)
		}
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "job_a1/f.html", want: "job_a1/f.html"},
		{key: "/job_a1//f.html", want: "job_a1/f.html"},
		{key: `job_a1\imagens\x.png`, want: "job_a1/imagens/x.png"},
		{key: "../etc/passwd", wantErr: true},
		{key: "job_a1/../../x", wantErr: true},
		{key: " ", wantErr: true},
		{key: ".", wantErr: true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.key)
		if tc.wantErr {
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("sanitizeKey(%q) expected ErrInvalidInput, got %q, %v", tc.key, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, %v; want %q", tc.key, got, err, tc.want)
		}
	}
}
