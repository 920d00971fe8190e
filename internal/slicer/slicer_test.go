package slicer

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"campaignbuilder/internal/domain"
)

type memStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	failAt int
	writes int
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (m *memStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.failAt > 0 && m.writes == m.failAt {
		return "", errors.New("disk full")
	}
	m.files[key] = append([]byte(nil), data...)
	return key, nil
}

func testJob() domain.Job {
	return domain.Job{ID: "a1b2c3d4", CreatedAt: time.Date(2024, time.November, 29, 10, 0, 0, 0, time.UTC)}
}

func TestSliceNamesAndPersistsBlocks(t *testing.T) {
	store := newMemStore()
	img := domain.UploadedImage{Filename: "arte.jpg", Data: []byte("jpeg-bytes"), Extension: ".jpg"}

	blocks, err := New(store).Slice(context.Background(), testJob(), img, "black-friday")
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if len(blocks) != DefaultBlockCount {
		t.Fatalf("expected %d blocks, got %d", DefaultBlockCount, len(blocks))
	}
	pattern := regexp.MustCompile(`^20241129_black-friday-(\d+)\.jpg$`)
	seen := make(map[string]struct{})
	for i, b := range blocks {
		m := pattern.FindStringSubmatch(b.FileName)
		if m == nil {
			t.Fatalf("block %d name %q does not match pattern", i, b.FileName)
		}
		if ord, _ := strconv.Atoi(m[1]); ord != i+1 || b.Ordinal != i+1 {
			t.Fatalf("block %d has ordinal %d / %s", i, b.Ordinal, m[1])
		}
		if _, dup := seen[b.FileName]; dup {
			t.Fatalf("duplicate block name %q", b.FileName)
		}
		seen[b.FileName] = struct{}{}
		data, ok := store.files["job_a1b2c3d4/imagens/"+b.FileName]
		if !ok || string(data) != "jpeg-bytes" {
			t.Fatalf("block %q not persisted with source bytes", b.FileName)
		}
	}
	if want := "Block 2 of campaign black friday"; blocks[1].AltText != want {
		t.Fatalf("AltText = %q, want %q", blocks[1].AltText, want)
	}
}

func TestSliceHonoursCount(t *testing.T) {
	blocks, err := New(newMemStore(), WithCount(5)).Slice(context.Background(), testJob(), domain.UploadedImage{Data: []byte("x"), Extension: ".png"}, "promo")
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	if len(blocks) != 5 || blocks[4].FileName != "20241129_promo-5.png" {
		t.Fatalf("unexpected blocks: %#v", blocks)
	}
}

func TestSliceWriteFailureIsStorageError(t *testing.T) {
	store := newMemStore()
	store.failAt = 2
	blocks, err := New(store).Slice(context.Background(), testJob(), domain.UploadedImage{Data: []byte("x"), Extension: ".png"}, "promo")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if blocks != nil {
		t.Fatalf("expected no blocks on failure, got %#v", blocks)
	}
}

func TestSliceRejectsEmptyLabel(t *testing.T) {
	store := newMemStore()
	_, err := New(store).Slice(context.Background(), testJob(), domain.UploadedImage{Data: []byte("x")}, " ")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.writes != 0 {
		t.Fatalf("expected no writes, got %d", store.writes)
	}
}

type halfCutter struct{}

func (halfCutter) Cut(_ context.Context, img domain.UploadedImage, n int) ([][]byte, error) {
	parts := make([][]byte, n)
	for i := range parts {
		parts[i] = []byte{img.Data[i]}
	}
	return parts, nil
}

func TestSliceUsesInjectedCutter(t *testing.T) {
	store := newMemStore()
	blocks, err := New(store, WithCutter(halfCutter{})).Slice(context.Background(), testJob(), domain.UploadedImage{Data: []byte("abc"), Extension: ".png"}, "promo")
	if err != nil {
		t.Fatalf("Slice error: %v", err)
	}
	for i, b := range blocks {
		if got := string(store.files["job_a1b2c3d4/imagens/"+b.FileName]); got != string("abc"[i]) {
			t.Fatalf("block %d bytes = %q", i, got)
		}
	}
}
