package naming

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"campaignbuilder/internal/domain"
)

func TestHTMLFileNamePreservesAccents(t *testing.T) {
	got, err := HTMLFileName("Promo Verão", "a1b2c3d4")
	if err != nil {
		t.Fatalf("HTMLFileName error: %v", err)
	}
	if want := "promo-verão-a1b2c3d4.html"; got != want {
		t.Fatalf("HTMLFileName = %q, want %q", got, want)
	}
}

func TestZipFileName(t *testing.T) {
	got, err := ZipFileName("Shopping Center Norte", "a1b2c3d4")
	if err != nil {
		t.Fatalf("ZipFileName error: %v", err)
	}
	if want := "shopping-center-norte-a1b2c3d4-imagens.zip"; got != want {
		t.Fatalf("ZipFileName = %q, want %q", got, want)
	}
}

func TestNamesRejectInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (string, error)
	}{
		{name: "empty label", fn: func() (string, error) { return HTMLFileName("", "abc") }},
		{name: "blank label", fn: func() (string, error) { return ZipFileName("   ", "abc") }},
		{name: "empty token", fn: func() (string, error) { return HTMLFileName("Promo", " ") }},
		{name: "label with slash", fn: func() (string, error) { return Slug("../etc") }},
		{name: "empty event", fn: func() (string, error) { return BlockFileName(time.Now(), "", 1, ".png") }},
		{name: "zero ordinal", fn: func() (string, error) { return BlockFileName(time.Now(), "promo", 0, ".png") }},
		{name: "quoted extension", fn: func() (string, error) { return BlockFileName(time.Now(), "promo", 1, `.p"onerror="x`) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %q, %v", got, err)
			}
		})
	}
}

func TestBlockFileName(t *testing.T) {
	date := time.Date(2024, time.March, 7, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		ext  string
		want string
	}{
		{ext: ".jpg", want: "20240307_black-friday-2.jpg"},
		{ext: "png", want: "20240307_black-friday-2.png"},
		{ext: "", want: "20240307_black-friday-2"},
	}
	for _, tc := range tests {
		got, err := BlockFileName(date, "black-friday", 2, tc.ext)
		if err != nil {
			t.Fatalf("BlockFileName(%q) error: %v", tc.ext, err)
		}
		if got != tc.want {
			t.Fatalf("BlockFileName(%q) = %q, want %q", tc.ext, got, tc.want)
		}
	}
}

func TestJobID(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{8}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := JobID()
		if !pattern.MatchString(id) {
			t.Fatalf("JobID() = %q, want 8 hex chars", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) < 99 {
		t.Fatalf("JobID produced too many duplicates: %d unique of 100", len(seen))
	}
}

func TestPaths(t *testing.T) {
	if got := ArchiveEntry("x.png"); got != "imagens/x.png" {
		t.Fatalf("ArchiveEntry = %q", got)
	}
	if got := ImageDir("a1b2c3d4"); got != "job_a1b2c3d4/imagens" {
		t.Fatalf("ImageDir = %q", got)
	}
	if got := JobKey("a1b2c3d4", "f.html"); got != "job_a1b2c3d4/f.html" {
		t.Fatalf("JobKey = %q", got)
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"arte.JPG":              ".jpg",
		`C:\fotos\arte.png`:     ".png",
		"arte":                  ".png",
		"arte.":                 ".png",
		"banner.final.webp":     ".webp",
		`x.p"onerror="alert(1)`: ".png",
		"x.p<b>":                ".png",
	}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Fatalf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
