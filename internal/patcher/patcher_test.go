package patcher

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"campaignbuilder/internal/composer"
	"campaignbuilder/internal/markup"
)

func TestPatchPrefixesTitleAndReplacesSnippet(t *testing.T) {
	doc := `<html><title>Old</title><body><!-- SNIPPET --><font face="sans-serif">old</font></a></body></html>`
	want := `<html><title>NewOld</title><body><!-- SNIPPET --><font face="sans-serif">Hi</font></a></body></html>`
	if diff := cmp.Diff(want, Patch(doc, "New", "Hi")); diff != "" {
		t.Fatalf("Patch mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchTwiceDuplicatesSubject(t *testing.T) {
	doc := `<title></title><!-- SNIPPET --><font face="sans-serif">x</font>`
	once := Patch(doc, "Promo", "a")
	twice := Patch(once, "Promo", "a")
	if !strings.Contains(once, "<title>Promo</title>") {
		t.Fatalf("first patch: %s", once)
	}
	if !strings.Contains(twice, "<title>PromoPromo</title>") {
		t.Fatalf("second patch should repeat the subject: %s", twice)
	}
	if strings.Count(twice, `<font face="sans-serif">a</font>`) != 1 {
		t.Fatalf("snippet should be replaced, not repeated: %s", twice)
	}
}

func TestPatchWithoutMarkerOnlyTouchesTitle(t *testing.T) {
	doc := `<html><title>Old</title><font face="sans-serif">keep</font></html>`
	got := Patch(doc, "New", "Hi")
	want := strings.Replace(doc, "<title>", "<title>New", 1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Patch mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchMarkerWithoutElementLeavesRest(t *testing.T) {
	tests := []struct {
		name string
		tail string
	}{
		{name: "no element", tail: "<p>plain</p>"},
		{name: "no closing tag", tail: `<font face="sans-serif">dangling`},
		{name: "closing before opening only", tail: `</font><p>x</p>`},
		{name: "other font face", tail: `<font face="serif">old</font>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := "<title>T</title>" + markup.SnippetMarker + tc.tail
			got := Patch(doc, "S", "Hi")
			if want := "<title>ST</title>" + markup.SnippetMarker + tc.tail; got != want {
				t.Fatalf("Patch = %q, want %q", got, want)
			}
		})
	}
}

func TestPatchWithoutTitle(t *testing.T) {
	doc := `<body><!-- SNIPPET --> <font face="sans-serif">old</font> tail</body>`
	want := `<body><!-- SNIPPET --> <font face="sans-serif">Hi</font> tail</body>`
	if got := Patch(doc, "S", "Hi"); got != want {
		t.Fatalf("Patch = %q, want %q", got, want)
	}
}

func TestPatchOnlyFirstElementAfterMarker(t *testing.T) {
	doc := `<font face="sans-serif">before</font><!-- SNIPPET --><font face="sans-serif">one</font><font face="sans-serif">two</font>`
	want := `<font face="sans-serif">before</font><!-- SNIPPET --><font face="sans-serif">Hi</font><font face="sans-serif">two</font>`
	if got := Patch(doc, "S", "Hi"); got != want {
		t.Fatalf("Patch = %q, want %q", got, want)
	}
}

func TestPatchIgnoresTokensInsideValues(t *testing.T) {
	doc := `<title>T</title><!-- SNIPPET --><font face="sans-serif">old</font>`
	got := Patch(doc, markup.SnippetMarker, "<title>")
	want := `<title>` + markup.SnippetMarker + `T</title><!-- SNIPPET --><font face="sans-serif"><title></font>`
	if got != want {
		t.Fatalf("Patch = %q, want %q", got, want)
	}
}

func TestPatchComposedDocument(t *testing.T) {
	doc := composer.Compose(composer.DefaultSkeleton(), composer.Document{Subject: "Old", Snippet: "old snippet"})
	got := Apply(Request{HTML: doc, Subject: "New ", Snippet: "new snippet"})

	want := strings.Replace(doc, "<title>Old", "<title>New Old", 1)
	want = strings.Replace(want, ">old snippet<", ">new snippet<", 1)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Patch mismatch (-want +got):\n%s", diff)
	}
}
