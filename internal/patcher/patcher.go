// Package patcher rewrites the subject and snippet regions of a generated
// campaign document without parsing it. Regions are located by literal token
// search and every byte outside them is copied unchanged.
package patcher

import (
	"strings"

	"campaignbuilder/internal/markup"
)

// Request is a stateless patch request.
type Request struct {
	HTML    string
	Subject string
	Snippet string
}

// Apply patches req.HTML. See Patch.
func Apply(req Request) string {
	return Patch(req.HTML, req.Subject, req.Snippet)
}

// Patch returns doc with subject inserted right after the first <title> tag
// and the first snippet element after the marker replaced by one holding
// snippet.
//
// Existing title text is kept: the subject is prefixed, so patching twice with
// the same subject repeats it. A missing <title>, marker, opening tag or
// closing tag leaves that region untouched; Patch never fails.
func Patch(doc, subject, snippet string) string {
	var edits []edit
	if i := strings.Index(doc, markup.TitleOpen); i >= 0 {
		at := i + len(markup.TitleOpen)
		edits = append(edits, edit{start: at, end: at, text: subject})
	}
	if start, end, ok := snippetSpan(doc); ok {
		edits = append(edits, edit{start: start, end: end, text: markup.SnippetOpen + snippet + markup.SnippetClose})
	}
	return apply(doc, edits)
}

// snippetSpan locates the open-tag-through-close-tag span of the first
// snippet element after the marker.
func snippetSpan(doc string) (start, end int, ok bool) {
	m := strings.Index(doc, markup.SnippetMarker)
	if m < 0 {
		return 0, 0, false
	}
	after := m + len(markup.SnippetMarker)
	open := strings.Index(doc[after:], markup.SnippetOpen)
	if open < 0 {
		return 0, 0, false
	}
	start = after + open
	closing := strings.Index(doc[start+len(markup.SnippetOpen):], markup.SnippetClose)
	if closing < 0 {
		return 0, 0, false
	}
	end = start + len(markup.SnippetOpen) + closing + len(markup.SnippetClose)
	return start, end, true
}

type edit struct {
	start, end int
	text       string
}

// apply performs non-overlapping edits computed against the original doc.
// An insertion falling strictly inside a replaced span is dropped.
func apply(doc string, edits []edit) string {
	if len(edits) == 0 {
		return doc
	}
	if len(edits) == 2 {
		a, b := edits[0], edits[1]
		if a.start > b.start {
			a, b = b, a
		}
		if a.end > b.start {
			return doc[:a.start] + a.text + doc[a.end:]
		}
		edits = []edit{a, b}
	}
	var sb strings.Builder
	last := 0
	for _, e := range edits {
		sb.WriteString(doc[last:e.start])
		sb.WriteString(e.text)
		last = e.end
	}
	sb.WriteString(doc[last:])
	return sb.String()
}
