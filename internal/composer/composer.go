// Package composer renders campaign HTML documents from a skeleton, a subject,
// a snippet and the ordered blocks of a job.
//
// Subject and snippet are inserted verbatim. Values carrying markup are not
// escaped, so callers that accept untrusted text own that risk.
package composer

import (
	_ "embed"
	"fmt"
	"html"
	"strings"

	"campaignbuilder/internal/domain"
	"campaignbuilder/internal/markup"
	"campaignbuilder/internal/naming"
)

const (
	SubjectPlaceholder = "{subject}"
	SnippetPlaceholder = "{snippet}"
	ContentPlaceholder = "{content}"

	DefaultSkeletonName = "default"
	DefaultCTAURL       = "#"
)

//go:embed skeletons/default.html
var defaultSkeleton string

// Skeleton is a validated document template.
type Skeleton struct {
	Name string
	Body string
}

// DefaultSkeleton returns the built-in skeleton.
func DefaultSkeleton() Skeleton {
	return Skeleton{Name: DefaultSkeletonName, Body: defaultSkeleton}
}

// ParseSkeleton checks that body holds exactly one subject placeholder inside
// <title>, one content placeholder between the content markers and one
// snippet placeholder as the sole text of the first snippet element after the
// snippet marker, which is the element the patcher rewrites.
func ParseSkeleton(name, body string) (Skeleton, error) {
	for _, p := range []string{SubjectPlaceholder, SnippetPlaceholder, ContentPlaceholder, markup.SnippetMarker, markup.ContentStart, markup.ContentEnd} {
		if n := strings.Count(body, p); n != 1 {
			return Skeleton{}, fmt.Errorf("composer: skeleton %q has %d occurrences of %s: %w", name, n, p, domain.ErrInvalidInput)
		}
	}
	titleOpen := strings.Index(body, markup.TitleOpen)
	subject := strings.Index(body, SubjectPlaceholder)
	titleClose := strings.Index(body, markup.TitleClose)
	if titleOpen < 0 || titleClose < 0 || subject < titleOpen || subject > titleClose {
		return Skeleton{}, fmt.Errorf("composer: skeleton %q must hold %s inside <title>: %w", name, SubjectPlaceholder, domain.ErrInvalidInput)
	}
	if !snippetSite(body) {
		return Skeleton{}, fmt.Errorf("composer: skeleton %q must hold %s%s%s after the snippet marker: %w",
			name, markup.SnippetOpen, SnippetPlaceholder, markup.SnippetClose, domain.ErrInvalidInput)
	}
	start := strings.Index(body, markup.ContentStart)
	content := strings.Index(body, ContentPlaceholder)
	end := strings.Index(body, markup.ContentEnd)
	if content < start || content > end {
		return Skeleton{}, fmt.Errorf("composer: skeleton %q must hold %s between the content markers: %w", name, ContentPlaceholder, domain.ErrInvalidInput)
	}
	return Skeleton{Name: name, Body: body}, nil
}

func snippetSite(body string) bool {
	after := body[strings.Index(body, markup.SnippetMarker)+len(markup.SnippetMarker):]
	open := strings.Index(after, markup.SnippetOpen)
	if open < 0 {
		return false
	}
	return strings.HasPrefix(after[open+len(markup.SnippetOpen):], SnippetPlaceholder+markup.SnippetClose)
}

// Document is everything that varies between two renderings of a skeleton.
type Document struct {
	Subject string
	Snippet string
	CTAURL  string
	Blocks  []domain.Block
}

// Compose renders doc into sk. Substitution is a single pass, so placeholder
// syntax inside the values is copied literally.
func Compose(sk Skeleton, doc Document) string {
	r := strings.NewReplacer(
		SubjectPlaceholder, doc.Subject,
		SnippetPlaceholder, doc.Snippet,
		ContentPlaceholder, Content(doc.Blocks, doc.CTAURL),
	)
	return r.Replace(sk.Body)
}

// Content builds the region between the content markers: one table per block
// in order, then the converted text notice and the call to action.
func Content(blocks []domain.Block, ctaURL string) string {
	if strings.TrimSpace(ctaURL) == "" {
		ctaURL = DefaultCTAURL
	}
	href := html.EscapeString(ctaURL)
	var b strings.Builder
	for _, block := range blocks {
		fmt.Fprintf(&b, blockFragment, href, naming.ArchiveEntry(block.FileName), html.EscapeString(block.AltText))
	}
	b.WriteString(convertedTextFragment)
	fmt.Fprintf(&b, ctaFragment, href)
	return b.String()
}

const blockFragment = `<table role="presentation" width="100%%" cellpadding="0" cellspacing="0" border="0"><tr><td>
  <a href="%s" target="_blank" rel="noopener"><img src="%s" alt="%s" width="100%%" style="display:block;border:0;outline:0;text-decoration:none;"></a>
</td></tr></table>
`

const convertedTextFragment = `<table role="presentation" width="100%" cellpadding="0" cellspacing="0" border="0"><tr>
  <td align="left" style="padding:24px 6%; font-family:Inter, Arial, Helvetica, sans-serif; font-size:18px; line-height:1.5; color:#1D4E82;">Texto convertido da imagem.</td>
</tr></table>
`

const ctaFragment = `<table role="presentation" width="100%%" cellpadding="0" cellspacing="0" border="0"><tr>
  <td align="center" style="padding:12px 0 32px;">
    <a href="%s" target="_blank" rel="noopener" style="text-decoration:none;background:#D22E2D;color:#ffffff;font-family:Inter, Arial, Helvetica, sans-serif;font-weight:700;font-size:16px;line-height:16px;display:inline-block;padding:14px 40px;border-radius:16px;">Saiba mais</a>
  </td>
</tr></table>`
