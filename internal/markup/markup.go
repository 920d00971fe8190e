// Package markup holds the literal tokens shared by composed campaign
// documents and the patcher that edits them.
package markup

const (
	TitleOpen  = "<title>"
	TitleClose = "</title>"

	// SnippetMarker precedes the inbox preview element.
	SnippetMarker = "<!-- SNIPPET -->"
	SnippetOpen   = `<font face="sans-serif">`
	SnippetClose  = "</font>"

	ContentStart = "<!-- CONTEÚDO -->"
	ContentEnd   = "<!-- /CONTEÚDO -->"
)
