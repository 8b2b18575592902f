// Package content sanitizes user-submitted comment text and renders its
// limited-markup HTML view.
package content

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Processor owns the sanitization policies and the markdown renderer.
// It is safe for concurrent use.
type Processor struct {
	strict *bluemonday.Policy
	ugc    *bluemonday.Policy
	md     goldmark.Markdown
}

func New() *Processor {
	ugc := bluemonday.UGCPolicy()
	ugc.AddTargetBlankToFullyQualifiedLinks(true)
	ugc.RequireNoReferrerOnLinks(true)

	return &Processor{
		strict: bluemonday.StrictPolicy(),
		ugc:    ugc,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		),
	}
}

// Sanitize prepares raw input for storage: embedded HTML is stripped so
// stored content is plain text with markdown markup only.
func (p *Processor) Sanitize(raw string) string {
	cleaned := p.strict.Sanitize(raw)
	// StrictPolicy escapes entities; undo so stored text stays readable.
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// Render converts stored content to sanitized HTML for display.
func (p *Processor) Render(stored string) string {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(stored), &buf); err != nil {
		// Fall back to the escaped source; never emit unsanitized text.
		return html.EscapeString(stored)
	}
	return strings.TrimSpace(string(p.ugc.SanitizeBytes(buf.Bytes())))
}
