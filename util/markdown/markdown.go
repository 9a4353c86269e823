// Package markdown converts post content from Markdown into sanitized HTML.
// This is the boundary where admin-authored text becomes browser markup, so
// raw HTML in the input never passes through and unsafe link schemes are
// stripped from the output.
package markdown

import (
	"bytes"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	// Raw HTML passthrough stays disabled: the default renderer omits HTML
	// blocks and inline HTML found in the source.
	engine = goldmark.New(
		goldmark.WithExtensions(extension.Table),
	)

	policy = bluemonday.UGCPolicy()
)

// ToHTML renders Markdown to sanitized HTML. Empty input yields an empty
// string. Malformed input degrades to escaped literal text, never an error.
func ToHTML(raw string) string {
	if raw == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := engine.Convert([]byte(raw), &buf); err != nil {
		return "<p>" + html.EscapeString(raw) + "</p>"
	}
	return policy.Sanitize(buf.String())
}
