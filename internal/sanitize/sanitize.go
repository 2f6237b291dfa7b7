// Package sanitize normalizes extracted article HTML by round-tripping it
// through markdown: whatever irregular structure readability produced is
// flattened to CommonMark and re-rendered as well-formed HTML that the PDF
// renderer can parse. It also rewrites relative resource URLs so the
// renderer can resolve them.
package sanitize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// Bridge converts HTML fragments to markdown and markdown back to HTML.
// A Bridge is safe for repeated use.
type Bridge struct {
	conv *converter.Converter
	md   goldmark.Markdown
}

// NewBridge builds the round-trip converter pair. Links are rendered inline,
// keeping link text and URL together on one line.
func NewBridge() *Bridge {
	return &Bridge{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
		// WithUnsafe keeps inline HTML the converter passed through, so the
		// round trip does not drop content into escaped placeholders.
		md: goldmark.New(goldmark.WithRendererOptions(ghtml.WithUnsafe())),
	}
}

// ToMarkdown converts an HTML fragment into CommonMark.
func (b *Bridge) ToMarkdown(fragment string) (string, error) {
	md, err := b.conv.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("html to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// ToHTML renders markdown into HTML.
func (b *Bridge) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown to html: %w", err)
	}
	return buf.String(), nil
}

// Document prepends title as a level-1 heading to the markdown body,
// separated by a blank line.
func Document(title, markdown string) string {
	return fmt.Sprintf("# %s\n\n%s", title, markdown)
}

// RewriteSrcURLs rewrites relative src attributes in doc to absolute URLs.
// Protocol-relative references (src="//host/...") become https, then
// root-relative references (src="/...") are anchored at base
// (scheme://host). The protocol-relative pass must run first: a naive "/"
// prefix check would otherwise double-prefix "//" references.
func RewriteSrcURLs(doc, base string) string {
	doc = strings.ReplaceAll(doc, ` src="//`, ` src="https://`)
	doc = strings.ReplaceAll(doc, ` src="/`, fmt.Sprintf(` src="%s/`, base))
	return doc
}
