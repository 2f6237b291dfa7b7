// Package extract isolates the readable article from a raw HTML page using
// readability heuristics: navigation, ads, and other chrome are discarded and
// the main content block plus the page title survive.
package extract

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Article is the readable part of a page. Content is an HTML fragment, not a
// full document; Title may be empty when the page declares none.
type Article struct {
	Title   string
	Content string
}

// FromHTML runs readability extraction over pageHTML. pageURL anchors the
// extractor's relative-link handling and may be nil. Extraction degrades to a
// best-effort guess on pages without a clear article body; it only errors
// when the HTML cannot be parsed at all.
func FromHTML(pageHTML string, pageURL *url.URL) (Article, error) {
	art, err := readability.FromReader(strings.NewReader(pageHTML), pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("readability extraction: %w", err)
	}
	return Article{
		Title:   strings.TrimSpace(art.Title),
		Content: art.Content,
	}, nil
}

// Title extracts only the page title, for filename derivation.
func Title(pageHTML string, pageURL *url.URL) (string, error) {
	art, err := FromHTML(pageHTML, pageURL)
	if err != nil {
		return "", err
	}
	return art.Title, nil
}
