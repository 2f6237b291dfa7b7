// Package provider defines the source-type capability interface and its
// concrete implementations. Each provider knows how to recognize the URLs it
// serves, derive a readable filename, and produce the final PDF; a Registry
// picks the first provider that accepts a given URL.
package provider

import (
	"context"
	"strings"

	"github.com/delaere/paper2remarkable/internal/textutil"
)

// Provider turns a source URL into a PDF on disk.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// Validate reports whether this provider can handle rawURL. It may
	// perform a network round trip (e.g. a content-type lookup) but must
	// not download the full document.
	Validate(ctx context.Context, rawURL string) bool
	// AbsURLs resolves rawURL into the canonical abstract/display URL and
	// the URL the document is fetched from. Providers without that
	// distinction return rawURL for both.
	AbsURLs(rawURL string) (abs string, doc string, err error)
	// Filename derives a filesystem-safe name for the document, ending in
	// ".pdf". It degrades gracefully on malformed titles.
	Filename(ctx context.Context, rawURL string) (string, error)
	// Retrieve writes the finished PDF to outPath as its only effect.
	Retrieve(ctx context.Context, rawURL string, outPath string) error
}

// FilenameFromTitle applies the shared normalization policy: clean,
// transliterate to ASCII, clean again (transliteration can introduce
// spacing, e.g. for CJK runes), title-case, join words with underscores,
// clean once more, trim underscores, append .pdf. Transliteration runs
// before the underscore trim so that dropped runes can never leave a
// leading or trailing underscore behind. A garbage title still yields a
// valid name, worst case just ".pdf".
func FilenameFromTitle(title string) string {
	title = textutil.Clean(title)
	title = textutil.Clean(textutil.Unidecode(title))
	title = textutil.Title(title)
	title = strings.ReplaceAll(title, " ", "_")
	title = textutil.Clean(title)
	return strings.Trim(title, "_") + ".pdf"
}
