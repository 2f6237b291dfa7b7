package render

import (
	"context"
	"strings"
)

// FetchFunc retrieves an embedded resource by URL, returning the bytes and
// the declared content type.
type FetchFunc func(ctx context.Context, url string) ([]byte, string, error)

// NormalizeResourceURL applies the legacy URL corrections before a resource
// is fetched: protocol-relative references gain an https scheme, and a
// file:/// prefix is swapped for https:// with the rest of the string kept
// as-is (so file:///etc/passwd becomes https://etc/passwd). The file://
// swap treats a local-looking path as a remote resource; it is preserved
// behavior for malformed inputs, not a bug fix.
func NormalizeResourceURL(raw string) string {
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}
	if strings.HasPrefix(raw, "file:///") {
		return "https:" + raw[len("file:/"):]
	}
	return raw
}
