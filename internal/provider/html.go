package provider

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/delaere/paper2remarkable/internal/extract"
	"github.com/delaere/paper2remarkable/internal/fetch"
	"github.com/delaere/paper2remarkable/internal/render"
	"github.com/delaere/paper2remarkable/internal/sanitize"
)

// debugHTMLPath is where the intermediate HTML lands when debug mode is on.
const debugHTMLPath = "./paper.html"

// HTML handles generic web articles: any well-formed URL serving text/html.
// The pipeline is fetch, readability extraction, a markdown round trip to
// sanitize the extracted fragment, relative URL rewriting, and a styled PDF
// render. Naming and retrieval fetch independently; there is no shared
// cache between them.
type HTML struct {
	Client *fetch.Client
	Log    zerolog.Logger
	// Debug additionally writes the rewritten HTML to debugHTMLPath before
	// rendering, for inspection.
	Debug bool
	Style render.Stylesheet
}

// NewHTML creates the HTML article provider.
func NewHTML(client *fetch.Client, log zerolog.Logger) *HTML {
	return &HTML{Client: client, Log: log, Style: render.DefaultStylesheet()}
}

func (p *HTML) Name() string { return "html" }

// Validate accepts rawURL iff it parses with scheme, host, and path, and the
// server declares a text/html content type. The structural check
// short-circuits before any network lookup.
func (p *HTML) Validate(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" || u.Path == "" {
		return false
	}
	ct := p.Client.ContentType(ctx, rawURL)
	if ct == "" {
		return false
	}
	return strings.HasPrefix(ct, "text/html")
}

// AbsURLs is degenerate for articles: there is no separate abstract page.
func (p *HTML) AbsURLs(rawURL string) (string, string, error) {
	return rawURL, rawURL, nil
}

// Filename fetches the page, extracts its title, and normalizes it into a
// readable, filesystem-safe name.
func (p *HTML) Filename(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	page, err := p.Client.Page(ctx, rawURL)
	if err != nil {
		return "", err
	}
	title, err := extract.Title(page, u)
	if err != nil {
		return "", err
	}
	name := FilenameFromTitle(title)
	p.Log.Info().Str("filename", name).Msg("derived filename")
	return name, nil
}

// Retrieve turns the article at rawURL into a clean PDF at outPath.
func (p *HTML) Retrieve(ctx context.Context, rawURL string, outPath string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	page, err := p.Client.Page(ctx, rawURL)
	if err != nil {
		return err
	}

	art, err := extract.FromHTML(page, u)
	if err != nil {
		return err
	}

	bridge := sanitize.NewBridge()
	md, err := bridge.ToMarkdown(art.Content)
	if err != nil {
		return err
	}
	// Readability strips the title from the body; put it back as the
	// top-level heading.
	doc, err := bridge.ToHTML(sanitize.Document(art.Title, md))
	if err != nil {
		return err
	}

	base := fmt.Sprintf("%s://%s", u.Scheme, u.Host)
	doc = sanitize.RewriteSrcURLs(doc, base)

	if p.Debug {
		if werr := os.WriteFile(debugHTMLPath, []byte(doc), 0o644); werr != nil {
			p.Log.Warn().Err(werr).Msg("could not write debug html")
		} else {
			p.Log.Debug().Str("path", debugHTMLPath).Msg("wrote intermediate html")
		}
	}

	renderer := render.New(p.Style, p.Client.Get, p.Log)
	pdfBytes, err := renderer.Render(ctx, doc)
	if err != nil {
		return fmt.Errorf("render %s: %w", rawURL, err)
	}
	// The document was built fully in memory, so a failure above leaves no
	// file at outPath.
	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	p.Log.Info().Str("url", rawURL).Str("path", outPath).Msg("wrote pdf")
	return nil
}
