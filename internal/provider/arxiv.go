package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/delaere/paper2remarkable/internal/fetch"
)

var (
	arxivAbsRe = regexp.MustCompile(`^https?://(www\.)?arxiv\.org/abs/[a-zA-Z0-9.\-/]+(v\d+)?/?$`)
	arxivPDFRe = regexp.MustCompile(`^https?://(www\.)?arxiv\.org/pdf/[a-zA-Z0-9.\-/]+(v\d+)?(\.pdf)?$`)
)

// Arxiv handles arxiv.org papers. Unlike the HTML provider it validates by
// URL shape alone (no network round trip) and downloads the typeset PDF
// directly instead of rendering the page.
type Arxiv struct {
	Client *fetch.Client
	Log    zerolog.Logger
}

// NewArxiv creates the arXiv provider.
func NewArxiv(client *fetch.Client, log zerolog.Logger) *Arxiv {
	return &Arxiv{Client: client, Log: log}
}

func (p *Arxiv) Name() string { return "arxiv" }

func (p *Arxiv) Validate(_ context.Context, rawURL string) bool {
	return arxivAbsRe.MatchString(rawURL) || arxivPDFRe.MatchString(rawURL)
}

// AbsURLs maps between the abstract page and the PDF download. The path
// swap keeps scheme and host intact, so either input form resolves both.
func (p *Arxiv) AbsURLs(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	path := strings.TrimSuffix(u.Path, "/")
	switch {
	case strings.HasPrefix(path, "/abs/"):
		abs := *u
		abs.Path = path
		pdf := *u
		pdf.Path = "/pdf/" + strings.TrimPrefix(path, "/abs/") + ".pdf"
		return abs.String(), pdf.String(), nil
	case strings.HasPrefix(path, "/pdf/"):
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/pdf/"), ".pdf")
		abs := *u
		abs.Path = "/abs/" + id
		pdf := *u
		pdf.Path = "/pdf/" + id + ".pdf"
		return abs.String(), pdf.String(), nil
	}
	return "", "", fmt.Errorf("not an arxiv url: %s", rawURL)
}

// Filename reads the paper title from the abstract page metadata.
func (p *Arxiv) Filename(ctx context.Context, rawURL string) (string, error) {
	absURL, _, err := p.AbsURLs(rawURL)
	if err != nil {
		return "", err
	}
	page, err := p.Client.Page(ctx, absURL)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse abstract page: %w", err)
	}
	title, ok := doc.Find(`meta[name="citation_title"]`).Attr("content")
	if !ok {
		// Older page layouts carry the title only in the <title> tag, with a
		// "[id] " prefix.
		title = doc.Find("title").First().Text()
		if i := strings.Index(title, "] "); i >= 0 {
			title = title[i+2:]
		}
	}
	name := FilenameFromTitle(title)
	p.Log.Info().Str("filename", name).Msg("derived filename")
	return name, nil
}

// Retrieve downloads the typeset PDF.
func (p *Arxiv) Retrieve(ctx context.Context, rawURL string, outPath string) error {
	_, pdfURL, err := p.AbsURLs(rawURL)
	if err != nil {
		return err
	}
	data, _, err := p.Client.Get(ctx, pdfURL)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("%s did not return a PDF", pdfURL)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	p.Log.Info().Str("url", pdfURL).Str("path", outPath).Msg("wrote pdf")
	return nil
}
