package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/delaere/paper2remarkable/internal/fetch"
	"github.com/delaere/paper2remarkable/internal/textutil"
)

// PDFURL handles direct links to PDF files: no extraction or rendering,
// just a download. It sits between the pattern providers and the HTML
// catch-all in the registry.
type PDFURL struct {
	Client *fetch.Client
	Log    zerolog.Logger
}

// NewPDFURL creates the direct-download provider.
func NewPDFURL(client *fetch.Client, log zerolog.Logger) *PDFURL {
	return &PDFURL{Client: client, Log: log}
}

func (p *PDFURL) Name() string { return "pdfurl" }

func (p *PDFURL) Validate(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" || u.Path == "" {
		return false
	}
	ct := p.Client.ContentType(ctx, rawURL)
	return strings.HasPrefix(ct, "application/pdf")
}

func (p *PDFURL) AbsURLs(rawURL string) (string, string, error) {
	return rawURL, rawURL, nil
}

// Filename names the file after the last URL path segment.
func (p *PDFURL) Filename(_ context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	name = strings.TrimSuffix(name, ".pdf")
	name = textutil.Unidecode(textutil.Clean(name))
	if name == "" || name == "/" || name == "." {
		name = "paper"
	}
	return name + ".pdf", nil
}

func (p *PDFURL) Retrieve(ctx context.Context, rawURL string, outPath string) error {
	data, _, err := p.Client.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return fmt.Errorf("%s did not return a PDF", rawURL)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	p.Log.Info().Str("url", rawURL).Str("path", outPath).Msg("wrote pdf")
	return nil
}
