// Package render turns sanitized HTML into a paginated PDF with a fixed
// stylesheet. It walks the HTML block structure (headings, paragraphs,
// lists, code blocks, quotes, images) and lays each block out with gofpdf.
// Embedded images are resolved through a caller-supplied resource fetcher;
// a broken image is logged and skipped rather than failing the document.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
)

// Renderer renders HTML documents to PDF bytes.
type Renderer struct {
	Style Stylesheet
	Fetch FetchFunc
	Log   zerolog.Logger
}

// New creates a Renderer with the given stylesheet and resource fetcher.
func New(style Stylesheet, fetch FetchFunc, log zerolog.Logger) *Renderer {
	return &Renderer{Style: style, Fetch: fetch, Log: log}
}

// Render parses doc and produces the finished PDF. The document is built
// fully in memory; nothing touches disk here, so a failed render leaves no
// partial output behind.
func (r *Renderer) Render(ctx context.Context, doc string) ([]byte, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: r.Style.PageWidth, Ht: r.Style.PageHeight},
	})
	pdf.SetMargins(r.Style.Margin, r.Style.Margin, r.Style.Margin)
	pdf.SetAutoPageBreak(true, r.Style.Margin)
	pdf.AddPage()

	st := state{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	body := findFirst(root, "body")
	if body == nil {
		body = root
	}
	r.renderChildren(ctx, &st, body)

	if pdf.Err() {
		return nil, fmt.Errorf("render pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// state bundles the document handle with its cp1252 translator so text
// helpers do not need to re-derive either.
type state struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (r *Renderer) renderChildren(ctx context.Context, st *state, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.renderBlock(ctx, st, c)
	}
}

func (r *Renderer) renderBlock(ctx context.Context, st *state, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if s := collapseSpaces(n.Data); s != "" {
			r.paragraph(st, s)
		}
	case html.DocumentNode:
		r.renderChildren(ctx, st, n)
	case html.ElementNode:
		switch strings.ToLower(n.Data) {
		case "h1":
			r.heading(st, textContent(n), r.Style.H1Size)
		case "h2":
			r.heading(st, textContent(n), r.Style.H2Size)
		case "h3":
			r.heading(st, textContent(n), r.Style.H3Size)
		case "h4", "h5", "h6":
			r.heading(st, textContent(n), r.Style.BodySize)
		case "p":
			if s := collapseSpaces(textContent(n)); s != "" {
				r.paragraph(st, s)
			}
			for _, img := range findAll(n, "img") {
				r.image(ctx, st, attr(img, "src"))
			}
		case "ul":
			r.list(ctx, st, n, false)
		case "ol":
			r.list(ctx, st, n, true)
		case "pre":
			// textContent keeps newlines, so code lines survive as-is.
			r.codeBlock(st, textContent(n))
		case "blockquote":
			r.quote(st, collapseSpaces(textContent(n)))
		case "img":
			r.image(ctx, st, attr(n, "src"))
		case "hr":
			st.pdf.Ln(r.Style.BodySize)
		case "script", "style", "head", "noscript":
			// skip
		default:
			// Containers (div, article, section, ...) recurse.
			r.renderChildren(ctx, st, n)
		}
	}
}

func (r *Renderer) heading(st *state, text string, size float64) {
	text = collapseSpaces(text)
	if text == "" {
		return
	}
	st.pdf.Ln(size * 0.5)
	st.pdf.SetFont(r.Style.HeadingFont, "B", size)
	st.pdf.MultiCell(0, size*1.3, st.tr(text), "", "L", false)
	st.pdf.Ln(size * 0.3)
}

func (r *Renderer) paragraph(st *state, text string) {
	st.pdf.SetFont(r.Style.BodyFont, "", r.Style.BodySize)
	st.pdf.MultiCell(0, r.Style.BodySize*1.45, st.tr(text), "", "J", false)
	st.pdf.Ln(r.Style.BodySize * 0.6)
}

func (r *Renderer) quote(st *state, text string) {
	if text == "" {
		return
	}
	st.pdf.SetFont(r.Style.BodyFont, "I", r.Style.BodySize)
	st.pdf.MultiCell(0, r.Style.BodySize*1.45, st.tr(text), "", "L", false)
	st.pdf.Ln(r.Style.BodySize * 0.6)
}

func (r *Renderer) list(ctx context.Context, st *state, n *html.Node, ordered bool) {
	idx := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || !strings.EqualFold(c.Data, "li") {
			continue
		}
		idx++
		prefix := "• "
		if ordered {
			prefix = strconv.Itoa(idx) + ". "
		}
		text := collapseSpaces(textContent(c))
		if text != "" {
			st.pdf.SetFont(r.Style.BodyFont, "", r.Style.BodySize)
			st.pdf.MultiCell(0, r.Style.BodySize*1.45, st.tr(prefix+text), "", "L", false)
		}
		for _, img := range findAll(c, "img") {
			r.image(ctx, st, attr(img, "src"))
		}
	}
	st.pdf.Ln(r.Style.BodySize * 0.6)
}

func (r *Renderer) codeBlock(st *state, text string) {
	text = strings.Trim(text, "\n")
	if text == "" {
		return
	}
	st.pdf.SetFont(r.Style.MonoFont, "", r.Style.MonoSize)
	st.pdf.SetFillColor(239, 239, 239)
	for _, line := range strings.Split(text, "\n") {
		st.pdf.MultiCell(0, r.Style.MonoSize*1.4, st.tr(line), "", "L", true)
	}
	st.pdf.Ln(r.Style.BodySize * 0.6)
}

// image fetches src through the resource fetcher (after the legacy URL
// corrections), scales it to the stylesheet's constraints, and centers it.
// Fetch or decode failures are non-critical: warn and move on.
func (r *Renderer) image(ctx context.Context, st *state, src string) {
	if src == "" || r.Fetch == nil {
		return
	}
	resolved := NormalizeResourceURL(src)
	data, ct, err := r.Fetch(ctx, resolved)
	if err != nil {
		r.Log.Warn().Str("src", resolved).Err(err).Msg("skipping unfetchable image")
		return
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		r.Log.Warn().Str("src", resolved).Err(err).Msg("skipping undecodable image")
		return
	}
	tp := imageType(ct, format)
	if tp == "" {
		r.Log.Warn().Str("src", resolved).Str("contentType", ct).Msg("skipping unsupported image type")
		return
	}

	// Intrinsic pixel size at 96dpi, in points.
	w := float64(cfg.Width) * 72.0 / 96.0
	h := float64(cfg.Height) * 72.0 / 96.0
	maxW := r.Style.contentWidth() * r.Style.ImageMaxWidthFrac
	maxH := r.Style.ImageMaxHeight
	scale := 1.0
	if w > maxW {
		scale = maxW / w
	}
	if h*scale > maxH {
		scale = maxH / h
	}
	w, h = w*scale, h*scale

	opts := gofpdf.ImageOptions{ImageType: tp}
	st.pdf.RegisterImageOptionsReader(resolved, opts, bytes.NewReader(data))
	if st.pdf.Err() {
		r.Log.Warn().Str("src", resolved).Err(st.pdf.Error()).Msg("skipping unregisterable image")
		st.pdf.ClearError()
		return
	}
	x := r.Style.Margin + (r.Style.contentWidth()-w)/2
	st.pdf.ImageOptions(resolved, x, 0, w, h, true, opts, 0, "")
	st.pdf.Ln(r.Style.BodySize * 0.6)
}

func imageType(contentType, format string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/png"):
		return "PNG"
	case strings.HasPrefix(ct, "image/jpeg"), strings.HasPrefix(ct, "image/jpg"):
		return "JPG"
	case strings.HasPrefix(ct, "image/gif"):
		return "GIF"
	}
	switch format {
	case "png":
		return "PNG"
	case "jpeg":
		return "JPG"
	case "gif":
		return "GIF"
	}
	return ""
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, tag); res != nil {
			return res
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.ElementNode && strings.EqualFold(cur.Data, tag) {
			out = append(out, cur)
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dfs(c)
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// textContent flattens the text of n and its descendants.
func textContent(n *html.Node) string {
	var b strings.Builder
	var dfs func(*html.Node)
	dfs = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			dfs(c)
		}
	}
	dfs(n)
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
