package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNormalizeResourceURL(t *testing.T) {
	cases := []struct{ in, want string }{
		{"//cdn.example.com/img.png", "https://cdn.example.com/img.png"},
		{"file:///etc/passwd", "https://etc/passwd"},
		{"file:///figures/plot.png", "https://figures/plot.png"},
		{"https://site.com/img.png", "https://site.com/img.png"},
		{"http://site.com/img.png", "http://site.com/img.png"},
	}
	for _, c := range cases {
		if got := NormalizeResourceURL(c.in); got != c.want {
			t.Errorf("NormalizeResourceURL(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func testRenderer(fetch FetchFunc) *Renderer {
	return New(DefaultStylesheet(), fetch, zerolog.Nop())
}

func TestRender_SimpleDocument(t *testing.T) {
	doc := `<html><body>
	<h1>Title</h1>
	<p>A paragraph of body text with enough words to wrap onto more than a
	single line of the page, exercising the justified layout.</p>
	<h2>Subsection</h2>
	<ul><li>first item</li><li>second item</li></ul>
	<ol><li>numbered</li></ol>
	<blockquote>quoted text</blockquote>
	<pre>code line one
code line two</pre>
	</body></html>`

	out, err := testRenderer(nil).Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 || !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF bytes, got %d bytes", len(out))
	}
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRender_EmbedsFetchedImage(t *testing.T) {
	pngBytes := tinyPNG(t)
	var fetched []string
	fetch := func(ctx context.Context, url string) ([]byte, string, error) {
		fetched = append(fetched, url)
		return pngBytes, "image/png", nil
	}

	doc := `<html><body><p><img src="//cdn.example.com/fig.png" alt="fig"></p></body></html>`
	out, err := testRenderer(fetch).Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected PDF bytes")
	}
	if len(fetched) != 1 || fetched[0] != "https://cdn.example.com/fig.png" {
		t.Fatalf("expected one normalized fetch, got %v", fetched)
	}
}

func TestRender_BrokenImageIsSkipped(t *testing.T) {
	fetch := func(ctx context.Context, url string) ([]byte, string, error) {
		return nil, "", errors.New("connection refused")
	}
	doc := `<html><body><p>text before</p><img src="https://dead.example.com/x.png"><p>text after</p></body></html>`
	out, err := testRenderer(fetch).Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("broken image should not fail the document: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF bytes")
	}
}

func TestRender_UndecodableImageIsSkipped(t *testing.T) {
	fetch := func(ctx context.Context, url string) ([]byte, string, error) {
		return []byte("not an image"), "image/png", nil
	}
	doc := `<html><body><img src="https://site.com/broken.png"></body></html>`
	if _, err := testRenderer(fetch).Render(context.Background(), doc); err != nil {
		t.Fatalf("undecodable image should not fail the document: %v", err)
	}
}

func TestRender_HeadingSizesComeFromStylesheet(t *testing.T) {
	st := DefaultStylesheet()
	if st.PageWidth != 526.5 || st.PageHeight != 702 {
		t.Fatalf("unexpected page size: %v x %v", st.PageWidth, st.PageHeight)
	}
	if st.Margin != 72 {
		t.Fatalf("expected one inch margins, got %v", st.Margin)
	}
	if !strings.EqualFold(st.BodyFont, "Times") {
		t.Fatalf("unexpected body font %q", st.BodyFont)
	}
}
