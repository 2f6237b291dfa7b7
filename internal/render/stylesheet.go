package render

// Stylesheet is the fixed set of layout rules applied uniformly to every
// document. It is compiled in, not derived from input. All values are in
// typographic points.
type Stylesheet struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64

	BodyFont string
	BodySize float64

	HeadingFont string
	H1Size      float64
	H2Size      float64
	H3Size      float64

	MonoFont string
	MonoSize float64

	// ImageMaxWidthFrac caps image width as a fraction of the content width;
	// ImageMaxHeight caps image height in points.
	ImageMaxWidthFrac float64
	ImageMaxHeight    float64
}

// DefaultStylesheet matches the 702x936 device-pixel page (96dpi) with one
// inch margins, a serif body, sans-serif headings, and mono code blocks.
func DefaultStylesheet() Stylesheet {
	return Stylesheet{
		PageWidth:  526.5, // 702px
		PageHeight: 702,   // 936px
		Margin:     72,

		BodyFont: "Times",
		BodySize: 10,

		HeadingFont: "Helvetica",
		H1Size:      19.5, // 26px
		H2Size:      13.5, // 18px
		H3Size:      10.5, // 14px

		MonoFont: "Courier",
		MonoSize: 8.5,

		ImageMaxWidthFrac: 0.70,
		ImageMaxHeight:    225, // 300px
	}
}

func (s Stylesheet) contentWidth() float64 {
	return s.PageWidth - 2*s.Margin
}
