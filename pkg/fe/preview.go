package fe

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// DefaultSampleLines are drawn under the font's name
var DefaultSampleLines = []string{
	"AaBbCcDdEeFfGgHhIiJjKk",
	"0123456789 !@#$%",
}

// NoSelectionText is drawn when there is nothing to preview
const NoSelectionText = "Select a font to preview"

// PreviewOptions control RenderPreview
type PreviewOptions struct {
	Width  int
	Height int
	Size   int      // font size in points
	Lines  []string // sample lines, DefaultSampleLines when empty
}

func (o PreviewOptions) withDefaults() PreviewOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 240
	}
	if o.Size <= 0 {
		o.Size = 28
	}
	if len(o.Lines) == 0 {
		o.Lines = DefaultSampleLines
	}
	return o
}

// RenderPreview draws a sample of font as SVG. A nil font draws the
// placeholder text. The sample uses the font's weight and slant, so the
// viewer's font matching picks the face.
func RenderPreview(w io.Writer, font *Font, opts PreviewOptions) error {
	opts = opts.withDefaults()
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:white")

	if font == nil {
		canvas.Text(opts.Width/2, opts.Height/2, NoSelectionText,
			"font-family:sans-serif;font-size:14pt;text-anchor:middle;fill:gray")
		canvas.End()
		return nil
	}

	lines := append([]string{strings.TrimSpace(font.Family + " " + font.Style)}, opts.Lines...)
	canvas.Gstyle(previewStyle(*font, opts.Size))
	lineHeight := opts.Size * 3 / 2
	for i, line := range lines {
		canvas.Text(16, lineHeight*(i+1), line)
	}
	canvas.Gend()
	canvas.End()
	return nil
}

// cssFamily makes a family name safe inside a quoted CSS string within an
// XML attribute. svgo writes style attributes unescaped.
var cssFamily = strings.NewReplacer(
	"'", "",
	`"`, "",
	`\`, "",
	"<", "",
	">", "",
	";", "",
	"&", "&amp;",
)

func previewStyle(f Font, size int) string {
	slant := "normal"
	if f.Italic {
		slant = "italic"
	}
	weight := f.Weight
	if weight <= 0 {
		weight = WeightNormal
	}
	return fmt.Sprintf("font-family:'%s';font-size:%dpt;font-weight:%d;font-style:%s;fill:black",
		cssFamily.Replace(f.Family), size, weight, slant)
}
