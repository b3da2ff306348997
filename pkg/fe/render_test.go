package fe_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"strings"

	"github.com/logandonley/fontenum/pkg/fe"
	"github.com/muesli/termenv"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Rendering", func() {
	fonts := []fe.Font{
		{Family: "Arial", Style: "Regular", Weight: 400},
		{Family: "Bahnschrift", Style: "Bold", Weight: 700, FilePath: "/fonts/bahnschrift.ttf", IsVariable: true, VariableAxes: "wght 300-700, wdth 75-100"},
		{Family: "Consolas", Style: "Italic", Weight: 400, Italic: true, FixedPitch: true},
	}

	Describe("Row", func() {
		It("should format flags and variable axes", func() {
			Expect(fe.Row(fonts[1])).To(Equal([]string{
				"Bahnschrift", "Bold", "700", "No", "No", "/fonts/bahnschrift.ttf", "Yes: wght 300-700, wdth 75-100",
			}))
			Expect(fe.Row(fonts[2])[3:5]).To(Equal([]string{"Yes", "Yes"}))
			Expect(fe.Row(fonts[0])[6]).To(BeEmpty())
		})
	})

	Describe("RenderTable", func() {
		It("should print a header and only the viewed rows", func() {
			var buf bytes.Buffer
			Expect(fe.RenderTable(&buf, fonts, []int{2, 0}, fe.TableOptions{})).To(Succeed())

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(HavePrefix("Family"))
			Expect(lines[1]).To(HavePrefix("Consolas"))
			Expect(lines[2]).To(HavePrefix("Arial"))
		})

		It("should align columns", func() {
			var buf bytes.Buffer
			Expect(fe.RenderTable(&buf, fonts, []int{0, 1}, fe.TableOptions{NoHeader: true})).To(Succeed())
			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			Expect(strings.Index(lines[0], "Regular")).To(Equal(strings.Index(lines[1], "Bold")))
		})

		It("should keep columns in place for a window of a longer view", func() {
			widths := fe.ColumnWidths(fonts, []int{0, 1, 2})
			Expect(widths[0]).To(Equal(len("Bahnschrift")))
			Expect(widths[1]).To(Equal(len("Regular")))

			var first, last bytes.Buffer
			Expect(fe.RenderTable(&first, fonts, []int{0}, fe.TableOptions{Widths: widths})).To(Succeed())
			Expect(fe.RenderTable(&last, fonts, []int{2}, fe.TableOptions{Widths: widths})).To(Succeed())
			Expect(strings.Index(first.String(), "Style")).To(Equal(strings.Index(last.String(), "Style")))
			Expect(strings.Index(first.String(), "Style")).To(Equal(len("Bahnschrift") + 2))
		})

		It("should reject indices outside the catalog", func() {
			var buf bytes.Buffer
			Expect(fe.RenderTable(&buf, fonts, []int{3}, fe.TableOptions{})).NotTo(Succeed())
		})

		It("should leave text untouched without a color profile", func() {
			var buf bytes.Buffer
			out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.Ascii))
			Expect(fe.RenderTable(&buf, fonts, []int{0}, fe.TableOptions{Highlight: "ARI", Output: out, NoHeader: true})).To(Succeed())
			Expect(buf.String()).To(HavePrefix("Arial  Regular"))
		})

		It("should color matches with a color profile", func() {
			var buf bytes.Buffer
			out := termenv.NewOutput(&buf, termenv.WithProfile(termenv.ANSI))
			Expect(fe.RenderTable(&buf, fonts, []int{0}, fe.TableOptions{Highlight: "ari", Output: out, NoHeader: true})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("\x1b["))
			Expect(buf.String()).To(ContainSubstring("Ari"))
		})
	})

	Describe("RenderJSON", func() {
		It("should encode the viewed fonts", func() {
			var buf bytes.Buffer
			Expect(fe.RenderJSON(&buf, fonts, []int{1})).To(Succeed())

			var decoded []map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveLen(1))
			Expect(decoded[0]).To(HaveKeyWithValue("family", "Bahnschrift"))
			Expect(decoded[0]).To(HaveKeyWithValue("variable_axes", "wght 300-700, wdth 75-100"))
		})
	})

	Describe("RenderPreview", func() {
		It("should draw the font with its weight and slant", func() {
			var buf bytes.Buffer
			font := fonts[2]
			font.Weight = 700
			Expect(fe.RenderPreview(&buf, &font, fe.PreviewOptions{})).To(Succeed())

			svg := buf.String()
			Expect(svg).To(ContainSubstring("<svg"))
			Expect(svg).To(ContainSubstring("font-family:'Consolas'"))
			Expect(svg).To(ContainSubstring("font-weight:700"))
			Expect(svg).To(ContainSubstring("font-style:italic"))
			Expect(svg).To(ContainSubstring("Consolas Italic"))
			Expect(svg).To(ContainSubstring("AaBbCcDdEeFfGgHhIiJjKk"))
		})

		It("should produce well-formed XML for any family name", func() {
			var buf bytes.Buffer
			font := fe.Font{Family: `Foo & "Bar" <Baz>; 'Q'`, Style: "A&B", Weight: 400}
			Expect(fe.RenderPreview(&buf, &font, fe.PreviewOptions{})).To(Succeed())

			dec := xml.NewDecoder(&buf)
			var texts []string
			for {
				tok, err := dec.Token()
				if err == io.EOF {
					break
				}
				Expect(err).NotTo(HaveOccurred())
				if data, ok := tok.(xml.CharData); ok && strings.TrimSpace(string(data)) != "" {
					texts = append(texts, string(data))
				}
			}
			Expect(texts).To(ContainElement(`Foo & "Bar" <Baz>; 'Q' A&B`))
		})

		It("should draw the placeholder without a font", func() {
			var buf bytes.Buffer
			Expect(fe.RenderPreview(&buf, nil, fe.PreviewOptions{Width: 100, Height: 50})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring(fe.NoSelectionText))
		})

		It("should use custom sample lines", func() {
			var buf bytes.Buffer
			Expect(fe.RenderPreview(&buf, &fonts[0], fe.PreviewOptions{Lines: []string{"Sphinx of black quartz"}})).To(Succeed())
			Expect(buf.String()).To(ContainSubstring("Sphinx of black quartz"))
			Expect(buf.String()).NotTo(ContainSubstring("0123456789"))
		})
	})
})
