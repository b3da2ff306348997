package fe

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/muesli/termenv"
)

// Columns are the table headings, in order
var Columns = []string{"Family", "Style", "Weight", "Italic", "Fixed", "Path", "Variable"}

// TableOptions control RenderTable
type TableOptions struct {
	// Highlight marks occurrences of this query in family and style
	Highlight string

	// Output styles headings and highlights. Nil renders plain text.
	Output *termenv.Output

	// NoHeader omits the heading row
	NoHeader bool

	// Widths are minimum column widths, as returned by ColumnWidths. They
	// keep columns in place when only a window of a longer view is drawn.
	Widths []int
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Row returns the table cells for one font
func Row(f Font) []string {
	variable := ""
	if f.IsVariable {
		variable = "Yes: " + f.VariableAxes
	}
	return []string{
		f.Family,
		f.Style,
		strconv.Itoa(f.Weight),
		yesNo(f.Italic),
		yesNo(f.FixedPitch),
		f.FilePath,
		variable,
	}
}

// RenderTable writes the fonts selected by view as an aligned table.
func RenderTable(w io.Writer, fonts []Font, view []int, opts TableOptions) error {
	rows := make([][]string, 0, len(view)+1)
	if !opts.NoHeader {
		rows = append(rows, Columns)
	}
	for _, idx := range view {
		if idx < 0 || idx >= len(fonts) {
			return fmt.Errorf("view index %d out of range [0,%d)", idx, len(fonts))
		}
		rows = append(rows, Row(fonts[idx]))
	}

	widths := make([]int, len(Columns))
	copy(widths, opts.Widths)
	measure(widths, rows)

	query := fold(opts.Highlight)
	for r, row := range rows {
		header := r == 0 && !opts.NoHeader
		var b strings.Builder
		for i, cell := range row {
			pad := widths[i] - utf8.RuneCountInString(cell)
			switch {
			case header:
				cell = styleHeader(opts.Output, cell)
			case i < 2 && query != "":
				cell = highlight(opts.Output, cell, query)
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", pad+2))
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return fmt.Errorf("writing table: %w", err)
		}
	}
	return nil
}

// ColumnWidths returns the width of every column over the heading and all
// fonts of view. Indices outside fonts are ignored.
func ColumnWidths(fonts []Font, view []int) []int {
	widths := make([]int, len(Columns))
	measure(widths, [][]string{Columns})
	for _, idx := range view {
		if idx >= 0 && idx < len(fonts) {
			measure(widths, [][]string{Row(fonts[idx])})
		}
	}
	return widths
}

func measure(widths []int, rows [][]string) {
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
}

func styleHeader(out *termenv.Output, s string) string {
	if out == nil {
		return s
	}
	return out.String(s).Bold().String()
}

// highlight marks every occurrence of the folded query in s. Offsets are
// taken from the folded text, so highlighting is skipped when folding
// changes the byte length.
func highlight(out *termenv.Output, s, query string) string {
	if out == nil {
		return s
	}
	lowered := fold(s)
	if len(lowered) != len(s) {
		return s
	}
	var b strings.Builder
	for {
		idx := strings.Index(lowered, query)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := idx + len(query)
		b.WriteString(s[:idx])
		b.WriteString(out.String(s[idx:end]).Foreground(out.Color("3")).String())
		s, lowered = s[end:], lowered[end:]
	}
}

// RenderJSON writes the fonts selected by view as a JSON array.
func RenderJSON(w io.Writer, fonts []Font, view []int) error {
	selected := make([]Font, 0, len(view))
	for _, idx := range view {
		if idx < 0 || idx >= len(fonts) {
			return fmt.Errorf("view index %d out of range [0,%d)", idx, len(fonts))
		}
		selected = append(selected, fonts[idx])
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(selected); err != nil {
		return fmt.Errorf("encoding fonts: %w", err)
	}
	return nil
}
