package fe

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder maps every character on its own, without locale or context rules
// such as the final sigma, so adding a keystroke never loses a match.
// Fold is stateless and safe for concurrent use.
var folder = cases.Fold()

func fold(s string) string {
	return folder.String(s)
}

// Matches reports whether query occurs in the font's family or style,
// ignoring case. An empty query matches everything.
func Matches(f Font, query string) bool {
	if query == "" {
		return true
	}
	return matchesFolded(f, fold(query))
}

func matchesFolded(f Font, q string) bool {
	return strings.Contains(fold(f.Family), q) || strings.Contains(fold(f.Style), q)
}

// Apply returns the indices of the fonts matching query, in catalog order.
func Apply(fonts []Font, query string) []int {
	view := make([]int, 0, len(fonts))
	if query == "" {
		for i := range fonts {
			view = append(view, i)
		}
		return view
	}

	q := fold(query)
	for i, f := range fonts {
		if matchesFolded(f, q) {
			view = append(view, i)
		}
	}
	return view
}
