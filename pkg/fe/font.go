package fe

import (
	"cmp"
	"slices"
)

// Weights on the OpenType 100-900 scale
const (
	WeightNormal = 400
	WeightBold   = 700
)

// DefaultCharSet is the character set reported by every source except the
// legacy one.
const DefaultCharSet = 1

// Font represents one font face as exposed by one enumeration source
type Font struct {
	Family       string `json:"family"`                  // Typeface family, e.g. "Arial"
	Style        string `json:"style"`                   // Face name within the family, e.g. "Bold Italic"
	FilePath     string `json:"file_path,omitempty"`     // Backing file, only for locally addressable fonts
	VariableAxes string `json:"variable_axes,omitempty"` // e.g. "wght 100-900, wdth 75-125"
	Weight       int    `json:"weight"`
	Italic       bool   `json:"italic"`
	FixedPitch   bool   `json:"fixed_pitch"`
	IsVariable   bool   `json:"is_variable"`
	CharSet      int    `json:"charset"`
}

// FaceKey identifies a face by family and style
type FaceKey struct {
	Family string
	Style  string
}

// Key returns the (family, style) pair used to deduplicate legacy results.
func (f Font) Key() FaceKey {
	return FaceKey{Family: f.Family, Style: f.Style}
}

// SortByFamily orders fonts by family name only. Ties keep their
// discovery order.
func SortByFamily(fonts []Font) {
	slices.SortStableFunc(fonts, func(a, b Font) int {
		return cmp.Compare(a.Family, b.Family)
	})
}

// SortByFamilyStyle orders fonts by family name, then style name.
func SortByFamilyStyle(fonts []Font) {
	slices.SortStableFunc(fonts, func(a, b Font) int {
		if c := cmp.Compare(a.Family, b.Family); c != 0 {
			return c
		}
		return cmp.Compare(a.Style, b.Style)
	})
}
