package fe

import (
	"context"
	"fmt"
	"strings"
)

// PreferredLocale is the locale looked up first when resolving names.
const PreferredLocale = "en-us"

// LocalizedStrings is a set of names keyed by locale tag
type LocalizedStrings interface {
	// Count returns the number of entries
	Count() int

	// FindLocale returns the index of the entry for locale, if any
	FindLocale(locale string) (int, bool)

	// String returns the text of the entry at index i
	String(i int) (string, error)
}

// LocalizedName is one entry of a LocalizedNames set
type LocalizedName struct {
	Locale string
	Text   string
}

// LocalizedNames is the in-memory LocalizedStrings implementation
type LocalizedNames []LocalizedName

func (n LocalizedNames) Count() int { return len(n) }

func (n LocalizedNames) FindLocale(locale string) (int, bool) {
	for i, name := range n {
		if strings.EqualFold(name.Locale, locale) {
			return i, true
		}
	}
	return 0, false
}

func (n LocalizedNames) String(i int) (string, error) {
	if i < 0 || i >= len(n) {
		return "", fmt.Errorf("localized name index %d out of range [0,%d)", i, len(n))
	}
	return n[i].Text, nil
}

// ResolveName picks the "en-us" entry when present and otherwise the first
// entry.
func ResolveName(names LocalizedStrings) (string, error) {
	if names == nil || names.Count() == 0 {
		return "", nil
	}
	idx, ok := names.FindLocale(PreferredLocale)
	if !ok {
		idx = 0
	}
	return names.String(idx)
}

// LegacyFace is what the legacy service reports for one (family, style,
// charset) combination
type LegacyFace struct {
	Family     string
	Style      string
	Weight     int
	Italic     bool
	FixedPitch bool
	CharSet    int
}

// LegacyService is the oldest platform font listing facility. EnumFaces
// calls visit once per face until visit returns false.
type LegacyService interface {
	EnumFaces(ctx context.Context, visit func(LegacyFace) bool) error
}

// FaceStyle is a face's slant classification
type FaceStyle int

const (
	StyleNormal FaceStyle = iota
	StyleOblique
	StyleItalic
)

// IsItalic reports whether the style counts as italic. Oblique does.
func (s FaceStyle) IsItalic() bool {
	return s == StyleItalic || s == StyleOblique
}

// CollectionService opens the system-wide font collection
type CollectionService interface {
	OpenCollection(ctx context.Context) (FontCollection, error)
}

// FontCollection is a set of font families
type FontCollection interface {
	FamilyCount() int
	Family(i int) (FontFamily, error)
	Close() error
}

// FontFamily groups the faces of one typeface family
type FontFamily interface {
	FamilyNames() (LocalizedStrings, error)
	FaceCount() int
	Face(i int) (FontFace, error)
}

// FontFace is one face inside a FontFamily
type FontFace interface {
	FaceNames() (LocalizedStrings, error)
	Weight() int
	Style() FaceStyle
}

// MonospaceReporter is the optional extended capability of a FontFace
// that can tell whether it is monospaced.
type MonospaceReporter interface {
	IsMonospaced() bool
}

// PropertyID names a font set property
type PropertyID int

const (
	PropertyFamilyName PropertyID = iota
	PropertyFaceName
	PropertyWeight
	PropertyStyle
)

func (p PropertyID) String() string {
	switch p {
	case PropertyFamilyName:
		return "family-name"
	case PropertyFaceName:
		return "face-name"
	case PropertyWeight:
		return "weight"
	case PropertyStyle:
		return "style"
	}
	return fmt.Sprintf("property(%d)", int(p))
}

// FontSetService opens the system-wide font set
type FontSetService interface {
	OpenFontSet(ctx context.Context) (FontSet, error)
}

// FontSet is a flat list of font faces
type FontSet interface {
	FaceCount() int
	FaceReference(i int) (FaceReference, error)

	// Property returns the named property of face i. Weight and style are
	// decimal text. The bool reports whether the property exists.
	Property(i int, id PropertyID) (LocalizedStrings, bool, error)

	Close() error
}

// AxisRange is the range of one variation axis
type AxisRange struct {
	Tag string // four character axis tag, e.g. "wght"
	Min float64
	Max float64
}

// FaceReference points at one face inside a font file
type FaceReference interface {
	// FilePath returns the backing file when it is locally addressable
	FilePath() (string, bool)

	// Axes returns the variation axes of the face in table order
	Axes() ([]AxisRange, error)
}
