package fe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
)

// FontSetSource adapts a FontSetService. It is the only source that knows
// file paths and variation axes.
type FontSetSource struct {
	service FontSetService
}

func NewFontSetSource(service FontSetService) *FontSetSource {
	return &FontSetSource{service: service}
}

func (s *FontSetSource) Name() string {
	return "fontset"
}

func (s *FontSetSource) Kind() Kind {
	return KindFontSet
}

func (s *FontSetSource) Enumerate(ctx context.Context) ([]Font, error) {
	if s.service == nil {
		return nil, unavailable(s.Name(), fmt.Errorf("no font set service"))
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("source", s.Name())

	set, err := s.service.OpenFontSet(ctx)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}
	defer set.Close()

	var fonts []Font
	var skipped int
	for i := 0; i < set.FaceCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enumerating %s fonts: %w", s.Name(), err)
		}

		ref, err := set.FaceReference(i)
		if err != nil {
			log.V(1).Info("skipping face", "index", i, "error", err.Error())
			skipped++
			continue
		}

		font := fontSetFont(log, set, i, ref)
		if font.Family == "" {
			skipped++
			continue
		}
		fonts = append(fonts, font)
	}

	SortByFamilyStyle(fonts)
	log.V(1).Info("enumerated fonts", "fonts", len(fonts), "skipped", skipped)
	return fonts, nil
}

func fontSetFont(log logr.Logger, set FontSet, i int, ref FaceReference) Font {
	font := Font{
		Weight:  WeightNormal,
		CharSet: DefaultCharSet,
	}

	if path, ok := ref.FilePath(); ok {
		font.FilePath = path
	}

	font.Family = lookupName(log, set, i, PropertyFamilyName)
	font.Style = lookupName(log, set, i, PropertyFaceName)

	if weight, ok := lookupInt(log, set, i, PropertyWeight); ok {
		font.Weight = weight
	}
	if style, ok := lookupInt(log, set, i, PropertyStyle); ok {
		font.Italic = FaceStyle(style).IsItalic()
	}

	axes, err := ref.Axes()
	if err != nil {
		log.V(1).Info("reading variation axes", "index", i, "error", err.Error())
	} else {
		font.VariableAxes, font.IsVariable = FormatAxes(axes)
	}
	return font
}

func lookupName(log logr.Logger, set FontSet, i int, id PropertyID) string {
	names, exists, err := set.Property(i, id)
	if err != nil {
		log.V(1).Info("reading property", "index", i, "property", id.String(), "error", err.Error())
		return ""
	}
	if !exists {
		return ""
	}
	name, err := ResolveName(names)
	if err != nil {
		log.V(1).Info("resolving property", "index", i, "property", id.String(), "error", err.Error())
		return ""
	}
	return name
}

// lookupInt reads a numeric property, which the font set reports as
// decimal text.
func lookupInt(log logr.Logger, set FontSet, i int, id PropertyID) (int, bool) {
	names, exists, err := set.Property(i, id)
	if err != nil || !exists || names == nil || names.Count() == 0 {
		return 0, false
	}
	text, err := names.String(0)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		log.V(1).Info("parsing property", "index", i, "property", id.String(), "value", text)
		return 0, false
	}
	return n, true
}

// FormatAxes renders the axes whose minimum differs from their maximum as
// "TAG MIN-MAX" entries joined by ", ". The bool reports whether any axis
// varies.
func FormatAxes(axes []AxisRange) (string, bool) {
	var parts []string
	for _, axis := range axes {
		if axis.Min == axis.Max {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.0f-%.0f", axis.Tag, axis.Min, axis.Max))
	}
	return strings.Join(parts, ", "), len(parts) > 0
}
