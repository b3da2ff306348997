package platform

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/go-text/typesetting/fontscan"

	"github.com/logandonley/fontenum/pkg/fe"
)

// name table identifiers
const (
	nameFontSubfamily      tables.NameID = 2
	namePreferredSubfamily tables.NameID = 17
)

// fontscanSet lists the system fonts through the go-text font scanner.
// Every footprint is one face of a local font file.
type fontscanSet struct {
	cacheDir string
	log      logr.Logger
}

func (s *fontscanSet) OpenFontSet(ctx context.Context) (fe.FontSet, error) {
	cacheDir := s.cacheDir
	if cacheDir == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("finding cache directory: %w", err)
		}
		cacheDir = dir
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	footprints, err := fontscan.SystemFonts(printfLogger{s.log}, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("scanning system fonts: %w", err)
	}
	return &footprintSet{footprints: footprints}, nil
}

// printfLogger adapts a logr.Logger to the scanner's Printf logging
type printfLogger struct {
	log logr.Logger
}

func (l printfLogger) Printf(format string, args ...interface{}) {
	l.log.V(1).Info(fmt.Sprintf(format, args...))
}

type footprintSet struct {
	footprints []fontscan.Footprint
}

func (s *footprintSet) FaceCount() int { return len(s.footprints) }

func (s *footprintSet) FaceReference(i int) (fe.FaceReference, error) {
	if i < 0 || i >= len(s.footprints) {
		return nil, fmt.Errorf("face index %d out of range", i)
	}
	fp := s.footprints[i]
	return &fileFace{path: fp.Location.File, index: int(fp.Location.Index)}, nil
}

func (s *footprintSet) Property(i int, id fe.PropertyID) (fe.LocalizedStrings, bool, error) {
	if i < 0 || i >= len(s.footprints) {
		return nil, false, fmt.Errorf("face index %d out of range", i)
	}
	fp := s.footprints[i]
	var value string
	switch id {
	case fe.PropertyFamilyName:
		value = fp.Family
	case fe.PropertyFaceName:
		face := &fileFace{path: fp.Location.File, index: int(fp.Location.Index)}
		name, err := face.subfamily()
		if err != nil {
			return nil, false, err
		}
		value = name
	case fe.PropertyWeight:
		if fp.Aspect.Weight == 0 {
			return nil, false, nil
		}
		value = strconv.Itoa(int(fp.Aspect.Weight))
	case fe.PropertyStyle:
		style := fe.StyleNormal
		if fp.Aspect.Style == font.StyleItalic {
			style = fe.StyleItalic
		}
		value = strconv.Itoa(int(style))
	default:
		return nil, false, nil
	}
	if value == "" {
		return nil, false, nil
	}
	return fe.LocalizedNames{{Locale: fe.PreferredLocale, Text: value}}, true, nil
}

func (s *footprintSet) Close() error { return nil }

// fileFace is one face of a font file on disk
type fileFace struct {
	path  string
	index int
}

func (f *fileFace) FilePath() (string, bool) {
	return f.path, f.path != ""
}

// table reads a raw table of the face. A missing table yields nil.
func (f *fileFace) table(tag string) ([]byte, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening font file: %w", err)
	}
	defer file.Close()

	loaders, err := ot.NewLoaders(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.path, err)
	}
	if f.index < 0 || f.index >= len(loaders) {
		return nil, fmt.Errorf("face %d not found in %s", f.index, f.path)
	}
	buffer, err := loaders[f.index].RawTableTo(ot.MustNewTag(tag), nil)
	if err != nil {
		return nil, nil
	}
	return buffer, nil
}

func (f *fileFace) subfamily() (string, error) {
	buffer, err := f.table("name")
	if err != nil || buffer == nil {
		return "", err
	}
	names, _, err := tables.ParseName(buffer)
	if err != nil {
		return "", fmt.Errorf("parsing name table: %w", err)
	}
	if name := names.Name(namePreferredSubfamily); name != "" {
		return name, nil
	}
	return names.Name(nameFontSubfamily), nil
}

func (f *fileFace) Axes() ([]fe.AxisRange, error) {
	buffer, err := f.table("fvar")
	if err != nil || buffer == nil {
		return nil, err
	}
	fvar, _, err := tables.ParseFvar(buffer)
	if err != nil {
		return nil, fmt.Errorf("parsing fvar table: %w", err)
	}
	axes := make([]fe.AxisRange, 0, len(fvar.Axis))
	for _, axis := range fvar.Axis {
		axes = append(axes, fe.AxisRange{
			Tag: tagString(uint32(axis.Tag)),
			Min: float64(axis.Minimum),
			Max: float64(axis.Maximum),
		})
	}
	return axes, nil
}

// tagString renders an OpenType tag, stored big-endian, as four ASCII
// characters
func tagString(tag uint32) string {
	return string([]byte{byte(tag >> 24), byte(tag >> 16), byte(tag >> 8), byte(tag)})
}
