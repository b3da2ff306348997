package platform

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/logandonley/fontenum/pkg/fe"
)

// fc-list output formats. One line per pattern, fields separated by tabs.
const (
	fcLegacyFormat = `%{family[0]}\t%{style[0]}\t%{weight}\t%{slant}\t%{spacing}\n`
	fcModernFormat = `%{family}\t%{familylang}\t%{style}\t%{stylelang}\t%{weight}\t%{slant}\t%{spacing}\n`
)

// fontconfig slant and spacing constants
const (
	fcSlantItalic  = 100
	fcSlantOblique = 110

	fcMono     = 100
	fcCharCell = 110
)

// fcList runs fc-list with the given output format
func fcList(ctx context.Context, format string) ([]byte, error) {
	path, err := exec.LookPath("fc-list")
	if err != nil {
		return nil, fmt.Errorf("finding fc-list: %w", err)
	}
	cmd := exec.CommandContext(ctx, path, "--format", format)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running fc-list: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return output, nil
}

// fontconfigLegacy reports every fontconfig pattern as one legacy face.
// The same family and style show up once per file providing it.
type fontconfigLegacy struct {
	list func(ctx context.Context, format string) ([]byte, error)
}

func (l *fontconfigLegacy) EnumFaces(ctx context.Context, visit func(fe.LegacyFace) bool) error {
	output, err := l.list(ctx, fcLegacyFormat)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		face, ok := parseLegacyLine(scanner.Text())
		if !ok {
			continue
		}
		if !visit(face) {
			return nil
		}
	}
	return scanner.Err()
}

func parseLegacyLine(line string) (fe.LegacyFace, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) != 5 || fields[0] == "" {
		return fe.LegacyFace{}, false
	}
	slant := parseFcInt(fields[3])
	return fe.LegacyFace{
		Family:     unescapeFc(fields[0]),
		Style:      unescapeFc(fields[1]),
		Weight:     fcWeightToOpenType(fields[2]),
		Italic:     slant == fcSlantItalic || slant == fcSlantOblique,
		FixedPitch: isFixedSpacing(fields[4]),
		CharSet:    fe.DefaultCharSet,
	}, true
}

// fontconfigCollection groups fontconfig patterns into families
type fontconfigCollection struct {
	list func(ctx context.Context, format string) ([]byte, error)
}

func (c *fontconfigCollection) OpenCollection(ctx context.Context) (fe.FontCollection, error) {
	output, err := c.list(ctx, fcModernFormat)
	if err != nil {
		return nil, err
	}
	return parseCollection(output)
}

type fcCollection struct {
	families []*fcFamily
}

type fcFamily struct {
	names fe.LocalizedNames
	faces []*fcFace
}

type fcFace struct {
	names      fe.LocalizedNames
	weight     int
	style      fe.FaceStyle
	monospaced bool
}

func parseCollection(output []byte) (*fcCollection, error) {
	collection := &fcCollection{}
	byKey := make(map[string]*fcFamily)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 7 || fields[0] == "" {
			continue
		}
		familyNames := localizedNames(fields[0], fields[1])
		key := fields[0]
		family, ok := byKey[key]
		if !ok {
			family = &fcFamily{names: familyNames}
			byKey[key] = family
			collection.families = append(collection.families, family)
		}

		face := &fcFace{
			names:      localizedNames(fields[2], fields[3]),
			weight:     fcWeightToOpenType(fields[4]),
			monospaced: isFixedSpacing(fields[6]),
		}
		switch parseFcInt(fields[5]) {
		case fcSlantItalic:
			face.style = fe.StyleItalic
		case fcSlantOblique:
			face.style = fe.StyleOblique
		}
		family.faces = append(family.faces, face)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading fc-list output: %w", err)
	}
	return collection, nil
}

func (c *fcCollection) FamilyCount() int { return len(c.families) }

func (c *fcCollection) Family(i int) (fe.FontFamily, error) {
	if i < 0 || i >= len(c.families) {
		return nil, fmt.Errorf("family index %d out of range", i)
	}
	return c.families[i], nil
}

func (c *fcCollection) Close() error { return nil }

func (f *fcFamily) FamilyNames() (fe.LocalizedStrings, error) { return f.names, nil }
func (f *fcFamily) FaceCount() int                            { return len(f.faces) }

func (f *fcFamily) Face(i int) (fe.FontFace, error) {
	if i < 0 || i >= len(f.faces) {
		return nil, fmt.Errorf("face index %d out of range", i)
	}
	return f.faces[i], nil
}

func (f *fcFace) FaceNames() (fe.LocalizedStrings, error) { return f.names, nil }
func (f *fcFace) Weight() int                             { return f.weight }
func (f *fcFace) Style() fe.FaceStyle                     { return f.style }
func (f *fcFace) IsMonospaced() bool                      { return f.monospaced }

// localizedNames pairs a comma separated value list with its language
// list. Values without a language keep an empty locale.
func localizedNames(values, langs string) fe.LocalizedNames {
	vs := splitFcList(values)
	ls := splitFcList(langs)
	names := make(fe.LocalizedNames, 0, len(vs))
	for i, v := range vs {
		locale := ""
		if i < len(ls) {
			locale = ls[i]
		}
		names = append(names, fe.LocalizedName{Locale: locale, Text: v})
	}
	return names
}

// splitFcList splits on commas not escaped with a backslash
func splitFcList(s string) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(s[i])
		case s[i] == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(s[i])
		}
	}
	return append(parts, cur.String())
}

func unescapeFc(s string) string {
	return strings.Join(splitFcList(s), ",")
}

func parseFcInt(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func isFixedSpacing(s string) bool {
	spacing := parseFcInt(s)
	return spacing == fcMono || spacing == fcCharCell
}

// fontconfig weight to OpenType weight, as in FcWeightToOpenTypeDouble
var fcWeightMap = []struct{ fc, ot float64 }{
	{0, 100},
	{40, 200},
	{50, 300},
	{55, 350},
	{75, 380},
	{80, 400},
	{100, 500},
	{180, 600},
	{200, 700},
	{205, 800},
	{210, 900},
	{215, 1000},
}

// fcWeightToOpenType maps a fontconfig weight to the 100-900 scale.
// Missing values and ranges of variable fonts map to normal.
func fcWeightToOpenType(s string) int {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fe.WeightNormal
	}
	if w <= fcWeightMap[0].fc {
		return int(fcWeightMap[0].ot)
	}
	for i := 1; i < len(fcWeightMap); i++ {
		lo, hi := fcWeightMap[i-1], fcWeightMap[i]
		if w <= hi.fc {
			ot := lo.ot + (w-lo.fc)*(hi.ot-lo.ot)/(hi.fc-lo.fc)
			return int(math.Round(ot))
		}
	}
	return int(fcWeightMap[len(fcWeightMap)-1].ot)
}
