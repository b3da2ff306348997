package fe

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// ModernSource adapts a CollectionService. Families and faces that fail to
// resolve are skipped; no deduplication is applied.
type ModernSource struct {
	service CollectionService
}

func NewModernSource(service CollectionService) *ModernSource {
	return &ModernSource{service: service}
}

func (s *ModernSource) Name() string {
	return "modern"
}

func (s *ModernSource) Kind() Kind {
	return KindModern
}

func (s *ModernSource) Enumerate(ctx context.Context) ([]Font, error) {
	if s.service == nil {
		return nil, unavailable(s.Name(), fmt.Errorf("no collection service"))
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("source", s.Name())

	collection, err := s.service.OpenCollection(ctx)
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}
	defer collection.Close()

	var fonts []Font
	for i := 0; i < collection.FamilyCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("enumerating %s fonts: %w", s.Name(), err)
		}

		family, err := collection.Family(i)
		if err != nil {
			log.V(1).Info("skipping family", "index", i, "error", err.Error())
			continue
		}
		names, err := family.FamilyNames()
		if err != nil {
			log.V(1).Info("skipping family", "index", i, "error", err.Error())
			continue
		}
		familyName, err := ResolveName(names)
		if err != nil {
			log.V(1).Info("skipping family", "index", i, "error", err.Error())
			continue
		}

		for j := 0; j < family.FaceCount(); j++ {
			face, err := family.Face(j)
			if err != nil {
				log.V(1).Info("skipping face", "family", familyName, "index", j, "error", err.Error())
				continue
			}
			fonts = append(fonts, modernFont(log, familyName, face))
		}
	}

	SortByFamilyStyle(fonts)
	log.V(1).Info("enumerated fonts", "fonts", len(fonts))
	return fonts, nil
}

func modernFont(log logr.Logger, family string, face FontFace) Font {
	font := Font{
		Family:  family,
		Weight:  face.Weight(),
		Italic:  face.Style().IsItalic(),
		CharSet: DefaultCharSet,
	}

	// A face whose names cannot be read keeps an empty style
	if names, err := face.FaceNames(); err == nil {
		if style, err := ResolveName(names); err == nil {
			font.Style = style
		} else {
			log.V(1).Info("resolving face name", "family", family, "error", err.Error())
		}
	} else {
		log.V(1).Info("reading face names", "family", family, "error", err.Error())
	}

	if mono, ok := face.(MonospaceReporter); ok {
		font.FixedPitch = mono.IsMonospaced()
	}
	return font
}
