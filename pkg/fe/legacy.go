package fe

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// LegacySource adapts a LegacyService. It keeps one font per distinct
// (family, style) pair, the first one reported.
type LegacySource struct {
	service LegacyService
}

func NewLegacySource(service LegacyService) *LegacySource {
	return &LegacySource{service: service}
}

func (s *LegacySource) Name() string {
	return "legacy"
}

func (s *LegacySource) Kind() Kind {
	return KindLegacy
}

func (s *LegacySource) Enumerate(ctx context.Context) ([]Font, error) {
	if s.service == nil {
		return nil, unavailable(s.Name(), fmt.Errorf("no legacy service"))
	}
	log := logr.FromContextOrDiscard(ctx).WithValues("source", s.Name())

	var fonts []Font
	seen := make(map[FaceKey]struct{})
	var visited, dropped int

	err := s.service.EnumFaces(ctx, func(face LegacyFace) bool {
		visited++
		if ctx.Err() != nil {
			return false
		}
		font := Font{
			Family:     face.Family,
			Style:      face.Style,
			Weight:     face.Weight,
			Italic:     face.Italic,
			FixedPitch: face.FixedPitch,
			CharSet:    face.CharSet,
		}
		if _, exists := seen[font.Key()]; exists {
			dropped++
			return true
		}
		seen[font.Key()] = struct{}{}
		fonts = append(fonts, font)
		return true
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("enumerating %s fonts: %w", s.Name(), ctxErr)
	}
	if err != nil {
		return nil, unavailable(s.Name(), err)
	}

	SortByFamily(fonts)
	log.V(1).Info("enumerated fonts", "visited", visited, "duplicates", dropped, "fonts", len(fonts))
	return fonts, nil
}
