package platform

import (
	"github.com/go-logr/logr"

	"github.com/logandonley/fontenum/pkg/fe"
)

// Services holds the three font enumeration services of the platform
type Services struct {
	Legacy     fe.LegacyService     // Oldest font listing facility
	Collection fe.CollectionService // System font collection, families and faces
	FontSet    fe.FontSetService    // Flat list of faces backed by font files
}

// Options configure the platform services
type Options struct {
	// Log receives diagnostics from the services
	Log logr.Logger

	// CacheDir holds the font scanner's index. Defaults to the user cache
	// directory.
	CacheDir string
}

// New returns the services of the current platform
func New(opts Options) Services {
	if opts.Log.GetSink() == nil {
		opts.Log = logr.Discard()
	}
	return newServices(opts)
}

// Sources wraps every available service in its enumeration adapter
func (s Services) Sources() []fe.Source {
	var sources []fe.Source
	if s.Legacy != nil {
		sources = append(sources, fe.NewLegacySource(s.Legacy))
	}
	if s.Collection != nil {
		sources = append(sources, fe.NewModernSource(s.Collection))
	}
	if s.FontSet != nil {
		sources = append(sources, fe.NewFontSetSource(s.FontSet))
	}
	return sources
}
