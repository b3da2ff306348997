package fe

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrServiceUnavailable is returned when an enumeration service cannot
	// be initialized. No partial results accompany it.
	ErrServiceUnavailable = errors.New("font service unavailable")

	// ErrSuperseded is returned when an enumeration finishes after a newer
	// one has started.
	ErrSuperseded = errors.New("enumeration superseded")

	// ErrNoSource is returned when no source is registered for a kind.
	ErrNoSource = errors.New("no source registered")
)

// Kind identifies one of the three enumeration sources
type Kind int

const (
	KindNone Kind = iota
	KindLegacy
	KindModern
	KindFontSet
)

// Kinds lists the enumeration sources in presentation order.
var Kinds = []Kind{KindLegacy, KindModern, KindFontSet}

func (k Kind) String() string {
	switch k {
	case KindLegacy:
		return "legacy"
	case KindModern:
		return "modern"
	case KindFontSet:
		return "fontset"
	}
	return "none"
}

// Label is the name shown in status lines.
func (k Kind) Label() string {
	switch k {
	case KindLegacy:
		return "Legacy"
	case KindModern:
		return "Modern"
	case KindFontSet:
		return "FontSet"
	}
	return "No"
}

// ParseKind parses a source name as accepted on the command line
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy", "gdi":
		return KindLegacy, nil
	case "modern", "directwrite", "dwrite":
		return KindModern, nil
	case "fontset", "font-set":
		return KindFontSet, nil
	}
	return KindNone, fmt.Errorf("unknown source %q (want legacy, modern or fontset)", s)
}

// Source enumerates the fonts visible through one platform service
type Source interface {
	// Name returns a human readable identifier for this source
	Name() string

	// Kind returns which of the three sources this is
	Kind() Kind

	// Enumerate returns the fonts in the source's canonical order
	Enumerate(ctx context.Context) ([]Font, error)
}

func unavailable(source string, err error) error {
	return fmt.Errorf("%s: %w: %w", source, ErrServiceUnavailable, err)
}
