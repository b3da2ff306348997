package fe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// DefaultTimeout bounds a single enumeration.
const DefaultTimeout = 30 * time.Second

// Ticket identifies one enumeration started with Session.Begin
type Ticket struct {
	generation uint64
	kind       Kind
}

func (t Ticket) Kind() Kind {
	return t.kind
}

// Session owns the catalog, the filter query and the selection of one
// browsing session. At most one enumeration is current at any time: a newer
// one supersedes the results of older ones.
type Session struct {
	mu         sync.Mutex
	sources    []Source
	catalog    Catalog
	query      string
	view       []int
	selected   int
	mode       Kind
	generation uint64

	timeout time.Duration
	log     logr.Logger
}

// Option configures a Session
type Option func(*Session)

// WithTimeout bounds each enumeration. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithLogger sets the logger handed to the sources
func WithLogger(log logr.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// NewSession creates a session with an empty catalog and no sources
func NewSession(opts ...Option) *Session {
	s := &Session{
		selected: -1,
		timeout:  DefaultTimeout,
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterSource adds a source. Only one source per kind is allowed.
func (s *Session) RegisterSource(source Source) error {
	if source == nil {
		return fmt.Errorf("cannot register nil source")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sources {
		if existing.Kind() == source.Kind() {
			return fmt.Errorf("source %q is already registered for %s", existing.Name(), source.Kind())
		}
	}
	s.sources = append(s.sources, source)
	return nil
}

// Sources returns the registered sources in registration order
func (s *Session) Sources() []Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Source(nil), s.sources...)
}

func (s *Session) source(kind Kind) (Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, source := range s.sources {
		if source.Kind() == kind {
			return source, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", kind, ErrNoSource)
}

// Enumerate replaces the catalog with the fonts of the given source. On
// failure the catalog is left empty.
func (s *Session) Enumerate(ctx context.Context, kind Kind) error {
	ticket := s.Begin(kind)
	fonts, err := s.Fetch(ctx, kind)
	return s.Complete(ticket, fonts, err)
}

// Begin starts a new enumeration: it supersedes any running one and clears
// the catalog, the view and the selection.
func (s *Session) Begin(kind Kind) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.catalog.Clear()
	s.view = nil
	s.selected = -1
	return Ticket{generation: s.generation, kind: kind}
}

// Fetch runs the source for kind without touching session state. It is
// safe to call from another goroutine.
func (s *Session) Fetch(ctx context.Context, kind Kind) ([]Font, error) {
	source, err := s.source(kind)
	if err != nil {
		return nil, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	ctx = logr.NewContext(ctx, s.log)

	start := time.Now()
	fonts, err := source.Enumerate(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s fonts: %w", source.Name(), err)
	}
	s.log.V(1).Info("enumeration finished", "source", source.Name(), "fonts", len(fonts), "elapsed", time.Since(start).String())
	return fonts, nil
}

// Complete installs the result of the enumeration identified by ticket. A
// result for a superseded ticket is discarded with ErrSuperseded.
func (s *Session) Complete(ticket Ticket, fonts []Font, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.generation != s.generation {
		return ErrSuperseded
	}
	if err != nil {
		s.mode = KindNone
		return err
	}
	s.catalog.ReplaceWith(fonts)
	s.mode = ticket.kind
	s.view = Apply(s.catalog.fonts, s.query)
	return nil
}

// SetQuery changes the filter and recomputes the view against the current
// catalog.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.view = Apply(s.catalog.fonts, query)
}

func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Mode returns the source that produced the current catalog
func (s *Session) Mode() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Catalog returns a copy of the current catalog contents
func (s *Session) Catalog() []Font {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Fonts()
}

// View returns the catalog indices of the fonts matching the query
func (s *Session) View() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.view...)
}

// Visible returns the fonts of the view in order
func (s *Session) Visible() []Font {
	s.mu.Lock()
	defer s.mu.Unlock()
	fonts := make([]Font, 0, len(s.view))
	for _, idx := range s.view {
		fonts = append(fonts, s.catalog.At(idx))
	}
	return fonts
}

// Select marks the font shown at row of the view as selected
func (s *Session) Select(row int) (Font, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 || row >= len(s.view) {
		return Font{}, false
	}
	s.selected = s.view[row]
	return s.catalog.At(s.selected), true
}

// Selected returns the selected font, if any
func (s *Session) Selected() (Font, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= s.catalog.Len() {
		return Font{}, false
	}
	return s.catalog.At(s.selected), true
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = -1
}

// Status summarizes the current catalog and view
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query == "" {
		return fmt.Sprintf("%s Enumeration: Found %d fonts", s.mode.Label(), s.catalog.Len())
	}
	return fmt.Sprintf("%s Enumeration: Showing %d of %d fonts", s.mode.Label(), len(s.view), s.catalog.Len())
}
