package mediaserver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vmunix/plexbridge/internal/bridge"
	"github.com/vmunix/plexbridge/internal/events"
	"github.com/vmunix/plexbridge/internal/plex"
)

// Service owns the connect guard and the bridge pool. All methods are safe
// for concurrent use; none of them touch the synchronous client on the
// calling goroutine.
type Service struct {
	pool    *bridge.Pool
	connect ConnectFunc
	bus     *events.Bus // may be nil
	logger  *slog.Logger

	flight singleflight.Group

	mu          sync.Mutex
	state       State
	handle      Handle
	identity    *plex.Identity
	generation  int64
	connectedAt time.Time
}

// New creates a service around the given connection constructor.
// The bus is optional; pass nil to skip lifecycle events.
func New(pool *bridge.Pool, connect ConnectFunc, bus *events.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		pool:    pool,
		connect: connect,
		bus:     bus,
		logger:  logger.With("component", "mediaserver"),
	}
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Error("failed to publish event", "type", e.EventType(), "error", err)
	}
}

// Status is a snapshot of the guard, served without touching the network.
type Status struct {
	State       State
	ServerName  string
	Version     string
	Generation  int64
	ConnectedAt time.Time
}

// Status returns the current guard state and cached identity.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:       s.state,
		Generation:  s.generation,
		ConnectedAt: s.connectedAt,
	}
	if s.identity != nil {
		st.ServerName = s.identity.Name
		st.Version = s.identity.Version
	}
	return st
}

// Connect establishes the connection if it does not exist yet. It is
// never required before other operations; they connect lazily.
func (s *Service) Connect(ctx context.Context) error {
	_, err := s.ensure(ctx)
	return err
}

// Reconnect drops the cached handle and establishes a fresh one.
func (s *Service) Reconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateConnected {
		s.state = StateDisconnected
		s.handle = nil
		s.identity = nil
	}
	s.mu.Unlock()

	_, err := s.ensure(ctx)
	return err
}

// Ping verifies the connection by fetching the server identity. A
// transport failure invalidates the cached handle.
func (s *Service) Ping(ctx context.Context) (*plex.Identity, error) {
	h, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	identity, err := bridge.Call(ctx, s.pool, h.Identity)
	if err != nil {
		s.noteFailure(ctx, h, err)
		return nil, err
	}
	return identity, nil
}

// Search searches for items across all libraries.
func (s *Service) Search(ctx context.Context, query string) ([]plex.Item, error) {
	h, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	items, err := bridge.Call(ctx, s.pool, func() ([]plex.Item, error) {
		return h.Search(query)
	})
	if err != nil {
		s.noteFailure(ctx, h, err)
		return nil, err
	}
	return items, nil
}

// Sections returns all library sections.
func (s *Service) Sections(ctx context.Context) ([]plex.Section, error) {
	h, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	sections, err := bridge.Call(ctx, s.pool, h.Sections)
	if err != nil {
		s.noteFailure(ctx, h, err)
		return nil, err
	}
	return sections, nil
}

// SectionItems returns all items in a library section.
func (s *Service) SectionItems(ctx context.Context, sectionKey string) ([]plex.Item, error) {
	h, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	items, err := bridge.Call(ctx, s.pool, func() ([]plex.Item, error) {
		return h.SectionItems(sectionKey)
	})
	if err != nil {
		s.noteFailure(ctx, h, err)
		return nil, err
	}
	return items, nil
}

// Refresh triggers a full scan of the library section with the given
// name and emits a lifecycle event.
func (s *Service) Refresh(ctx context.Context, libraryName string) error {
	h, err := s.ensure(ctx)
	if err != nil {
		return err
	}

	section, err := bridge.Call(ctx, s.pool, func() (*plex.Section, error) {
		return h.FindSection(libraryName)
	})
	if err != nil {
		s.noteFailure(ctx, h, err)
		return err
	}
	if section == nil {
		return fmt.Errorf("library not found: %s", libraryName)
	}

	if err := bridge.Do(ctx, s.pool, func() error {
		return h.Refresh(section.Key)
	}); err != nil {
		s.noteFailure(ctx, h, err)
		return err
	}

	s.publish(ctx, &events.LibraryRefreshTriggered{
		BaseEvent:    events.NewBaseEvent(events.EventLibraryRefreshTriggered, events.EntityLibrary, 0),
		SectionKey:   section.Key,
		SectionTitle: section.Title,
	})
	return nil
}

// ScanPath triggers a partial scan of the directory containing path and
// emits a lifecycle event.
func (s *Service) ScanPath(ctx context.Context, path string) error {
	h, err := s.ensure(ctx)
	if err != nil {
		return err
	}

	if err := bridge.Do(ctx, s.pool, func() error {
		return h.ScanPath(path)
	}); err != nil {
		s.noteFailure(ctx, h, err)
		return err
	}

	s.publish(ctx, &events.LibraryScanTriggered{
		BaseEvent: events.NewBaseEvent(events.EventLibraryScanTriggered, events.EntityLibrary, 0),
		Path:      path,
	})
	return nil
}

// FindMovie looks up a movie with fuzzy matching and year tolerance.
// Returns (found, ratingKey, error).
func (s *Service) FindMovie(ctx context.Context, title string, year int) (bool, string, error) {
	h, err := s.ensure(ctx)
	if err != nil {
		return false, "", err
	}

	type match struct {
		found bool
		key   string
	}
	m, err := bridge.Call(ctx, s.pool, func() (match, error) {
		found, key, err := h.FindMovie(title, year)
		return match{found: found, key: key}, err
	})
	if err != nil {
		s.noteFailure(ctx, h, err)
		return false, "", err
	}
	return m.found, m.key, nil
}

// FindShow looks up a TV show by title. Returns (found, ratingKey, error).
func (s *Service) FindShow(ctx context.Context, title string) (bool, string, error) {
	h, err := s.ensure(ctx)
	if err != nil {
		return false, "", err
	}

	type match struct {
		found bool
		key   string
	}
	m, err := bridge.Call(ctx, s.pool, func() (match, error) {
		found, key, err := h.FindShow(title)
		return match{found: found, key: key}, err
	})
	if err != nil {
		s.noteFailure(ctx, h, err)
		return false, "", err
	}
	return m.found, m.key, nil
}
