// Package mediaserver exposes an asynchronous, context-aware surface over
// the synchronous Plex client. Every call that reaches the server is
// offloaded through the bridge pool; the connection handle is created
// lazily on first use and cached until a transport failure invalidates it.
package mediaserver

import (
	"github.com/vmunix/plexbridge/internal/plex"
)

// Handle is the synchronous media server client surface wrapped by the
// Service. plex.Client is the production implementation.
type Handle interface {
	// Identity returns the server name and version. It doubles as the
	// connection probe.
	Identity() (*plex.Identity, error)

	// Sections returns all library sections.
	Sections() ([]plex.Section, error)

	// FindSection finds a library section by name. Returns nil if not found.
	FindSection(name string) (*plex.Section, error)

	// Search searches for items across all libraries.
	Search(query string) ([]plex.Item, error)

	// SectionItems returns all items in a library section.
	SectionItems(sectionKey string) ([]plex.Item, error)

	// SectionCount returns the number of items in a library section.
	SectionCount(sectionKey string) (int, error)

	// Refresh triggers a full scan of a library section.
	Refresh(sectionKey string) error

	// ScanPath triggers a partial scan of the directory containing path.
	ScanPath(path string) error

	// FindMovie looks up a movie with fuzzy matching and year tolerance.
	FindMovie(title string, year int) (bool, string, error)

	// FindShow looks up a TV show by title.
	FindShow(title string) (bool, string, error)
}

// Ensure plex.Client implements Handle.
var _ Handle = (*plex.Client)(nil)

// ConnectFunc builds a fresh synchronous client handle. It must block
// until the handle is constructed; it runs on a bridge worker, never on
// the caller's goroutine. The returned handle is probed with Identity
// before it is cached.
type ConnectFunc func() (Handle, error)
