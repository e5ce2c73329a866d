package events

// Library event types. Entity ID is the numeric section key where one
// applies, or 0 for cross-library operations.
const (
	EventLibraryRefreshTriggered = "library.refresh_triggered"
	EventLibraryScanTriggered    = "library.scan_triggered"
)

// LibraryRefreshTriggered is emitted when a full section refresh is
// requested.
type LibraryRefreshTriggered struct {
	BaseEvent
	SectionKey   string `json:"section_key"`
	SectionTitle string `json:"section_title"`
}

// LibraryScanTriggered is emitted when a partial scan of a path is
// requested.
type LibraryScanTriggered struct {
	BaseEvent
	Path string `json:"path"`
}
