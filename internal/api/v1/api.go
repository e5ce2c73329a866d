// Package v1 implements the bridge daemon's REST API.
package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/plexbridge/internal/bridge"
	"github.com/vmunix/plexbridge/internal/events"
	"github.com/vmunix/plexbridge/internal/mediaserver"
	"github.com/vmunix/plexbridge/internal/plex"
)

// Server is the v1 API server.
type Server struct {
	service  *mediaserver.Service
	eventLog *events.EventLog // may be nil
}

// New creates a new v1 API server.
func New(service *mediaserver.Service) *Server {
	return &Server{service: service}
}

// SetEventLog enables the events endpoint.
func (s *Server) SetEventLog(log *events.EventLog) {
	s.eventLog = log
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("POST /api/v1/connect", s.connect)
	mux.HandleFunc("POST /api/v1/reconnect", s.reconnect)

	mux.HandleFunc("POST /api/v1/search", s.search)
	mux.HandleFunc("GET /api/v1/find", s.find)

	mux.HandleFunc("GET /api/v1/libraries", s.listLibraries)
	mux.HandleFunc("GET /api/v1/libraries/{key}/items", s.listLibraryItems)
	mux.HandleFunc("POST /api/v1/libraries/{name}/refresh", s.refreshLibrary)
	mux.HandleFunc("POST /api/v1/scan", s.scan)

	mux.HandleFunc("GET /api/v1/events", s.listEvents)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeUpstreamError maps a service failure to an HTTP status: bridge
// saturation is retryable (503), everything else is an upstream failure
// (502).
func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bridge.ErrPoolSaturated):
		writeError(w, http.StatusServiceUnavailable, "bridge_saturated", err.Error())
	case errors.Is(err, bridge.ErrPoolClosed):
		writeError(w, http.StatusServiceUnavailable, "bridge_closed", err.Error())
	default:
		writeError(w, http.StatusBadGateway, "plex_unavailable", err.Error())
	}
}

// StatusResponse describes the connection state.
type StatusResponse struct {
	Connected   bool       `json:"connected"`
	State       string     `json:"state"`
	ServerName  string     `json:"server_name,omitempty"`
	Version     string     `json:"version,omitempty"`
	Generation  int64      `json:"generation"`
	ConnectedAt *time.Time `json:"connected_at,omitempty"`
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status()

	resp := StatusResponse{
		Connected:  st.State == mediaserver.StateConnected,
		State:      st.State.String(),
		ServerName: st.ServerName,
		Version:    st.Version,
		Generation: st.Generation,
	}
	if !st.ConnectedAt.IsZero() {
		resp.ConnectedAt = &st.ConnectedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Connect(r.Context()); err != nil {
		writeUpstreamError(w, err)
		return
	}
	s.getStatus(w, r)
}

func (s *Server) reconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reconnect(r.Context()); err != nil {
		writeUpstreamError(w, err)
		return
	}
	s.getStatus(w, r)
}

// ItemResponse is a media item.
type ItemResponse struct {
	RatingKey string `json:"rating_key"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Type      string `json:"type"`
	AddedAt   int64  `json:"added_at,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
}

func toItemResponses(items []plex.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ItemResponse{
			RatingKey: item.RatingKey,
			Title:     item.Title,
			Year:      item.Year,
			Type:      item.Type,
			AddedAt:   item.AddedAt,
			FilePath:  item.FilePath,
		}
	}
	return out
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the result of a search.
type SearchResponse struct {
	Items []ItemResponse `json:"items"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "missing_query", "query is required")
		return
	}

	items, err := s.service.Search(r.Context(), req.Query)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Items: toItemResponses(items)})
}

// FindResponse is the result of a find lookup.
type FindResponse struct {
	Found     bool   `json:"found"`
	RatingKey string `json:"rating_key,omitempty"`
}

func (s *Server) find(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "missing_title", "title is required")
		return
	}

	var (
		found bool
		key   string
		err   error
	)
	switch kind := r.URL.Query().Get("type"); kind {
	case "", "movie":
		year := queryInt(r, "year", 0)
		found, key, err = s.service.FindMovie(r.Context(), title, year)
	case "show":
		found, key, err = s.service.FindShow(r.Context(), title)
	default:
		writeError(w, http.StatusBadRequest, "invalid_type", "type must be movie or show")
		return
	}
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FindResponse{Found: found, RatingKey: key})
}

// LibraryResponse is a library section.
type LibraryResponse struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Refreshing bool   `json:"refreshing"`
	ScannedAt  int64  `json:"scanned_at,omitempty"`
}

func (s *Server) listLibraries(w http.ResponseWriter, r *http.Request) {
	sections, err := s.service.Sections(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}

	out := make([]LibraryResponse, len(sections))
	for i, sec := range sections {
		out[i] = LibraryResponse{
			Key:        sec.Key,
			Title:      sec.Title,
			Type:       sec.Type,
			Refreshing: sec.Refreshing(),
			ScannedAt:  sec.ScannedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listLibraryItems(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	items, err := s.service.SectionItems(r.Context(), key)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Items: toItemResponses(items)})
}

func (s *Server) refreshLibrary(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.service.Refresh(r.Context(), name); err != nil {
		if strings.Contains(err.Error(), "library not found") {
			writeError(w, http.StatusNotFound, "library_not_found", err.Error())
			return
		}
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refresh triggered"})
}

// ScanRequest is the body of POST /api/v1/scan.
type ScanRequest struct {
	Path string `json:"path"`
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid JSON body")
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "missing_path", "path is required")
		return
	}

	if err := s.service.ScanPath(r.Context(), req.Path); err != nil {
		if errors.Is(err, plex.ErrNoSection) {
			writeError(w, http.StatusNotFound, "no_section", err.Error())
			return
		}
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "scan triggered"})
}

// EventResponse is a persisted lifecycle event.
type EventResponse struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if s.eventLog == nil {
		writeError(w, http.StatusNotFound, "events_disabled", "event log not configured")
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_since", "since must be RFC3339")
			return
		}
		since = parsed
	}

	rawEvents, err := s.eventLog.Since(since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "event_log_error", err.Error())
		return
	}

	out := make([]EventResponse, len(rawEvents))
	for i, e := range rawEvents {
		out[i] = EventResponse{
			ID:         e.ID,
			Type:       e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    json.RawMessage(e.Payload),
			OccurredAt: e.OccurredAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// queryInt extracts an optional integer from the query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
