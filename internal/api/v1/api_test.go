package v1_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/plexbridge/internal/api/v1"
	"github.com/vmunix/plexbridge/internal/bridge"
	"github.com/vmunix/plexbridge/internal/events"
	"github.com/vmunix/plexbridge/internal/mediaserver"
	"github.com/vmunix/plexbridge/internal/mediaserver/mocks"
	"github.com/vmunix/plexbridge/internal/migrations"
	"github.com/vmunix/plexbridge/internal/plex"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)
	return db
}

type fixture struct {
	handle *mocks.MockHandle
	svc    *mediaserver.Service
	mux    *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	pool := bridge.NewPool(2, 8, testLogger())
	t.Cleanup(pool.Close)

	f := &fixture{handle: mocks.NewMockHandle(ctrl)}
	f.svc = mediaserver.New(pool, func() (mediaserver.Handle, error) {
		return f.handle, nil
	}, nil, testLogger())

	f.mux = http.NewServeMux()
	v1.New(f.svc).RegisterRoutes(f.mux)
	return f
}

func (f *fixture) expectConnect() {
	f.handle.EXPECT().Identity().Return(&plex.Identity{Name: "velcro", Version: "1.42.2"}, nil)
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestAPI_Status_Disconnected(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Connected)
	assert.Equal(t, "disconnected", resp.State)
	assert.Empty(t, resp.ServerName)
}

func TestAPI_Connect(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()

	rec := f.do(t, http.MethodPost, "/api/v1/connect", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Connected)
	assert.Equal(t, "velcro", resp.ServerName)
	assert.Equal(t, int64(1), resp.Generation)
	require.NotNil(t, resp.ConnectedAt)
}

func TestAPI_Connect_Failure(t *testing.T) {
	pool := bridge.NewPool(2, 8, testLogger())
	defer pool.Close()

	svc := mediaserver.New(pool, func() (mediaserver.Handle, error) {
		return nil, errors.New("invalid token")
	}, nil, testLogger())
	mux := http.NewServeMux()
	v1.New(svc).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/connect", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestAPI_Search(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().Search("alien").Return([]plex.Item{
		{RatingKey: "1", Title: "Alien", Year: 1979, Type: "movie"},
		{RatingKey: "2", Title: "Aliens", Year: 1986, Type: "movie"},
	}, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/search", v1.SearchRequest{Query: "alien"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Alien", resp.Items[0].Title)
	assert.Equal(t, 1986, resp.Items[1].Year)
}

func TestAPI_Search_MissingQuery(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/search", v1.SearchRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_query")
}

func TestAPI_Search_UpstreamFailure(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().Search("alien").Return(nil,
		&url.Error{Op: "Get", URL: "http://plex:32400/search", Err: errors.New("connection refused")})

	rec := f.do(t, http.MethodPost, "/api/v1/search", v1.SearchRequest{Query: "alien"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "plex_unavailable")
}

func TestAPI_Find_Movie(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().FindMovie("Ex Machina", 2014).Return(true, "12345", nil)

	rec := f.do(t, http.MethodGet, "/api/v1/find?title=Ex+Machina&year=2014", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.FindResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, "12345", resp.RatingKey)
}

func TestAPI_Find_Show(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().FindShow("The Expanse").Return(false, "", nil)

	rec := f.do(t, http.MethodGet, "/api/v1/find?title=The+Expanse&type=show", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.FindResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Found)
}

func TestAPI_Find_BadType(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/find?title=x&type=album", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Libraries(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().Sections().Return([]plex.Section{
		{Key: "1", Title: "Movies", Type: "movie"},
		{Key: "2", Title: "TV Shows", Type: "show", RefreshingRaw: 1},
	}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/libraries", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []v1.LibraryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Movies", resp[0].Title)
	assert.True(t, resp[1].Refreshing)
}

func TestAPI_LibraryItems(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().SectionItems("1").Return([]plex.Item{{RatingKey: "10", Title: "Alien"}}, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/libraries/1/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp v1.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Alien", resp.Items[0].Title)
}

func TestAPI_RefreshLibrary(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().FindSection("Movies").Return(&plex.Section{Key: "1", Title: "Movies"}, nil)
	f.handle.EXPECT().Refresh("1").Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/libraries/Movies/refresh", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RefreshLibrary_NotFound(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().FindSection("Music").Return(nil, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/libraries/Music/refresh", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "library_not_found")
}

func TestAPI_Scan(t *testing.T) {
	f := newFixture(t)
	f.expectConnect()
	f.handle.EXPECT().ScanPath("/movies/Alien (1979)/alien.mkv").Return(nil)

	rec := f.do(t, http.MethodPost, "/api/v1/scan", v1.ScanRequest{Path: "/movies/Alien (1979)/alien.mkv"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_Scan_MissingPath(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/scan", v1.ScanRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Events_Disabled(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/events", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "events_disabled")
}

func TestAPI_Events(t *testing.T) {
	f := newFixture(t)

	db := setupTestDB(t)
	log := events.NewEventLog(db)
	api := v1.New(f.svc)
	api.SetEventLog(log)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	_, err := log.Append(&events.ServerConnected{
		BaseEvent:  events.NewBaseEvent(events.EventServerConnected, events.EntityServer, 1),
		ServerName: "velcro",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []v1.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, events.EventServerConnected, resp[0].Type)
	assert.WithinDuration(t, time.Now(), resp[0].OccurredAt, time.Minute)
}

func TestAPI_Events_InvalidSince(t *testing.T) {
	f := newFixture(t)

	db := setupTestDB(t)
	api := v1.New(f.svc)
	api.SetEventLog(events.NewEventLog(db))
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events?since=yesterday", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
