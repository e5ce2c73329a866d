// Package plex implements a synchronous client for the Plex Media Server
// HTTP API. Every method blocks until the server responds or the client
// timeout fires; async callers must go through the bridge pool instead of
// calling this package directly.
package plex

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoSection is returned when no library section covers a requested path.
var ErrNoSection = errors.New("no library section for path")

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 30 * time.Second

// Client talks to a Plex Media Server using token authentication.
type Client struct {
	baseURL    string
	token      string
	localPath  string // path prefix on this machine
	remotePath string // same prefix as Plex sees it
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithPathMapping translates between local paths and the paths Plex sees,
// for setups where Plex runs in a container with different mounts.
func WithPathMapping(localPath, remotePath string) Option {
	return func(c *Client) {
		c.localPath = localPath
		c.remotePath = remotePath
	}
}

// New creates a client for the server at baseURL.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a token-authenticated GET and decodes the XML body into out.
// Pass nil out for endpoints whose response body is irrelevant.
func (c *Client) get(path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Identity holds Plex server identity information.
type Identity struct {
	Name    string
	Version string
}

type identityResponse struct {
	XMLName      xml.Name `xml:"MediaContainer"`
	FriendlyName string   `xml:"friendlyName,attr"`
	Version      string   `xml:"version,attr"`
}

// Identity returns the server name and version. It doubles as the
// connection probe: a handle whose Identity call succeeds is usable.
func (c *Client) Identity() (*Identity, error) {
	var result identityResponse
	if err := c.get("/", nil, &result); err != nil {
		return nil, err
	}
	return &Identity{
		Name:    result.FriendlyName,
		Version: result.Version,
	}, nil
}

// Section represents a Plex library section.
type Section struct {
	Key           string     `xml:"key,attr"`
	Title         string     `xml:"title,attr"`
	Type          string     `xml:"type,attr"`
	Locations     []Location `xml:"Location"`
	ScannedAt     int64      `xml:"scannedAt,attr"`
	RefreshingRaw int        `xml:"refreshing,attr"`
}

// Refreshing returns true if the section is currently being scanned.
func (s Section) Refreshing() bool {
	return s.RefreshingRaw == 1
}

// Location represents a library section's filesystem location.
type Location struct {
	Path string `xml:"path,attr"`
}

type sectionsResponse struct {
	XMLName  xml.Name  `xml:"MediaContainer"`
	Sections []Section `xml:"Directory"`
}

// Sections returns all library sections.
func (c *Client) Sections() ([]Section, error) {
	var result sectionsResponse
	if err := c.get("/library/sections", nil, &result); err != nil {
		return nil, err
	}
	return result.Sections, nil
}

// FindSection finds a library section by name (case-insensitive).
// Returns nil if not found.
func (c *Client) FindSection(name string) (*Section, error) {
	sections, err := c.Sections()
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		if strings.EqualFold(sec.Title, name) {
			return &sec, nil
		}
	}
	return nil, nil
}

// Item represents a media item in Plex.
type Item struct {
	RatingKey string // Plex's unique identifier for the item
	Title     string
	Year      int
	Type      string // movie, show, episode
	AddedAt   int64
	FilePath  string
}

type itemXML struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Year      int    `xml:"year,attr"`
	Type      string `xml:"type,attr"`
	AddedAt   int64  `xml:"addedAt,attr"`
	Media     []struct {
		Part []struct {
			File string `xml:"file,attr"`
		} `xml:"Part"`
	} `xml:"Media"`
}

func (x itemXML) item() Item {
	filePath := ""
	if len(x.Media) > 0 && len(x.Media[0].Part) > 0 {
		filePath = x.Media[0].Part[0].File
	}
	return Item{
		RatingKey: x.RatingKey,
		Title:     x.Title,
		Year:      x.Year,
		Type:      x.Type,
		AddedAt:   x.AddedAt,
		FilePath:  filePath,
	}
}

// containerResponse covers every endpoint that returns a MediaContainer of
// Video (movies, episodes) and Directory (shows, seasons) entries.
type containerResponse struct {
	XMLName     xml.Name  `xml:"MediaContainer"`
	Size        int       `xml:"size,attr"`
	Videos      []itemXML `xml:"Video"`
	Directories []itemXML `xml:"Directory"`
}

func (r containerResponse) items() []Item {
	items := make([]Item, 0, len(r.Videos)+len(r.Directories))
	for _, v := range r.Videos {
		items = append(items, v.item())
	}
	for _, d := range r.Directories {
		items = append(items, d.item())
	}
	return items
}

// Search searches for items across all libraries.
func (c *Client) Search(query string) ([]Item, error) {
	q := url.Values{"query": []string{query}}
	var result containerResponse
	if err := c.get("/search", q, &result); err != nil {
		return nil, err
	}
	return result.items(), nil
}

// SectionItems returns all items in a library section.
func (c *Client) SectionItems(sectionKey string) ([]Item, error) {
	var result containerResponse
	if err := c.get("/library/sections/"+sectionKey+"/all", nil, &result); err != nil {
		return nil, err
	}
	return result.items(), nil
}

// SectionCount returns the number of items in a library section without
// fetching the items themselves.
func (c *Client) SectionCount(sectionKey string) (int, error) {
	q := url.Values{"X-Plex-Container-Size": []string{"0"}}
	var result containerResponse
	if err := c.get("/library/sections/"+sectionKey+"/all", q, &result); err != nil {
		return 0, err
	}
	return result.Size, nil
}

// Refresh triggers a full scan of a library section.
func (c *Client) Refresh(sectionKey string) error {
	return c.get("/library/sections/"+sectionKey+"/refresh", nil, nil)
}

// ScanPath triggers a partial scan of the directory containing the given
// file path, translating local paths to Plex's view where a mapping is
// configured.
func (c *Client) ScanPath(filePath string) error {
	remotePath := c.translateToRemote(filePath)
	remoteDir := filepath.Dir(remotePath)

	sections, err := c.Sections()
	if err != nil {
		return fmt.Errorf("get sections: %w", err)
	}

	var sectionKey string
	for _, section := range sections {
		for _, loc := range section.Locations {
			if strings.HasPrefix(remoteDir, loc.Path) || strings.HasPrefix(remotePath, loc.Path) {
				sectionKey = section.Key
				break
			}
		}
		if sectionKey != "" {
			break
		}
	}
	if sectionKey == "" {
		return fmt.Errorf("%w: %s (translated: %s)", ErrNoSection, filePath, remotePath)
	}

	q := url.Values{"path": []string{remoteDir}}
	if err := c.get("/library/sections/"+sectionKey+"/refresh", q, nil); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return nil
}

// translateToRemote converts a local path to the path Plex expects.
func (c *Client) translateToRemote(path string) string {
	if c.localPath == "" || c.remotePath == "" {
		return path
	}
	if strings.HasPrefix(path, c.localPath) {
		return c.remotePath + path[len(c.localPath):]
	}
	return path
}

// TranslateToLocal converts a Plex path to the local path.
func (c *Client) TranslateToLocal(path string) string {
	if c.localPath == "" || c.remotePath == "" {
		return path
	}
	if strings.HasPrefix(path, c.remotePath) {
		return c.localPath + path[len(c.remotePath):]
	}
	return path
}
