package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps HTTP calls to the plexbridge daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new plexbridge API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", reader)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// API response types (mirror server types)

type StatusResponse struct {
	Connected   bool    `json:"connected"`
	State       string  `json:"state"`
	ServerName  string  `json:"server_name,omitempty"`
	Version     string  `json:"version,omitempty"`
	Generation  int64   `json:"generation"`
	ConnectedAt *string `json:"connected_at,omitempty"`
}

type ItemResponse struct {
	RatingKey string `json:"rating_key"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Type      string `json:"type"`
	AddedAt   int64  `json:"added_at,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
}

type SearchResponse struct {
	Items []ItemResponse `json:"items"`
}

type FindResponse struct {
	Found     bool   `json:"found"`
	RatingKey string `json:"rating_key,omitempty"`
}

type LibraryResponse struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Refreshing bool   `json:"refreshing"`
	ScannedAt  int64  `json:"scanned_at,omitempty"`
}

type EventResponse struct {
	ID         int64           `json:"id"`
	Type       string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt string          `json:"occurred_at"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Connect() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post("/api/v1/connect", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Reconnect() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post("/api/v1/reconnect", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(query string) (*SearchResponse, error) {
	req := map[string]string{"query": query}
	var resp SearchResponse
	if err := c.post("/api/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Find(kind, title string, year int) (*FindResponse, error) {
	params := url.Values{}
	params.Set("title", title)
	if kind != "" {
		params.Set("type", kind)
	}
	if year > 0 {
		params.Set("year", fmt.Sprintf("%d", year))
	}

	var resp FindResponse
	if err := c.get("/api/v1/find?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Libraries() ([]LibraryResponse, error) {
	var resp []LibraryResponse
	if err := c.get("/api/v1/libraries", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) LibraryItems(key string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.get("/api/v1/libraries/"+url.PathEscape(key)+"/items", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RefreshLibrary(name string) error {
	return c.post("/api/v1/libraries/"+url.PathEscape(name)+"/refresh", nil, nil)
}

func (c *Client) Scan(path string) error {
	req := map[string]string{"path": path}
	return c.post("/api/v1/scan", req, nil)
}

func (c *Client) Events(since string) ([]EventResponse, error) {
	path := "/api/v1/events"
	if since != "" {
		path += "?since=" + url.QueryEscape(since)
	}
	var resp []EventResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
