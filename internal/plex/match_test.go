package plex

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchServer returns a test server whose /search endpoint always replies
// with the given XML body.
func searchServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			w.Header().Set("Content-Type", "application/xml")
			fmt.Fprint(w, body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
}

func TestFindMovie_ExactMatch(t *testing.T) {
	server := searchServer(t, `<?xml version="1.0"?>
<MediaContainer>
  <Video ratingKey="12345" title="Ex Machina" year="2014" type="movie"/>
</MediaContainer>`)
	defer server.Close()

	client := New(server.URL, "test-token")

	found, key, err := client.FindMovie("Ex Machina", 2014)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "12345", key)
}

func TestFindMovie_YearTolerance(t *testing.T) {
	// Release years are often off by one from Plex metadata years
	// (release year vs theatrical year).
	server := searchServer(t, `<?xml version="1.0"?>
<MediaContainer>
  <Video ratingKey="12345" title="Ex Machina" year="2014" type="movie"/>
</MediaContainer>`)
	defer server.Close()

	client := New(server.URL, "test-token")

	found, key, err := client.FindMovie("Ex Machina", 2015)
	require.NoError(t, err)
	assert.True(t, found, "should match with ±1 year tolerance")
	assert.Equal(t, "12345", key)

	found, _, err = client.FindMovie("Ex Machina", 2017)
	require.NoError(t, err)
	assert.False(t, found, "should not match with 2+ year difference")
}

func TestFindMovie_YearInTitle(t *testing.T) {
	server := searchServer(t, `<?xml version="1.0"?>
<MediaContainer>
  <Video ratingKey="67890" title="Blade Runner 2049" year="2017" type="movie"/>
</MediaContainer>`)
	defer server.Close()

	client := New(server.URL, "test-token")

	found, key, err := client.FindMovie("Blade Runner", 2049)
	require.NoError(t, err)
	assert.True(t, found, "should find 'Blade Runner' when Plex has 'Blade Runner 2049'")
	assert.Equal(t, "67890", key)
}

func TestFindMovie_PunctuationDifferences(t *testing.T) {
	server := searchServer(t, `<?xml version="1.0"?>
<MediaContainer>
  <Video ratingKey="7" title="Dr. Strangelove" year="1964" type="movie"/>
</MediaContainer>`)
	defer server.Close()

	client := New(server.URL, "test-token")

	found, _, err := client.FindMovie("Dr Strangelove", 1964)
	require.NoError(t, err)
	assert.True(t, found, "normalization should bridge 'Dr.' vs 'Dr'")
}

func TestFindMovie_IgnoresShows(t *testing.T) {
	server := searchServer(t, `<?xml version="1.0"?>
<MediaContainer>
  <Directory ratingKey="9" title="Fargo" year="2014" type="show"/>
</MediaContainer>`)
	defer server.Close()

	client := New(server.URL, "test-token")

	found, _, err := client.FindMovie("Fargo", 2014)
	require.NoError(t, err)
	assert.False(t, found, "show results must not satisfy a movie lookup")
}

func TestFindMovie_FallbackSearch(t *testing.T) {
	// First query returns nothing; the fallback retries with distinctive
	// words from the title.
	queries := []string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		queries = append(queries, q)
		w.Header().Set("Content-Type", "application/xml")
		if strings.HasPrefix(q, "Incendies") && q != "Incendies: The Movie" {
			fmt.Fprint(w, `<?xml version="1.0"?>
<MediaContainer>
  <Video ratingKey="55" title="Incendies: The Movie" year="2010" type="movie"/>
</MediaContainer>`)
			return
		}
		fmt.Fprint(w, `<?xml version="1.0"?><MediaContainer></MediaContainer>`)
	}))
	defer server.Close()

	client := New(server.URL, "test-token")

	found, key, err := client.FindMovie("Incendies: The Movie", 2010)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "55", key)
	assert.Greater(t, len(queries), 1, "fallback should have issued extra queries")
}

func TestFindShow(t *testing.T) {
	server := searchServer(t, `<?xml version="1.0"?>
<MediaContainer>
  <Directory ratingKey="31" title="The Expanse" type="show"/>
</MediaContainer>`)
	defer server.Close()

	client := New(server.URL, "test-token")

	found, key, err := client.FindShow("The Expanse")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "31", key)

	found, _, err = client.FindShow("Severance")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Léon: The Professional", "leon the professional"},
		{"Dr. Strangelove", "dr strangelove"},
		{"Spider-Man", "spider man"},
		{"Ocean's Eleven", "oceans eleven"},
		{"Fast & Furious", "fast and furious"},
		{"  Collapsed   Spaces  ", "collapsed spaces"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTitle(tt.in), "input: %q", tt.in)
	}
}

func TestRemoveYear(t *testing.T) {
	assert.Equal(t, "Blade Runner", removeYear("Blade Runner 2049", 2049))
	assert.Equal(t, "Blade Runner 2049", removeYear("Blade Runner 2049", 1982))
}
