package plex

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fuzzyThreshold is the minimum Jaro-Winkler similarity for a fuzzy title
// match. Jaro-Winkler favors common prefixes, which suits media titles.
const fuzzyThreshold = 0.85

// FindMovie searches for a movie with fuzzy title matching and year
// tolerance. Returns (found, ratingKey, error).
//
// Matching strategy:
//  1. Normalized title match with exact year
//  2. Normalized title match with ±1 year tolerance
//  3. Fuzzy title match for year-in-title variations
//     (e.g. "Blade Runner" + year=2049 matches "Blade Runner 2049")
func (c *Client) FindMovie(title string, year int) (bool, string, error) {
	movies, err := c.searchByType(title, "movie")
	if err != nil {
		return false, "", err
	}

	// Plex search can be finicky with long titles or punctuation; retry
	// with individual distinctive words before giving up.
	if len(movies) == 0 {
		movies, err = c.fallbackSearch(title)
		if err != nil {
			return false, "", err
		}
	}
	if len(movies) == 0 {
		return false, "", nil
	}

	normalizedSearch := normalizeTitle(title)

	for _, item := range movies {
		if item.Year == year && normalizeTitle(item.Title) == normalizedSearch {
			return true, item.RatingKey, nil
		}
	}

	for _, item := range movies {
		yearDiff := item.Year - year
		if yearDiff >= -1 && yearDiff <= 1 && normalizeTitle(item.Title) == normalizedSearch {
			return true, item.RatingKey, nil
		}
	}

	for _, item := range movies {
		if !containsYear(item.Title, year) {
			continue
		}
		titleWithoutYear := removeYear(item.Title, year)
		score := float64(edlib.JaroWinklerSimilarity(normalizedSearch, normalizeTitle(titleWithoutYear)))
		if score >= fuzzyThreshold {
			return true, item.RatingKey, nil
		}
	}

	return false, "", nil
}

// FindShow checks if a TV show exists by title.
// Returns (found, ratingKey, error).
func (c *Client) FindShow(title string) (bool, string, error) {
	shows, err := c.searchByType(title, "show")
	if err != nil {
		return false, "", err
	}
	if len(shows) == 0 {
		return false, "", nil
	}

	normalizedSearch := normalizeTitle(title)

	for _, item := range shows {
		if normalizeTitle(item.Title) == normalizedSearch {
			return true, item.RatingKey, nil
		}
	}

	for _, item := range shows {
		score := float64(edlib.JaroWinklerSimilarity(normalizedSearch, normalizeTitle(item.Title)))
		if score >= fuzzyThreshold {
			return true, item.RatingKey, nil
		}
	}

	return false, "", nil
}

// searchByType searches and filters results to a single item type.
func (c *Client) searchByType(query, itemType string) ([]Item, error) {
	items, err := c.Search(query)
	if err != nil {
		return nil, err
	}
	var filtered []Item
	for _, item := range items {
		if item.Type == itemType {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// fallbackSearch tries individual distinctive words from the title,
// longest first.
func (c *Client) fallbackSearch(title string) ([]Item, error) {
	var candidates []string
	for _, word := range strings.Fields(title) {
		if len(word) >= 4 && !isCommonWord(strings.ToLower(word)) {
			candidates = append(candidates, word)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i]) > len(candidates[j])
	})

	for _, word := range candidates {
		movies, err := c.searchByType(word, "movie")
		if err != nil {
			return nil, err
		}
		if len(movies) > 0 {
			return movies, nil
		}
	}
	return nil, nil
}

// isCommonWord returns true for words too common to be useful for search.
func isCommonWord(word string) bool {
	common := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true,
		"of": true, "to": true, "in": true, "for": true, "on": true,
		"with": true, "how": true, "what": true, "who": true, "that": true,
		"this": true, "from": true, "into": true,
	}
	return common[word]
}

// normalizeTitle prepares a title for comparison: lowercase, accents
// stripped, punctuation removed, whitespace collapsed.
func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = removeAccents(s)

	s = strings.ReplaceAll(s, "&", " and ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ":", " ")
	s = strings.ReplaceAll(s, ".", " ")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// containsYear checks if the title contains the given year.
func containsYear(title string, year int) bool {
	return strings.Contains(title, fmt.Sprintf("%d", year))
}

// removeYear removes a year from a title string.
func removeYear(title string, year int) string {
	result := strings.ReplaceAll(title, fmt.Sprintf("%d", year), "")
	return strings.Join(strings.Fields(result), " ")
}
