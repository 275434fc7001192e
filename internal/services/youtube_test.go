package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"songpull/internal/shared"
)

// resultsPage wraps a ytInitialData blob the way the live results page
// embeds it.
func resultsPage(blob string) string {
	return fmt.Sprintf(
		`<!DOCTYPE html><html><body><script>var ytInitialData = %s;</script></body></html>`,
		blob,
	)
}

func videoBlob(videos ...[2]string) string {
	items := ""
	for i, v := range videos {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(
			`{"videoRenderer":{"videoId":%q,"title":{"runs":[{"text":%q}]}}}`,
			v[0], v[1],
		)
	}
	return fmt.Sprintf(`{"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[%s]}}]}}}}}`, items)
}

func TestParseSearchResults(t *testing.T) {
	t.Run("Extracts Videos In Page Order", func(t *testing.T) {
		page := resultsPage(videoBlob(
			[2]string{"dQw4w9WgXcQ", "First Video"},
			[2]string{"9bZkp7q19f0", "Second Video"},
		))

		results, err := parseSearchResults(page)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].URLSuffix != "watch?v=dQw4w9WgXcQ" {
			t.Errorf("unexpected first suffix %q", results[0].URLSuffix)
		}
		if results[0].Title != "First Video" {
			t.Errorf("unexpected first title %q", results[0].Title)
		}
		if results[1].URLSuffix != "watch?v=9bZkp7q19f0" {
			t.Errorf("unexpected second suffix %q", results[1].URLSuffix)
		}
	})

	t.Run("Skips Non-Video Entries", func(t *testing.T) {
		blob := `{"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[{"shelfRenderer":{}},{"videoRenderer":{"videoId":"abc123","title":{"runs":[{"text":"Only Video"}]}}}]}}]}}}}}`

		results, err := parseSearchResults(resultsPage(blob))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if results[0].Title != "Only Video" {
			t.Errorf("unexpected title %q", results[0].Title)
		}
	})

	t.Run("Missing Data Block", func(t *testing.T) {
		_, err := parseSearchResults("<html><body>no data here</body></html>")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Unterminated Data Block", func(t *testing.T) {
		_, err := parseSearchResults(`<script>var ytInitialData = {"contents":{}}`)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("Returns Ordered Results", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("search_query")
			fmt.Fprint(w, resultsPage(videoBlob([2]string{"abc123", "Around the World"})))
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL, nil)
		results, err := svc.Search(context.Background(), "Daft Punk - Around the World")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotQuery != "Daft Punk - Around the World" {
			t.Errorf("unexpected search query %q", gotQuery)
		}
		if results[0].URLSuffix != "watch?v=abc123" {
			t.Errorf("unexpected suffix %q", results[0].URLSuffix)
		}
	})

	t.Run("Zero Hits", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, resultsPage(videoBlob()))
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL, nil)
		_, err := svc.Search(context.Background(), "gibberish")
		if !errors.Is(err, shared.ErrNoSearchResults) {
			t.Errorf("expected ErrNoSearchResults, got %v", err)
		}
	})

	t.Run("HTTP Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "throttled", http.StatusTooManyRequests)
		}))
		defer server.Close()

		svc := NewYouTubeService(server.URL, nil)
		_, err := svc.Search(context.Background(), "anything")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestWatchURL(t *testing.T) {
	svc := NewYouTubeService("", nil)

	t.Run("Bare Suffix", func(t *testing.T) {
		got := svc.WatchURL("watch?v=abc123")
		if got != "https://youtube.com/watch?v=abc123" {
			t.Errorf("unexpected watch URL %q", got)
		}
	})

	t.Run("Leading Slash", func(t *testing.T) {
		got := svc.WatchURL("/watch?v=abc123")
		if got != "https://youtube.com/watch?v=abc123" {
			t.Errorf("unexpected watch URL %q", got)
		}
	})
}
