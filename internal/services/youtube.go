// YouTube search index client
//
// Scrapes the public results page the same way a browser-less search
// library would: fetch /results, pull the ytInitialData JSON blob out of
// the page, and walk its videoRenderer entries.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"songpull/internal/shared"
)

const defaultYouTubeBaseURL = "https://youtube.com"

// SearchResult is one entry of the ordered result list for a text query.
type SearchResult struct {
	Title     string
	URLSuffix string
}

// YouTubeService locates playable sources via the public YouTube search
// index. Results keep the index's order; callers take the first entry.
type YouTubeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeService creates a new YouTube search client. baseURL and
// client default to the public site and [http.DefaultClient].
func NewYouTubeService(baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    baseURL,
		httpClient: client,
	}
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Search issues a text query against the results index and returns the
// ordered result list. Returns [shared.ErrNoSearchResults] when the index
// yields nothing.
func (y *YouTubeService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	endpoint := fmt.Sprintf("%s/results?search_query=%s", y.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: youtube status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	results, err := parseSearchResults(string(body))
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", shared.ErrNoSearchResults, query)
	}

	return results, nil
}

// WatchURL builds the canonical playable URL for a result's path suffix.
func (y *YouTubeService) WatchURL(suffix string) string {
	return y.baseURL + "/" + strings.TrimPrefix(suffix, "/")
}

// extractInitialData pulls the ytInitialData JSON object out of a results
// page.
func extractInitialData(page string) (string, error) {
	const marker = "ytInitialData = "

	start := strings.Index(page, marker)
	if start < 0 {
		return "", fmt.Errorf("%w: ytInitialData not found in results page", shared.ErrAPIRequest)
	}

	rest := page[start+len(marker):]
	end := strings.Index(rest, ";</script>")
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated ytInitialData block", shared.ErrAPIRequest)
	}

	return rest[:end], nil
}

// parseSearchResults walks the videoRenderer entries of a results page in
// page order.
func parseSearchResults(page string) ([]SearchResult, error) {
	blob, err := extractInitialData(page)
	if err != nil {
		return nil, err
	}

	var data struct {
		Contents struct {
			TwoColumnSearchResultsRenderer struct {
				PrimaryContents struct {
					SectionListRenderer struct {
						Contents []struct {
							ItemSectionRenderer struct {
								Contents []struct {
									VideoRenderer struct {
										VideoID string `json:"videoId"`
										Title   struct {
											Runs []struct {
												Text string `json:"text"`
											} `json:"runs"`
										} `json:"title"`
									} `json:"videoRenderer"`
								} `json:"contents"`
							} `json:"itemSectionRenderer"`
						} `json:"contents"`
					} `json:"sectionListRenderer"`
				} `json:"primaryContents"`
			} `json:"twoColumnSearchResultsRenderer"`
		} `json:"contents"`
	}

	if err := json.Unmarshal([]byte(blob), &data); err != nil {
		return nil, fmt.Errorf("failed to decode ytInitialData: %w", err)
	}

	var results []SearchResult
	sections := data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			video := item.VideoRenderer
			if video.VideoID == "" {
				continue
			}

			result := SearchResult{URLSuffix: "watch?v=" + video.VideoID}
			if len(video.Title.Runs) > 0 {
				result.Title = video.Title.Runs[0].Text
			}
			results = append(results, result)
		}
	}

	return results, nil
}
