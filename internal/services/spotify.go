// Spotify API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"songpull/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// spotifyDomain is the substring heuristic that decides whether a
	// query is a catalog link or free-text search terms.
	spotifyDomain = "spotify.com"
)

// SpotifyImage represents an image resource. Spotify orders image lists
// largest first.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	URI    string   `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Genres      []string        `json:"genres"`
	ReleaseDate string          `json:"release_date"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	TrackNumber int             `json:"track_number"`
	DiscNumber  int             `json:"disc_number"`
	DurationMS  int             `json:"duration_ms"`
	URI         string          `json:"uri"`
}

// SpotifyService holds the client-credentials session against the Spotify
// Web API. One access token is fetched per session and reused for every
// catalog call; there is no re-authentication path.
type SpotifyService struct {
	config     *clientcredentials.Config
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSpotifyService creates a new Spotify service with the given credentials.
//
// Required keys: "client_id" and "client_secret". Optional keys
// "token_url" and "base_url" override the Spotify endpoints.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	tokenURL := credentials["token_url"]
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	baseURL := credentials["base_url"]
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}

	// Spotify rate limits per rolling 30s window; pace requests rather
	// than surface 429s mid-pipeline.
	return &SpotifyService{
		config:  config,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate performs the client-credentials exchange and keeps the
// resulting token source for the session lifetime. A failed exchange is
// fatal for the run.
//
// Pass an [oauth2.HTTPClient] context value to direct the token exchange
// through a custom transport.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	if _, err := s.config.Token(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.httpClient = s.config.Client(ctx)
	return nil
}

// Close releases the session's idle connections. Safe to call on a
// service that never authenticated.
func (s *SpotifyService) Close() {
	if s.httpClient != nil {
		s.httpClient.CloseIdleConnections()
	}
}

// ResolveTrackID resolves a raw query to a catalog track id.
//
// Queries containing the catalog domain are treated as links: the id is
// the URL-decoded trailing path segment, taken without validation or an
// existence check. Anything else goes through catalog search, returning
// the first hit's id or [shared.ErrTrackNotFound] on zero hits.
func (s *SpotifyService) ResolveTrackID(ctx context.Context, query string) (string, error) {
	if strings.Contains(query, spotifyDomain) {
		decoded, err := url.QueryUnescape(query)
		if err != nil {
			decoded = query
		}
		parts := strings.Split(decoded, "/")
		return parts[len(parts)-1], nil
	}

	return s.searchTrackID(ctx, query)
}

func (s *SpotifyService) searchTrackID(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("/search?q=%s&type=track", url.QueryEscape(query))

	var response struct {
		Tracks struct {
			Items []SpotifyTrack `json:"items"`
		} `json:"tracks"`
	}

	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return "", err
	}

	if len(response.Tracks.Items) == 0 {
		return "", fmt.Errorf("%w: %q", shared.ErrTrackNotFound, query)
	}

	return response.Tracks.Items[0].ID, nil
}

// Track retrieves full track data by id.
func (s *SpotifyService) Track(ctx context.Context, trackID string) (*SpotifyTrack, error) {
	var track SpotifyTrack
	endpoint := fmt.Sprintf("/tracks/%s", trackID)
	if err := s.doRequest(ctx, endpoint, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// FetchImage downloads the raw bytes at the given URL through the session
// client.
func (s *SpotifyService) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if s.httpClient == nil {
		return nil, fmt.Errorf("not authenticated: call Authenticate first")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: image fetch status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// doRequest performs an authenticated GET against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		return fmt.Errorf("not authenticated: call Authenticate first")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
