// package testing contains shared testing utilities
package testing

import (
	"context"
	"net/http"
	"os"
	"testing"

	"songpull/internal/audio"
	"songpull/internal/services"
)

// MockCatalog is a test double for the pipeline's catalog collaborator.
// Call counters track how much network-equivalent work a scenario did.
type MockCatalog struct {
	AuthFunc     func(ctx context.Context) error
	ResolveFunc  func(ctx context.Context, query string) (string, error)
	TrackFunc    func(ctx context.Context, trackID string) (*services.SpotifyTrack, error)
	ImageFunc    func(ctx context.Context, imageURL string) ([]byte, error)
	AuthCalls    int
	ResolveCalls int
	TrackCalls   int
	ImageCalls   int
}

func (m *MockCatalog) Authenticate(ctx context.Context) error {
	m.AuthCalls++
	if m.AuthFunc != nil {
		return m.AuthFunc(ctx)
	}
	return nil
}

func (m *MockCatalog) Close() {}

func (m *MockCatalog) ResolveTrackID(ctx context.Context, query string) (string, error) {
	m.ResolveCalls++
	return m.ResolveFunc(ctx, query)
}

func (m *MockCatalog) Track(ctx context.Context, trackID string) (*services.SpotifyTrack, error) {
	m.TrackCalls++
	return m.TrackFunc(ctx, trackID)
}

func (m *MockCatalog) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	m.ImageCalls++
	return m.ImageFunc(ctx, imageURL)
}

// MockLocator is a test double for the source index.
type MockLocator struct {
	SearchFunc  func(ctx context.Context, query string) ([]services.SearchResult, error)
	SearchCalls int
}

func (m *MockLocator) Search(ctx context.Context, query string) ([]services.SearchResult, error) {
	m.SearchCalls++
	return m.SearchFunc(ctx, query)
}

func (m *MockLocator) WatchURL(suffix string) string {
	return "https://youtube.test/" + suffix
}

// MockFetcher is a test double for the stream downloader.
type MockFetcher struct {
	FetchFunc  func(ctx context.Context, sourceURL, targetStem string) (string, error)
	FetchCalls int
}

func (m *MockFetcher) Fetch(ctx context.Context, sourceURL, targetStem string) (string, error) {
	m.FetchCalls++
	return m.FetchFunc(ctx, sourceURL, targetStem)
}

// MockTranscoder is a test double for the encoder.
type MockTranscoder struct {
	TranscodeFunc  func(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error
	TranscodeCalls int
}

func (m *MockTranscoder) Transcode(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error {
	m.TranscodeCalls++
	return m.TranscodeFunc(ctx, inputPath, outputPath, bitrateKbps)
}

// MockTagger is a test double for the tag writer.
type MockTagger struct {
	WriteFunc  func(mp3Path string, tags audio.Tags, cover []byte, removePath string) error
	WriteCalls int
}

func (m *MockTagger) WriteTags(mp3Path string, tags audio.Tags, cover []byte, removePath string) error {
	m.WriteCalls++
	return m.WriteFunc(mp3Path, tags, cover, removePath)
}

// MockPrompter answers download confirmations without a terminal.
type MockPrompter struct {
	Answer bool
	Calls  int
}

func (m *MockPrompter) ConfirmDownload() bool {
	m.Calls++
	return m.Answer
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	RoundTripFunc func(*http.Request) (*http.Response, error)
	Calls         int
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Calls++
	return m.RoundTripFunc(req)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
