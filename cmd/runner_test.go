package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"songpull/internal/audio"
	"songpull/internal/services"
	"songpull/internal/shared"
	sptest "songpull/internal/testing"
)

func fixtureTrack() *services.SpotifyTrack {
	return &services.SpotifyTrack{
		ID:   "4iV5W9uYEdYUVa79Axb7Rh",
		Name: "Around the World",
		Artists: []services.SpotifyArtist{
			{Name: "Daft Punk", Genres: []string{"french house"}},
		},
		Album: services.SpotifyAlbum{
			Name:        "Homework",
			Artists:     []services.SpotifyArtist{{Name: "Daft Punk"}},
			ReleaseDate: "1997-01-17",
			Images:      []services.SpotifyImage{{URL: "https://img.test/cover.png"}},
		},
		TrackNumber: 7,
		DiscNumber:  1,
	}
}

func fixturePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// newTestRunner builds a Runner over mocks with a scripted stdin.
func newTestRunner(t *testing.T, input string) (*Runner, *sptest.MockCatalog, *sptest.MockTagger, *bytes.Buffer) {
	t.Helper()

	catalog := &sptest.MockCatalog{
		ResolveFunc: func(ctx context.Context, query string) (string, error) {
			return "4iV5W9uYEdYUVa79Axb7Rh", nil
		},
		TrackFunc: func(ctx context.Context, trackID string) (*services.SpotifyTrack, error) {
			return fixtureTrack(), nil
		},
		ImageFunc: func(ctx context.Context, imageURL string) ([]byte, error) {
			return fixturePNG(t), nil
		},
	}
	locator := &sptest.MockLocator{
		SearchFunc: func(ctx context.Context, query string) ([]services.SearchResult, error) {
			return []services.SearchResult{{Title: query, URLSuffix: "watch?v=abc123"}}, nil
		},
	}
	fetcher := &sptest.MockFetcher{
		FetchFunc: func(ctx context.Context, sourceURL, targetStem string) (string, error) {
			return targetStem + ".webm", nil
		},
	}
	transcoder := &sptest.MockTranscoder{
		TranscodeFunc: func(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error {
			return nil
		},
	}
	tagger := &sptest.MockTagger{
		WriteFunc: func(mp3Path string, tags audio.Tags, cover []byte, removePath string) error {
			return nil
		},
	}

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: &shared.Config{
			Audio: shared.AudioConfig{BitrateKbps: 320, OutputDir: t.TempDir()},
		},
		Catalog:    catalog,
		Locator:    locator,
		Fetcher:    fetcher,
		Transcoder: transcoder,
		Tagger:     tagger,
		Output:     output,
		Input:      strings.NewReader(input),
	})
	return runner, catalog, tagger, output
}

func TestDownload(t *testing.T) {
	t.Run("Seeded Query Completes", func(t *testing.T) {
		// Confirm the download, then decline to search again.
		runner, catalog, tagger, output := newTestRunner(t, "y\nn\n")

		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "around the world"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if catalog.AuthCalls != 1 {
			t.Errorf("expected one authentication, got %d", catalog.AuthCalls)
		}
		if tagger.WriteCalls != 1 {
			t.Errorf("expected one tag write, got %d", tagger.WriteCalls)
		}
		if !strings.Contains(output.String(), "Saved") {
			t.Error("expected a saved report in the output")
		}
	})

	t.Run("Stop Sentinel Exits", func(t *testing.T) {
		runner, catalog, _, _ := newTestRunner(t, "stop\n")

		err := rootCommand(runner).Run(context.Background(), []string{"songpull"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if catalog.ResolveCalls != 0 {
			t.Errorf("stop must not resolve anything, got %d calls", catalog.ResolveCalls)
		}
	})

	t.Run("Stop Is Case-Insensitive", func(t *testing.T) {
		runner, catalog, _, _ := newTestRunner(t, "STOP\n")

		if err := rootCommand(runner).Run(context.Background(), []string{"songpull"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if catalog.ResolveCalls != 0 {
			t.Errorf("stop must not resolve anything, got %d calls", catalog.ResolveCalls)
		}
	})

	t.Run("Query Error Keeps The Loop Alive", func(t *testing.T) {
		// The failed query is reported, then the loop asks to search again.
		runner, catalog, _, output := newTestRunner(t, "n\n")
		catalog.ResolveFunc = func(ctx context.Context, query string) (string, error) {
			return "", fmt.Errorf("%w: status 500", shared.ErrAPIRequest)
		}

		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "around the world"})
		if err != nil {
			t.Fatalf("a per-query failure must not end the run, got %v", err)
		}
		if !strings.Contains(output.String(), "Error:") {
			t.Error("expected the query error to be reported")
		}
	})

	t.Run("Closed Input Exits", func(t *testing.T) {
		runner, _, _, _ := newTestRunner(t, "")

		if err := rootCommand(runner).Run(context.Background(), []string{"songpull"}); err != nil {
			t.Fatalf("expected no error on EOF, got %v", err)
		}
	})
}

func TestInfo(t *testing.T) {
	t.Run("Prints Normalized Record", func(t *testing.T) {
		runner, catalog, _, output := newTestRunner(t, "")

		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "info", "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		for _, want := range []string{`"title": "Around the World"`, `"album": "Homework"`, `"release_year": "1997"`} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %s\ngot: %s", want, out)
			}
		}
		if catalog.TrackCalls != 1 {
			t.Errorf("expected one track fetch, got %d", catalog.TrackCalls)
		}
	})

	t.Run("Empty Query", func(t *testing.T) {
		runner, _, _, _ := newTestRunner(t, "")

		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "info"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestConfirm(t *testing.T) {
	t.Run("Re-Prompts On Invalid Input", func(t *testing.T) {
		runner, _, _, output := newTestRunner(t, "maybe\ny\n")

		if !runner.confirm("ok? ") {
			t.Error("expected eventual yes")
		}
		if !strings.Contains(output.String(), "Invalid input!") {
			t.Error("expected an invalid-input message")
		}
	})

	t.Run("No", func(t *testing.T) {
		runner, _, _, _ := newTestRunner(t, "n\n")
		if runner.confirm("ok? ") {
			t.Error("expected no")
		}
	})

	t.Run("EOF Reads As No", func(t *testing.T) {
		runner, _, _, _ := newTestRunner(t, "")
		if runner.confirm("ok? ") {
			t.Error("expected no on exhausted input")
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("Prompts And Persists Credentials", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")
		configPath := filepath.Join(t.TempDir(), "config.toml")

		runner, _, _, _ := newTestRunner(t, "id123\nsecret456\n")
		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "setup", "--config", configPath})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		config, err := shared.LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if config.Credentials.Spotify.ClientID != "id123" {
			t.Errorf("unexpected client id %q", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Spotify.ClientSecret != "secret456" {
			t.Errorf("unexpected client secret %q", config.Credentials.Spotify.ClientSecret)
		}
	})

	t.Run("Resolved Credentials Skip The Prompt", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env_id")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env_secret")
		configPath := filepath.Join(t.TempDir(), "config.toml")

		// Empty input: any prompt attempt would fail with
		// ErrMissingCredentials, so a nil return proves the short-circuit.
		runner, _, _, _ := newTestRunner(t, "")
		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "setup", "--config", configPath})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Blank Answers Fail", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")
		configPath := filepath.Join(t.TempDir(), "config.toml")

		runner, _, _, _ := newTestRunner(t, "\n\n")
		err := rootCommand(runner).Run(context.Background(), []string{"songpull", "setup", "--config", configPath})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}
