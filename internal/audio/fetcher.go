package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"songpull/internal/shared"
)

// Fetcher downloads the best available audio-only stream for a source URL
// via the yt-dlp binary.
type Fetcher struct {
	binPath string
}

// NewFetcher creates a Fetcher using binPath, defaulting to "yt-dlp" on
// PATH.
func NewFetcher(binPath string) *Fetcher {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Fetcher{binPath: binPath}
}

// Fetch downloads sourceURL to targetStem plus whatever container
// extension the stream provides, overwriting any previous download, and
// returns the path of the file actually produced.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL, targetStem string) (string, error) {
	cmd := exec.CommandContext(ctx, f.binPath, fetchArgs(sourceURL, targetStem)...)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v: %s", shared.ErrDownloadFailed, f.binPath, err, out)
	}

	return findDownloaded(targetStem)
}

func fetchArgs(sourceURL, targetStem string) []string {
	return []string{
		"--format", "bestaudio",
		"--no-playlist",
		"--force-overwrites",
		"--output", targetStem + ".%(ext)s",
		sourceURL,
	}
}

// findDownloaded locates the file yt-dlp produced for targetStem. The
// extension is source-defined, so the directory is scanned by prefix
// rather than guessed.
func findDownloaded(targetStem string) (string, error) {
	dir := filepath.Dir(targetStem)
	prefix := filepath.Base(targetStem) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrDownloadFailed, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if strings.HasSuffix(name, ".mp3") || strings.HasSuffix(name, ".part") {
			continue
		}
		return filepath.Join(dir, name), nil
	}

	return "", fmt.Errorf("%w: no file produced for %q", shared.ErrDownloadFailed, targetStem)
}
