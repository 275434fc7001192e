package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"songpull/internal/shared"
)

// Transcoder produces a fixed-bitrate MP3 from a downloaded source file by
// invoking an external ffmpeg binary.
type Transcoder struct {
	binPath string
}

// NewTranscoder creates a Transcoder using binPath, defaulting to
// "ffmpeg" on PATH.
func NewTranscoder(binPath string) *Transcoder {
	if binPath == "" {
		binPath = "ffmpeg"
	}
	return &Transcoder{binPath: binPath}
}

// Transcode encodes inputPath to an MP3 at outputPath with the given
// average bitrate, stripping video/subtitle/data streams and padding the
// tail with two seconds of silence (some sources truncate the trailing
// edge). The output is overwritten unconditionally.
//
// A non-zero encoder exit maps to [shared.ErrEncodeFailed] with the
// captured stderr, as does an exit that produced no output file.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error {
	cmd := exec.CommandContext(ctx, t.binPath, transcodeArgs(inputPath, outputPath, bitrateKbps)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v: %s", shared.ErrEncodeFailed, t.binPath, err, stderr.String())
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: encoder exited cleanly but wrote no output: %v", shared.ErrEncodeFailed, err)
	}

	return nil
}

func transcodeArgs(inputPath, outputPath string, bitrateKbps int) []string {
	return []string{
		"-v", "quiet",
		"-y",
		"-i", inputPath,
		"-acodec", "libmp3lame",
		"-abr", "true",
		"-af", "apad=pad_dur=2",
		"-vn", "-sn", "-dn",
		"-b:a", fmt.Sprintf("%dk", bitrateKbps),
		outputPath,
	}
}
