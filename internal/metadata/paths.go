package metadata

// ResolvedPaths holds the two path forms derived from a display name: the
// extension-less working path handed to the downloader and the final
// tagged MP3 path. Equality of FinalMP3Path across runs with an identical
// display name is what makes re-runs idempotent.
type ResolvedPaths struct {
	DisplayName      string
	WorkingAudioPath string
	FinalMP3Path     string
}

// ResolvePaths derives the local paths for a display name inside dir
// (the working directory when empty).
//
// The display name is used verbatim: no filesystem escaping is performed,
// so names containing path separators break single-file construction.
// Sanitizing would change the path-derivation key, so the limitation is
// kept rather than fixed.
func ResolvePaths(dir, displayName string) ResolvedPaths {
	if dir == "" {
		dir = "."
	}
	stem := dir + "/" + displayName
	return ResolvedPaths{
		DisplayName:      displayName,
		WorkingAudioPath: stem,
		FinalMP3Path:     stem + ".mp3",
	}
}
