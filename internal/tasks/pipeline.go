package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"songpull/internal/audio"
	"songpull/internal/formatter"
	"songpull/internal/metadata"
	"songpull/internal/services"
	"songpull/internal/shared"
	"songpull/internal/ui"
)

// Catalog is the read surface of the music catalog used by the pipeline.
type Catalog interface {
	ResolveTrackID(ctx context.Context, query string) (string, error)
	Track(ctx context.Context, trackID string) (*services.SpotifyTrack, error)
	FetchImage(ctx context.Context, imageURL string) ([]byte, error)
}

// Locator finds candidate media sources for a display name.
type Locator interface {
	Search(ctx context.Context, query string) ([]services.SearchResult, error)
	WatchURL(suffix string) string
}

// Fetcher downloads the audio-only stream for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, targetStem string) (string, error)
}

// Transcoder produces the fixed-bitrate MP3 from a downloaded file.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string, bitrateKbps int) error
}

// Tagger writes the final tag set and deletes the intermediate.
type Tagger interface {
	WriteTags(mp3Path string, tags audio.Tags, cover []byte, removePath string) error
}

// Prompter asks the user to confirm a download before network-heavy work
// starts.
type Prompter interface {
	ConfirmDownload() bool
}

// Outcome is the terminal state a query reached.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	OutcomeCompleted
	OutcomeAlreadyExists
	OutcomeDeclined
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeAlreadyExists:
		return "already exists"
	case OutcomeDeclined:
		return "declined"
	default:
		return "failed"
	}
}

// Pipeline composes the collaborators for one query run. Collaborators
// are held by explicit reference; the pipeline adds no behavior of its
// own beyond sequencing and branching.
type Pipeline struct {
	catalog     Catalog
	locator     Locator
	fetcher     Fetcher
	transcoder  Transcoder
	tagger      Tagger
	prompter    Prompter
	bitrateKbps int
	outputDir   string
	logger      *log.Logger
	output      io.Writer
}

// PipelineOpts contains configuration options for creating a Pipeline.
type PipelineOpts struct {
	Catalog     Catalog
	Locator     Locator
	Fetcher     Fetcher
	Transcoder  Transcoder
	Tagger      Tagger
	Prompter    Prompter
	BitrateKbps int
	OutputDir   string
	Logger      *log.Logger
	Output      io.Writer
}

// NewPipeline creates a Pipeline with the provided collaborators.
func NewPipeline(opts PipelineOpts) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.BitrateKbps <= 0 {
		opts.BitrateKbps = 320
	}

	return &Pipeline{
		catalog:     opts.Catalog,
		locator:     opts.Locator,
		fetcher:     opts.Fetcher,
		transcoder:  opts.Transcoder,
		tagger:      opts.Tagger,
		prompter:    opts.Prompter,
		bitrateKbps: opts.BitrateKbps,
		outputDir:   opts.OutputDir,
		logger:      opts.Logger,
		output:      opts.Output,
	}
}

// Process runs one query through the pipeline to a terminal state.
//
// The catalog decides the branch: a resolved id takes the metadata-rich
// catalog path, [shared.ErrTrackNotFound] falls back to searching the
// source index with the raw query, and any other resolution error is
// fatal for the query.
func (p *Pipeline) Process(ctx context.Context, query string) (Outcome, error) {
	trackID, err := p.catalog.ResolveTrackID(ctx, query)
	switch {
	case err == nil:
		return p.processCatalogTrack(ctx, trackID)
	case errors.Is(err, shared.ErrTrackNotFound):
		fmt.Fprintf(p.output, "%s\n", ui.Err("Song not found in the catalog, searching the source index directly"))
		return p.processDirectTrack(ctx, query)
	default:
		return OutcomeFailed, err
	}
}

// processCatalogTrack handles the catalog-hit branch: full metadata,
// cover art, and the display name as the search term.
func (p *Pipeline) processCatalogTrack(ctx context.Context, trackID string) (Outcome, error) {
	track, err := p.catalog.Track(ctx, trackID)
	if err != nil {
		return OutcomeFailed, err
	}

	record := metadata.Normalize(track)
	paths := metadata.ResolvePaths(p.outputDir, record.DisplayName())

	fmt.Fprint(p.output, formatter.TrackPanel(record))

	if outcome, done := p.checkTarget(paths); done {
		return outcome, nil
	}

	intermediate, err := p.obtainAudio(ctx, paths.DisplayName, paths)
	if err != nil {
		return OutcomeFailed, err
	}

	cover, err := p.fetchCover(ctx, record)
	if err != nil {
		return OutcomeFailed, err
	}

	tags := audio.Tags{
		Title:       record.Title,
		Artist:      record.ArtistLine(),
		Album:       record.Album,
		Genre:       record.GenreLine(),
		AlbumArtist: record.AlbumArtistLine(),
		TrackNumber: record.TrackNumber,
		DiscNumber:  record.DiscNumber,
		Year:        record.ReleaseYear,
	}

	if err := p.tagger.WriteTags(paths.FinalMP3Path, tags, cover, intermediate); err != nil {
		return OutcomeFailed, err
	}

	p.reportSaved(paths.FinalMP3Path)
	return OutcomeCompleted, nil
}

// processDirectTrack handles the catalog-miss branch: the raw query is
// the search term, the first result's title is the display name, and the
// file gets a title-only tag with no art.
func (p *Pipeline) processDirectTrack(ctx context.Context, query string) (Outcome, error) {
	results, err := p.locator.Search(ctx, query)
	if err != nil {
		return OutcomeFailed, err
	}

	first := results[0]
	paths := metadata.ResolvePaths(p.outputDir, first.Title)

	fmt.Fprint(p.output, formatter.TitleLine(first.Title))

	if outcome, done := p.checkTarget(paths); done {
		return outcome, nil
	}

	intermediate, err := p.download(ctx, first, paths)
	if err != nil {
		return OutcomeFailed, err
	}

	if err := p.tagger.WriteTags(paths.FinalMP3Path, audio.Tags{Title: first.Title}, nil, intermediate); err != nil {
		return OutcomeFailed, err
	}

	p.reportSaved(paths.FinalMP3Path)
	return OutcomeCompleted, nil
}

// checkTarget applies the existence short-circuit and the download
// confirmation. done reports that the query reached a terminal state
// without any download work.
func (p *Pipeline) checkTarget(paths metadata.ResolvedPaths) (Outcome, bool) {
	if _, err := os.Stat(paths.FinalMP3Path); err == nil {
		fmt.Fprintf(p.output, "%s\n", ui.Ok("Song downloaded already"))
		return OutcomeAlreadyExists, true
	}

	if !p.prompter.ConfirmDownload() {
		return OutcomeDeclined, true
	}

	return OutcomeFailed, false
}

// obtainAudio searches the source index for searchTerm and downloads plus
// transcodes the first result.
func (p *Pipeline) obtainAudio(ctx context.Context, searchTerm string, paths metadata.ResolvedPaths) (string, error) {
	results, err := p.locator.Search(ctx, searchTerm)
	if err != nil {
		return "", err
	}

	return p.download(ctx, results[0], paths)
}

// download fetches the stream for a search result and transcodes it to
// the final MP3 path, returning the intermediate file path.
func (p *Pipeline) download(ctx context.Context, result services.SearchResult, paths metadata.ResolvedPaths) (string, error) {
	sourceURL := p.locator.WatchURL(result.URLSuffix)
	p.logger.Info("downloading audio", "source", sourceURL)

	intermediate, err := p.fetcher.Fetch(ctx, sourceURL, paths.WorkingAudioPath)
	if err != nil {
		return "", err
	}

	p.logger.Info("transcoding", "bitrate_kbps", p.bitrateKbps)
	if err := p.transcoder.Transcode(ctx, intermediate, paths.FinalMP3Path, p.bitrateKbps); err != nil {
		return "", err
	}

	return intermediate, nil
}

// fetchCover downloads and JPEG-normalizes the record's cover art.
func (p *Pipeline) fetchCover(ctx context.Context, record *metadata.TrackRecord) ([]byte, error) {
	if record.CoverImageURL == "" {
		return nil, fmt.Errorf("%w: album image list is empty", shared.ErrNoCoverArt)
	}

	raw, err := p.catalog.FetchImage(ctx, record.CoverImageURL)
	if err != nil {
		return nil, err
	}

	return audio.CoverJPEG(raw)
}

func (p *Pipeline) reportSaved(path string) {
	fmt.Fprintf(p.output, "\n%s %s\n", ui.Ok("Saved"), ui.Value(path))
}
