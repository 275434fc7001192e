package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"songpull/internal/audio"
	"songpull/internal/formatter"
	"songpull/internal/metadata"
	"songpull/internal/services"
	"songpull/internal/shared"
	"songpull/internal/tasks"
	"songpull/internal/ui"
)

// Catalog is the full catalog surface the CLI needs: the pipeline's read
// operations plus session management.
type Catalog interface {
	tasks.Catalog
	Authenticate(ctx context.Context) error
	Close()
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    Catalog
	locator    tasks.Locator
	fetcher    tasks.Fetcher
	transcoder tasks.Transcoder
	tagger     tasks.Tagger
	pipeline   *tasks.Pipeline
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    Catalog
	Locator    tasks.Locator
	Fetcher    tasks.Fetcher
	Transcoder tasks.Transcoder
	Tagger     tasks.Tagger
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Locator == nil {
		opts.Locator = services.NewYouTubeService("", nil)
	}
	if opts.Fetcher == nil {
		opts.Fetcher = audio.NewFetcher("")
	}
	if opts.Transcoder == nil {
		opts.Transcoder = audio.NewTranscoder("")
	}
	if opts.Tagger == nil {
		opts.Tagger = audio.NewTagger()
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		locator:    opts.Locator,
		fetcher:    opts.Fetcher,
		transcoder: opts.Transcoder,
		tagger:     opts.Tagger,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
	}
}

// loadConfig reads the config file named by the command's --config flag,
// falling back to defaults when it does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) {
	if r.config != nil {
		return
	}

	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		if config, err := shared.LoadConfig(path); err == nil {
			r.config = config
			return
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}
	r.config = shared.DefaultConfig()
}

// ensureSession resolves credentials, authenticates the catalog session,
// and assembles the pipeline. Missing credentials or a failed token
// exchange abort before any pipeline work.
func (r *Runner) ensureSession(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	if r.catalog == nil {
		if err := shared.ResolveCredentials(r.config); err != nil {
			return fmt.Errorf("%w: set credentials in config.toml or SPOTIFY_CLIENT_ID/SPOTIFY_CLIENT_SECRET", err)
		}

		catalog, err := services.NewSpotifyService(map[string]string{
			"client_id":     r.config.Credentials.Spotify.ClientID,
			"client_secret": r.config.Credentials.Spotify.ClientSecret,
		})
		if err != nil {
			return err
		}
		r.catalog = catalog
	}

	if err := r.catalog.Authenticate(ctx); err != nil {
		return err
	}

	bitrate := int(cmd.Int("bitrate"))
	if bitrate <= 0 {
		bitrate = r.config.Audio.BitrateKbps
	}

	r.pipeline = tasks.NewPipeline(tasks.PipelineOpts{
		Catalog:     r.catalog,
		Locator:     r.locator,
		Fetcher:     r.fetcher,
		Transcoder:  r.transcoder,
		Tagger:      r.tagger,
		Prompter:    r,
		BitrateKbps: bitrate,
		OutputDir:   r.config.Audio.OutputDir,
		Logger:      r.logger,
		Output:      r.output,
	})

	return nil
}

// Download runs the interactive query loop. An optional positional
// argument seeds the first iteration; afterwards queries are prompted
// until the user types "stop" or declines to search again.
func (r *Runner) Download(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx, cmd); err != nil {
		return err
	}
	defer r.catalog.Close()

	seed := cmd.StringArg("query")
	for {
		query := strings.TrimSpace(seed)
		seed = ""

		if query == "" {
			fmt.Fprintf(r.output, "\n%s\n", ui.Help("Type 'stop' to exit the program"))
			line, ok := r.readLine("The track title and artist / Spotify URL: ")
			if !ok {
				return nil
			}
			query = strings.TrimSpace(line)
		}

		if query == "" {
			continue
		}
		if strings.EqualFold(query, "stop") {
			return nil
		}

		if outcome, err := r.pipeline.Process(ctx, query); err != nil {
			// Fatal for this query only; the loop moves on.
			r.logger.Error("query failed", "query", query, "error", err)
			fmt.Fprintf(r.output, "%s %v\n", ui.Err("Error:"), err)
		} else {
			r.logger.Info("query finished", "outcome", outcome.String())
		}

		if !r.confirm("Do you want to search again? (y/n): ") {
			return nil
		}
	}
}

// Info resolves a query and prints the normalized metadata record as
// JSON, without downloading anything.
func (r *Runner) Info(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query argument required", shared.ErrInvalidInput)
	}

	if err := r.ensureSession(ctx, cmd); err != nil {
		return err
	}
	defer r.catalog.Close()

	trackID, err := r.catalog.ResolveTrackID(ctx, query)
	if err != nil {
		return err
	}

	track, err := r.catalog.Track(ctx, trackID)
	if err != nil {
		return err
	}

	out, err := formatter.ExportJSON(metadata.Normalize(track), cmd.Bool("pretty"))
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintf(r.output, "%s\n", out)
	return nil
}

// ConfirmDownload implements [tasks.Prompter].
func (r *Runner) ConfirmDownload() bool {
	return r.confirm("Do you want to download this song? (y/n): ")
}

// confirm re-prompts until the user answers y or n. A closed input reads
// as "n".
func (r *Runner) confirm(prompt string) bool {
	for {
		line, ok := r.readLine(prompt)
		if !ok {
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true
		case "n":
			return false
		}

		fmt.Fprintf(r.output, "%s Please enter 'y' or 'n'.\n", ui.Err("Invalid input!"))
	}
}

// readLine prints prompt and reads one input line. ok is false once the
// input is exhausted.
func (r *Runner) readLine(prompt string) (string, bool) {
	fmt.Fprint(r.output, prompt)

	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSuffix(line, "\n"), true
}
