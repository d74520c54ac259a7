package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/repositories"
	"github.com/desertthunder/vidshelf/internal/services"
	"github.com/desertthunder/vidshelf/internal/share"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/store"
	"github.com/desertthunder/vidshelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The library is opened lazily so commands such as setup never touch storage.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	fetcher    services.MetadataFetcher
	blobs      store.BlobStore
	closer     io.Closer
	lib        *tasks.Library
	open       func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Fetcher    services.MetadataFetcher // Overrides the oEmbed client
	Blobs      store.BlobStore          // Overrides the configured storage driver
	Open       func(string) error       // Opens URLs; defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		fetcher:    opts.Fetcher,
		blobs:      opts.Blobs,
		open:       opts.Open,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistCommand, videoCommand, shareCommand, importCommand, exportCommand,
		intentCommand, revisionsCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig replaces the runner's config with the file at path when it exists.
func (r *Runner) loadConfig(path string) error {
	r.configPath = path
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	r.config = config
	return nil
}

// library opens storage and loads the collection on first use.
func (r *Runner) library() (*tasks.Library, error) {
	if r.lib != nil {
		return r.lib, nil
	}

	if r.blobs == nil {
		blobs, closer, err := repositories.Open(r.config.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", r.config.Storage.Driver, err)
		}
		r.blobs, r.closer = blobs, closer
	}

	fetcher := r.fetcher
	if fetcher == nil {
		fetcher = services.NewOEmbedService(r.config.Metadata, r.httpClient)
	}

	scope, err := share.ParseScope(r.config.Share.Scope)
	if err != nil {
		return nil, err
	}

	st := store.New(r.blobs, store.Options{Key: r.config.Storage.Key, Logger: r.logger})
	r.lib = tasks.NewLibrary(st, fetcher, r.logger, tasks.LibraryOpts{
		AllowPartial:  r.config.Metadata.AllowPartial,
		LookupTimeout: r.config.Metadata.Timeout(),
		MaxUndo:       r.config.History.MaxUndo,
		Share:         share.Options{Scope: scope, IncludeThumbnails: r.config.Share.IncludeThumbnails},
		BaseURL:       r.config.Share.BaseURL,
	})
	return r.lib, nil
}

// revisionStore returns the sqlite store when history is available.
func (r *Runner) revisionStore() (*repositories.SQLiteBlobStore, error) {
	if _, err := r.library(); err != nil {
		return nil, err
	}
	sqlite, ok := r.blobs.(*repositories.SQLiteBlobStore)
	if !ok {
		return nil, fmt.Errorf("%w: revisions need the sqlite storage driver", shared.ErrServiceUnavailable)
	}
	return sqlite, nil
}

// Close releases storage opened by the runner. A later command reopens it.
func (r *Runner) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer, r.blobs, r.lib = nil, nil, nil
	return err
}

// SetLogger redirects all runner logging, including the library's, to a new writer.
func (r *Runner) SetLogger(w io.Writer) {
	r.logger.SetOutput(w)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, shared.ErrInvalidInput):
		return 2
	case errors.Is(err, shared.ErrPlaylistNotFound), errors.Is(err, shared.ErrVideoNotFound):
		return 3
	default:
		return 1
	}
}
