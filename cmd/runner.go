package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playcap/internal/filter"
	"github.com/desertthunder/playcap/internal/matcher"
	"github.com/desertthunder/playcap/internal/parser"
	"github.com/desertthunder/playcap/internal/services"
	"github.com/desertthunder/playcap/internal/shared"
	"github.com/desertthunder/playcap/internal/tasks"
	"github.com/desertthunder/playcap/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	fetcher services.PageFetcher
	catalog services.Catalog
	engine  tasks.Engine
	logger  *log.Logger
	input   io.Reader
	output  io.Writer
	palette *ui.Palette
	getenv  func(string) string
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Fetcher, Catalog and Engine are normally built from Config; set them to replace the real services.
type RunnerOpts struct {
	Config  *shared.Config
	Fetcher services.PageFetcher
	Catalog services.Catalog
	Engine  tasks.Engine
	Logger  *log.Logger
	Input   io.Reader
	Output  io.Writer
	Getenv  func(string) string
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	return &Runner{
		config:  opts.Config,
		fetcher: opts.Fetcher,
		catalog: opts.Catalog,
		engine:  opts.Engine,
		logger:  opts.Logger,
		input:   opts.Input,
		output:  opts.Output,
		palette: ui.Default,
		getenv:  opts.Getenv,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		captureCommand, serveCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure loads the config file named by --config, applies environment overrides and sets the log level.
//
// A missing file is only an error when --config was given explicitly.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
		r.logger.Debug("loaded config", "path", path)
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	r.config.ApplyEnv(r.getenv)

	level := r.config.Log.Level
	if cmd.Bool("debug") {
		level = "debug"
	}
	if err := shared.SetLogLevelString(r.logger, level); err != nil {
		return ctx, err
	}
	return ctx, nil
}

// resolveCatalog returns the configured catalog, or nil when matching is unavailable.
func (r *Runner) resolveCatalog() (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	spotify := r.config.Catalog.Spotify
	catalog, err := services.NewSpotifyCatalog(services.SpotifyOpts{
		ClientID:     spotify.ClientID,
		ClientSecret: spotify.ClientSecret,
		Timeout:      r.config.SearchTimeout(),
	})
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, nil
	}

	r.catalog = catalog
	return catalog, nil
}

// engineFor builds the capture pipeline from config, logging through logger.
func (r *Runner) engineFor(noMatch bool, logger *log.Logger) (tasks.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	cfg := r.config
	fetcher := r.fetcher
	if fetcher == nil {
		fetcher = services.NewHTTPFetcher(cfg.Fetch.UserAgent, cfg.FetchTimeout(), nil)
	}

	var catalog services.Catalog
	if !noMatch {
		c, err := r.resolveCatalog()
		if err != nil {
			return nil, err
		}
		catalog = c
	}
	if catalog == nil {
		logger.Debug("catalog matching unavailable")
	}

	p := parser.New(parser.Selectors{
		Tables:        cfg.Parser.Tables,
		ArtistHeaders: cfg.Parser.ArtistHeaders,
		TitleHeaders:  cfg.Parser.TitleHeaders,
		Artists:       cfg.Parser.Artists,
		Titles:        cfg.Parser.Titles,
		Rows:          cfg.Parser.Rows,
	})
	m := matcher.New(catalog, matcher.Options{
		Limit:       cfg.Catalog.Spotify.Limit,
		Market:      cfg.Catalog.Spotify.Market,
		ConfirmedAt: cfg.Matching.ConfirmedAt,
		UncertainAt: cfg.Matching.UncertainAt,
		Workers:     cfg.Catalog.Spotify.Workers,
		RateLimit:   cfg.Catalog.Spotify.RatePerSecond,
		Logger:      logger,
	})

	return tasks.NewScrapeEngine(fetcher, p, filter.NewClassifier(cfg.Filter.Denylist), m, logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

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
