package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/sortarr/internal/config"
	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/importer"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/operator"
	"github.com/vmunix/sortarr/internal/resolver"
	"github.com/vmunix/sortarr/internal/runner"
	"github.com/vmunix/sortarr/internal/tmdb"
)

var (
	errModeConflict      = errors.New("cannot set mode to both episodes and movies; select one or the other")
	errOverwriteConflict = errors.New("cannot use --overwrite and --smart-overwrite together")
)

var scanCmd = &cobra.Command{
	Use:   "scan [input-path...]",
	Short: "Scan input paths and organize media files",
	Long: `Scan input directories for media files, resolve episode and movie metadata,
then rename and move each file into the output library.

Input paths default to the current directory.

Examples:
  sortarr scan -o /media/library ~/Downloads
  sortarr scan -E -S -o /media/tv /mnt/incoming
  sortarr scan -s -x nfo -x txt -X nfo ~/Downloads`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	registerScanFlags(scanCmd)
}

func registerScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("ext", "e", nil, "File extensions understood to be media files")
	f.BoolP("overwrite", "f", false, "Overwrite existing output files")
	f.BoolP("smart-overwrite", "s", false, "Overwrite existing output files only when the input is larger")
	f.StringP("output-path", "o", "", "Output directory to write organized media to")
	f.BoolP("skip-lookup-failure", "S", false, "Skip all files that fail lookup")
	f.BoolP("mode-episode", "E", false, "Treat every file as a TV episode")
	f.BoolP("mode-movie", "M", false, "Treat every file as a movie")
	f.BoolP("auto", "A", false, "Accept the top match without prompting")
	f.StringSliceP("pre-ext", "x", nil, "File extensions to remove before scanning")
	f.StringSliceP("post-ext", "X", nil, "File extensions to remove after placement")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyScanFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.TMDB.APIKey == "" {
		cfg.TMDB.APIKey = os.Getenv("TMDB_API_KEY")
	}
	if errs := append(cfg.Validate(), cfg.Missing()...); len(errs) > 0 {
		return &config.Error{Path: configPath, Errors: errs}
	}

	mode, err := fixture.ParseMode(cfg.Lookup.Mode)
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		inputs = []string{wd}
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)

	client := tmdb.NewClient(cfg.TMDB.APIKey,
		tmdb.WithBaseURL(cfg.TMDB.BaseURL),
		tmdb.WithLanguage(cfg.TMDB.Language),
		tmdb.WithHTTPClient(&http.Client{Timeout: cfg.TMDB.Timeout}),
		tmdb.WithLogger(logger.With("component", "tmdb-client")),
	)
	op := operator.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	engine := resolver.New(metadata.NewTMDBProvider(client, logger), fixture.NewParser(), op, logger,
		resolver.WithAncillarySize(cfg.Lookup.AncillarySize))
	placer := importer.NewPlacer(importer.NewRenamer(cfg.Output.MovieTemplate, cfg.Output.EpisodeTemplate), logger)

	run := runner.NewRunner(runner.Config{
		Inputs:         inputs,
		Output:         cfg.Output.Path,
		Extensions:     cfg.Scan.Extensions,
		PreExtensions:  cfg.Cleanup.PreExtensions,
		PostExtensions: cfg.Cleanup.PostExtensions,
		Resolve: resolver.Options{
			SkipLookupFailure: cfg.Lookup.SkipFailures,
			AutoAccept:        cfg.Lookup.AutoAccept,
			Mode:              mode,
		},
		Policy: importer.Policy{
			Overwrite:      cfg.Output.Overwrite,
			SmartOverwrite: cfg.Output.SmartOverwrite,
		},
	}, engine, placer, op, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sum, err := run.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("done", "summary", sum.Describe())
	return nil
}

// applyScanFlags overrides config values with flags the user set.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()

	episode, _ := f.GetBool("mode-episode")
	movie, _ := f.GetBool("mode-movie")
	if episode && movie {
		return errModeConflict
	}
	switch {
	case episode:
		cfg.Lookup.Mode = fixture.ModeEpisode.String()
	case movie:
		cfg.Lookup.Mode = fixture.ModeMovie.String()
	}

	overwrite, _ := f.GetBool("overwrite")
	smart, _ := f.GetBool("smart-overwrite")
	if overwrite && smart {
		return errOverwriteConflict
	}
	if overwrite {
		cfg.Output.Overwrite, cfg.Output.SmartOverwrite = true, false
	}
	if smart {
		cfg.Output.Overwrite, cfg.Output.SmartOverwrite = false, true
	}

	if f.Changed("ext") {
		cfg.Scan.Extensions, _ = f.GetStringSlice("ext")
	}
	if f.Changed("pre-ext") {
		cfg.Cleanup.PreExtensions, _ = f.GetStringSlice("pre-ext")
	}
	if f.Changed("post-ext") {
		cfg.Cleanup.PostExtensions, _ = f.GetStringSlice("post-ext")
	}
	if f.Changed("output-path") {
		cfg.Output.Path, _ = f.GetString("output-path")
	}
	if skip, _ := f.GetBool("skip-lookup-failure"); skip {
		cfg.Lookup.SkipFailures = true
	}
	if auto, _ := f.GetBool("auto"); auto {
		cfg.Lookup.AutoAccept = true
	}
	return nil
}
