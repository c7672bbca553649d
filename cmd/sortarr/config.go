package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/sortarr/internal/config"
	"github.com/vmunix/sortarr/internal/fixture"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, field values, and environment variable substitution without scanning anything.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Long:  "Writes the example configuration to path, or to the XDG config location when no path is given. Existing files are never replaced.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd)
	configCmd.AddCommand(configInitCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.Error
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	if missing := cfg.Missing(); len(missing) > 0 {
		fmt.Fprintln(out, "\nRequired before scanning (config or flags):")
		for _, m := range missing {
			fmt.Fprintf(out, "  - %s\n", m)
		}
	}
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func printConfigErrors(w io.Writer, e *config.Error) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Output:      %s\n", valueOrEmpty(cfg.Output.Path))
	fmt.Fprintf(w, "  Extensions:  %s\n", strings.Join(cfg.Scan.Extensions, ", "))

	if len(cfg.Cleanup.PreExtensions) > 0 {
		fmt.Fprintf(w, "  Pre-clean:   %s\n", strings.Join(cfg.Cleanup.PreExtensions, ", "))
	}
	if len(cfg.Cleanup.PostExtensions) > 0 {
		fmt.Fprintf(w, "  Post-clean:  %s\n", strings.Join(cfg.Cleanup.PostExtensions, ", "))
	}

	policy := "keep existing"
	switch {
	case cfg.Output.Overwrite:
		policy = "overwrite"
	case cfg.Output.SmartOverwrite:
		policy = "overwrite when larger"
	}
	fmt.Fprintf(w, "  Collisions:  %s\n", policy)
	fmt.Fprintf(w, "  Lookup:      %s (skip failures: %t, auto accept: %t)\n",
		modeName(cfg.Lookup.Mode), cfg.Lookup.SkipFailures, cfg.Lookup.AutoAccept)
	fmt.Fprintf(w, "  TMDB:        %s (%s, timeout %s)\n", cfg.TMDB.BaseURL, cfg.TMDB.Language, cfg.TMDB.Timeout)
	fmt.Fprintf(w, "  Log level:   %s\n", cfg.Log.Level)
}

// modeName formats a lookup mode for display.
func modeName(s string) string {
	m, err := fixture.ParseMode(s)
	if err != nil {
		return fmt.Sprintf("invalid (%s)", s)
	}
	return m.String()
}
