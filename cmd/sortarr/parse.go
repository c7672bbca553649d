package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/pkg/release"
)

// ParseResultJSON is the JSON-friendly representation of a parsed name.
type ParseResultJSON struct {
	Input        string `json:"input"`
	Kind         string `json:"kind"`
	Rule         string `json:"rule,omitempty"`
	Name         string `json:"name"`
	Year         int    `json:"year,omitempty"`
	Season       int    `json:"season,omitempty"`
	Episode      int    `json:"episode,omitempty"`
	EpisodeEnd   int    `json:"episode_end,omitempty"`
	EpisodeTitle string `json:"episode_title,omitempty"`
	Resolution   string `json:"resolution"`
	Source       string `json:"source"`
	Codec        string `json:"codec"`
	Group        string `json:"group,omitempty"`
	CleanTitle   string `json:"clean_title"`
}

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file-name>...",
	Short: "Parse file names (local, no lookup)",
	Long: `Parse file or release names the way scan does, without any lookup.

Examples:
  sortarr parse "The.Show.S02E05.Episode.Title.720p.HDTV.x264-GRP.mkv"
  sortarr parse --mode movie "Some.Documentary.mkv"
  sortarr parse --json "Blade.Runner.2049.2017.1080p.BluRay.mkv"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParseCmd,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().Bool("json", false, "Output as JSON")
	parseCmd.Flags().String("mode", "auto", "Parse mode: auto, episode or movie")
}

func runParseCmd(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := fixture.ParseMode(modeFlag)
	if err != nil {
		return err
	}

	results := make([]ParseResultJSON, 0, len(args))
	for _, name := range args {
		results = append(results, parseName(name, mode))
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return outputJSON(out, results)
	}
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printHumanReadable(out, r)
	}
	return nil
}

// parseName classifies name like a scanned file and adds the release tags.
func parseName(name string, mode fixture.Mode) ParseResultJSON {
	f := fixture.NewParser().Parse(fixture.Entry{Path: name, RelPath: name}, mode)
	info := release.Parse(name)

	result := ParseResultJSON{
		Input:      name,
		Kind:       f.Kind().String(),
		Name:       f.Common().Name,
		Year:       f.Common().Year,
		Resolution: info.Resolution.String(),
		Source:     info.Source.String(),
		Codec:      info.Codec.String(),
		Group:      info.Group,
		CleanTitle: release.CleanTitle(f.Common().Name),
	}
	if f.Kind().String() == info.Kind.String() {
		result.Rule = info.Rule
	}
	if ep, ok := f.(*fixture.Episode); ok {
		result.Season = ep.Season
		result.Episode = ep.EpisodeStart
		result.EpisodeEnd = ep.EpisodeEnd
		result.EpisodeTitle = ep.Title
	}
	return result
}

func printHumanReadable(w io.Writer, r ParseResultJSON) {
	fmt.Fprintf(w, "Input:       %s\n", r.Input)
	fmt.Fprintf(w, "Kind:        %s\n", r.Kind)
	fmt.Fprintf(w, "Name:        %s\n", valueOrEmpty(r.Name))
	if r.Year > 0 {
		fmt.Fprintf(w, "Year:        %d\n", r.Year)
	}
	if r.Kind == fixture.KindEpisode.String() {
		fmt.Fprintf(w, "Season:      %d\n", r.Season)
		if r.EpisodeEnd > 0 {
			fmt.Fprintf(w, "Episodes:    %d-%d\n", r.Episode, r.EpisodeEnd)
		} else {
			fmt.Fprintf(w, "Episode:     %d\n", r.Episode)
		}
		if r.EpisodeTitle != "" {
			fmt.Fprintf(w, "Title:       %s\n", r.EpisodeTitle)
		}
	}
	fmt.Fprintf(w, "Resolution:  %s\n", r.Resolution)
	fmt.Fprintf(w, "Source:      %s\n", r.Source)
	fmt.Fprintf(w, "Codec:       %s\n", r.Codec)
	if r.Group != "" {
		fmt.Fprintf(w, "Group:       %s\n", r.Group)
	}
	if r.Rule != "" {
		fmt.Fprintf(w, "Rule:        %s\n", r.Rule)
	}
}

func valueOrEmpty(s string) string {
	if s == "" {
		return "(empty)"
	}
	return s
}

func outputJSON(w io.Writer, results []ParseResultJSON) error {
	// For single result, output object; for multiple, output array
	var output any = results
	if len(results) == 1 {
		output = results[0]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}
