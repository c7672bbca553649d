package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/sortarr/internal/fixture"
)

// Default naming templates.
const (
	DefaultMovieTemplate   = "{title} ({year})/{title} ({year}).{ext}"
	DefaultEpisodeTemplate = "{show}/Season {season}/{show} - S{season:02}{episodes} - {episode_title}.{ext}"
)

// placeholders lists the names templates may use.
var placeholders = map[string]bool{
	"title": true, "year": true, "show": true, "season": true,
	"episode": true, "episodes": true, "episode_title": true, "ext": true,
}

// Renamer applies naming templates to generate file paths.
type Renamer struct {
	movieTemplate   string
	episodeTemplate string
}

// NewRenamer creates a new Renamer with the given templates.
// Empty strings use default templates.
func NewRenamer(movieTemplate, episodeTemplate string) *Renamer {
	if movieTemplate == "" {
		movieTemplate = DefaultMovieTemplate
	}
	if episodeTemplate == "" {
		episodeTemplate = DefaultEpisodeTemplate
	}
	return &Renamer{
		movieTemplate:   movieTemplate,
		episodeTemplate: episodeTemplate,
	}
}

// Path returns the destination of f relative to the output root.
func (r *Renamer) Path(f fixture.Fixture) (string, error) {
	b := f.Common()
	if SanitizeFilename(b.Name) == "" {
		return "", fmt.Errorf("%w: %s", ErrIncomplete, b.File.RelPath)
	}
	ext := strings.ToLower(b.File.Ext())

	switch v := f.(type) {
	case *fixture.Episode:
		return r.EpisodePath(v.Name, v.Season, v.Episodes(), v.Title, ext), nil
	case *fixture.Movie:
		return r.MoviePath(v.Name, v.Year, ext), nil
	default:
		return "", fmt.Errorf("%w: unsupported kind %s", ErrIncomplete, f.Kind())
	}
}

// MoviePath generates the relative path for a movie file.
// A zero year is left out along with its parentheses.
func (r *Renamer) MoviePath(title string, year int, ext string) string {
	vars := map[string]any{
		"title": SanitizeFilename(title),
		"year":  optional(year),
		"ext":   ext,
	}
	return tidy(applyTemplate(r.movieTemplate, vars))
}

// EpisodePath generates the relative path for an episode file. Several
// episodes render as a range, e.g. "E01-E02"; an empty episode title is left
// out along with its separator.
func (r *Renamer) EpisodePath(show string, season int, episodes []int, episodeTitle, ext string) string {
	first := 0
	if len(episodes) > 0 {
		first = episodes[0]
	}
	vars := map[string]any{
		"show":          SanitizeFilename(show),
		"title":         SanitizeFilename(show),
		"season":        season,
		"episode":       first,
		"episodes":      episodeRange(episodes),
		"episode_title": SanitizeFilename(episodeTitle),
		"ext":           ext,
	}
	return tidy(applyTemplate(r.episodeTemplate, vars))
}

// ValidateTemplate reports placeholders a template does not support.
func ValidateTemplate(template string) error {
	for _, m := range formatPattern.FindAllStringSubmatch(template, -1) {
		if !placeholders[m[1]] {
			return fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, m[1])
		}
	}
	return nil
}

func episodeRange(episodes []int) string {
	switch len(episodes) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("E%02d", episodes[0])
	default:
		return fmt.Sprintf("E%02d-E%02d", episodes[0], episodes[len(episodes)-1])
	}
}

func optional(n int) any {
	if n == 0 {
		return ""
	}
	return n
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into a template string.
// Supports {name} for simple substitution and {name:02} for zero-padded integers.
func applyTemplate(template string, vars map[string]any) string {
	return formatPattern.ReplaceAllStringFunc(template, func(match string) string {
		parts := formatPattern.FindStringSubmatch(match)
		val, ok := vars[parts[1]]
		if !ok {
			return match
		}

		if parts[2] != "" {
			if width, err := strconv.Atoi(parts[2]); err == nil {
				if v, ok := val.(int); ok {
					return fmt.Sprintf("%0*d", width, v)
				}
			}
		}
		return fmt.Sprintf("%v", val)
	})
}

var (
	emptyBrackets  = regexp.MustCompile(`\(\s*\)|\[\s*\]`)
	danglingDash   = regexp.MustCompile(`\s+-\s*(\.[^.\s]+)?$`)
	spaceBeforeExt = regexp.MustCompile(`\s+(\.[^.\s]+)$`)
)

// tidy removes what empty values leave behind in each path segment:
// "()" from a missing year and " - " before the extension from a missing
// title.
func tidy(path string) string {
	segments := strings.Split(path, "/")
	out := segments[:0]
	for _, seg := range segments {
		seg = emptyBrackets.ReplaceAllString(seg, "")
		seg = danglingDash.ReplaceAllString(seg, "$1")
		seg = spaceBeforeExt.ReplaceAllString(seg, "$1")
		seg = strings.TrimSpace(multiSpace.ReplaceAllString(seg, " "))
		if seg != "" {
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/")
}
