package fixture

import (
	"path/filepath"
	"regexp"

	"github.com/vmunix/sortarr/pkg/release"
)

// seasonDir matches directory names that only carry a season number.
var seasonDir = regexp.MustCompile(`(?i)^(?:season|series|s)[\s._-]*\d{1,2}$`)

// Parser derives fixtures from scanned files. It holds no state and the
// same entry and mode always produce the same fixture.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse builds a disabled fixture for e. With ModeAuto, episode rules are
// tried before movie rules. When no rule matches, the result is a fixture of
// the hinted kind (episode for auto) named after the file stem.
func (p *Parser) Parse(e Entry, mode Mode) Fixture {
	name := e.Name()

	if mode != ModeMovie {
		if info, ok := release.ParseEpisode(name); ok {
			return p.episode(e, info)
		}
	}
	if mode != ModeEpisode {
		if info, ok := release.ParseMovie(name); ok {
			return movieFrom(e, info)
		}
	}
	if mode == ModeMovie {
		if info, ok := release.ParseTitle(name); ok {
			return movieFrom(e, info)
		}
		return &Movie{Base: Base{File: e, Name: e.Stem()}}
	}
	return &Episode{Base: Base{File: e, Name: e.Stem()}}
}

func (p *Parser) episode(e Entry, info *release.Info) *Episode {
	name := info.Title
	if name == "" {
		name = showFromPath(e)
	}
	return &Episode{
		Base:         Base{File: e, Name: name, Year: info.Year},
		Season:       info.Season,
		EpisodeStart: info.Episode,
		EpisodeEnd:   info.EndEpisode,
		Title:        info.EpisodeTitle,
	}
}

func movieFrom(e Entry, info *release.Info) *Movie {
	return &Movie{Base: Base{File: e, Name: info.Title, Year: info.Year}}
}

// showFromPath names a show after the directory holding the file, skipping
// a "Season N" level.
func showFromPath(e Entry) string {
	dir := filepath.Dir(e.RelPath)
	if dir == "." || dir == "" {
		dir = filepath.Dir(e.Path)
	}
	for range 2 {
		base := filepath.Base(dir)
		if base == "." || base == string(filepath.Separator) {
			return ""
		}
		if !seasonDir.MatchString(base) {
			return release.StripNoise(base)
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
