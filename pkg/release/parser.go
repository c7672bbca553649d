package release

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// rule is a single named pattern. The first rule whose pattern matches and
// whose build func accepts the match wins.
type rule struct {
	name    string
	kind    Kind
	pattern *regexp.Regexp
	build   func(m []string, info *Info) bool
}

// Episode markers, most specific first.
var episodeRules = []rule{
	{
		name: "sxxexx",
		kind: KindEpisode,
		// Show.Name.S01E02, S01E02E03, S01E02-E03, S01E02-03
		pattern: regexp.MustCompile(`(?i)^(.*?)[\s._\-\[(]*\bs(\d{1,2})[\s._]?e(\d{1,3})(?:(?:[\s._]?-[\s._]?e?|[\s._]?e)(\d{1,3}))?(?:[\s._\-\])]+(.*))?$`),
		build:   buildEpisode,
	},
	{
		name: "nxnn",
		kind: KindEpisode,
		// Show.Name.1x02, 1x02-03, 1x02x03
		pattern: regexp.MustCompile(`(?i)^(?:(.*?)[\s._\-\[(]+)?(\d{1,2})x(\d{2,3})(?:[-x](\d{2,3}))?(?:[\s._\-\])]+(.*))?$`),
		build:   buildEpisode,
	},
	{
		name: "season-episode",
		kind: KindEpisode,
		// Show Name Season 1 Episode 2, Show.Name.Season.01.Ep.02
		pattern: regexp.MustCompile(`(?i)^(.*?)[\s._\-\[(]*\bseason[\s._\-]*(\d{1,2})[\s._\-,]*(?:episode|ep)[\s._\-]*(\d{1,3})()(?:[\s._\-\])]+(.*))?$`),
		build:   buildEpisode,
	},
}

// Movie markers. Both require a plausible release year.
var movieRules = []rule{
	{
		name: "paren-year",
		kind: KindMovie,
		// Title (2011) or Title [2011]
		pattern: regexp.MustCompile(`^(.+?)[\s._\-]*[(\[]((?:19|20)\d{2})[)\]](?:[\s._\-]*(.*))?$`),
		build:   buildMovie,
	},
	{
		name: "year",
		kind: KindMovie,
		// Title.2011.1080p; greedy title so the last year wins
		pattern: regexp.MustCompile(`^(.+)[\s._\-]+((?:19|20)\d{2})(?:[\s._\-]+(.*))?$`),
		build:   buildMovie,
	},
}

// Parse extracts information from a file or release name.
// Episode rules are tried first; a movie is only produced when no episode
// marker is present. When nothing matches, Kind is KindUnknown and Title holds
// the noise-stripped name.
func Parse(name string) *Info {
	if info, ok := ParseEpisode(name); ok {
		return info
	}
	if info, ok := ParseMovie(name); ok {
		return info
	}
	stem := TrimExtension(name)
	info := &Info{Title: StripNoise(stem)}
	finish(stem, info)
	return info
}

// ParseEpisode applies only the episode rules.
func ParseEpisode(name string) (*Info, bool) {
	return apply(episodeRules, name)
}

// ParseMovie applies only the movie rules.
func ParseMovie(name string) (*Info, bool) {
	return apply(movieRules, name)
}

// ParseTitle treats the whole name as a title without a year.
// It fails when nothing is left after stripping noise.
func ParseTitle(name string) (*Info, bool) {
	stem := TrimExtension(name)
	title := StripNoise(stem)
	if title == "" {
		return nil, false
	}
	info := &Info{Kind: KindMovie, Rule: "title", Title: title}
	finish(stem, info)
	return info, true
}

func apply(rules []rule, name string) (*Info, bool) {
	stem := TrimExtension(name)
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(stem)
		if m == nil {
			continue
		}
		info := &Info{Kind: r.kind, Rule: r.name}
		if !r.build(m, info) {
			continue
		}
		finish(stem, info)
		return info, true
	}
	return nil, false
}

// buildEpisode expects groups: title, season, episode, end episode, rest.
// An empty title is accepted; callers may fill it from context.
func buildEpisode(m []string, info *Info) bool {
	info.Title, info.Year = splitYear(StripNoise(m[1]))
	info.Season, _ = strconv.Atoi(m[2])
	info.Episode, _ = strconv.Atoi(m[3])
	if m[4] != "" {
		end, _ := strconv.Atoi(m[4])
		if end > info.Episode {
			info.EndEpisode = end
		}
	}
	info.EpisodeTitle = StripNoise(m[5])
	return info.Episode > 0 || info.Season > 0
}

// buildMovie expects groups: title, year, rest.
func buildMovie(m []string, info *Info) bool {
	info.Title = StripNoise(m[1])
	if info.Title == "" {
		return false
	}
	info.Year, _ = strconv.Atoi(m[2])
	return true
}

func finish(stem string, info *Info) {
	parseTags(stem, info)
	info.CleanTitle = CleanTitle(info.Title)
}

// trailingYear matches a year token at the end of a show title ("Show 2015").
var trailingYear = regexp.MustCompile(`^(.+?)\s+\(?((?:19|20)\d{2})\)?$`)

func splitYear(title string) (string, int) {
	m := trailingYear.FindStringSubmatch(title)
	if m == nil {
		return title, 0
	}
	year, _ := strconv.Atoi(m[2])
	return m[1], year
}

// knownExtensions are container and sidecar extensions trimmed from names.
var knownExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".avi": true, ".mov": true,
	".wmv": true, ".mpg": true, ".mpeg": true, ".ts": true, ".m2ts": true,
	".webm": true, ".flv": true, ".ogm": true, ".divx": true, ".iso": true,
	".srt": true, ".sub": true, ".idx": true, ".ass": true, ".nfo": true,
}

// TrimExtension removes a known media extension from name.
// Unknown suffixes are kept so release names without extensions parse intact.
func TrimExtension(name string) string {
	ext := filepath.Ext(name)
	if knownExtensions[strings.ToLower(ext)] {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

var (
	// bracketed matches [tags] and {tags}.
	bracketed = regexp.MustCompile(`\[[^\]]*\]|\{[^}]*\}`)

	// tokenSplit splits a name into words.
	tokenSplit = regexp.MustCompile(`[\s._]+`)

	// noiseToken matches a single word that marks the start of release noise.
	noiseToken = regexp.MustCompile(`(?i)^(?:\d{3,4}[pi]|4k|uhd|hdr(?:10\+?)?|dovi|sdr|` +
		`[xh]\.?26[45]|hevc|avc|xvid|divx|av1|vp9|10bit|8bit|` +
		`blu-?ray|bdrip|brrip|bdremux|remux|web-?dl|web-?rip|hdtv|pdtv|sdtv|dvd-?rip|dvd|hdrip|` +
		`proper|repack|rerip|internal|limited|unrated|` +
		`aac\d?|ac3|e-?ac3|dts(?:-?hd)?|ddp?\d?|truehd|atmos|flac|opus|multi|subbed|dubbed|` +
		`amzn|nf|dsnp|hmax|atvp|hulu)$`)
)

// StripNoise removes release noise from a title segment and normalizes
// separators to single spaces. Everything from the first noise word onward
// (resolution, codec, source, audio, flags, release group) is dropped.
func StripNoise(segment string) string {
	segment = bracketed.ReplaceAllString(segment, " ")

	var words []string
	for _, tok := range tokenSplit.Split(segment, -1) {
		if tok == "" {
			continue
		}
		head := tok
		if i := strings.Index(tok, "-"); i > 0 {
			head = tok[:i] // x264-GROUP
		}
		if noiseToken.MatchString(tok) || noiseToken.MatchString(head) {
			break
		}
		words = append(words, tok)
	}

	title := strings.Join(words, " ")
	return strings.Trim(title, " -()")
}

func parseTags(stem string, info *Info) {
	lower := strings.ToLower(stem)
	info.Resolution = parseResolution(lower)
	info.Source = parseSource(lower)
	info.Codec = parseCodec(lower)

	// Group (usually last, after hyphen, once release noise has started)
	if info.Resolution != ResolutionUnknown || info.Source != SourceUnknown || info.Codec != CodecUnknown {
		if idx := strings.LastIndex(stem, "-"); idx > 0 {
			group := strings.TrimSpace(stem[idx+1:])
			if group != "" && !strings.ContainsAny(group, " ._") {
				info.Group = group
			}
		}
	}
}

func parseResolution(name string) Resolution {
	switch {
	case containsAny(name, "2160p", "4k", "uhd"):
		return Resolution2160p
	case strings.Contains(name, "1080p"), strings.Contains(name, "1080i"):
		return Resolution1080p
	case strings.Contains(name, "720p"):
		return Resolution720p
	case strings.Contains(name, "480p"), strings.Contains(name, "576p"):
		return Resolution480p
	default:
		return ResolutionUnknown
	}
}

func parseSource(name string) Source {
	switch {
	case containsAny(name, "bluray", "blu-ray", "bdrip", "brrip", "remux"):
		return SourceBluRay
	case containsAny(name, "web-dl", "webdl"):
		return SourceWEBDL
	case containsAny(name, "webrip", "web-rip"):
		return SourceWEBRip
	case containsAny(name, "hdtv", "pdtv"):
		return SourceHDTV
	case containsAny(name, "dvdrip", "dvd"):
		return SourceDVD
	default:
		return SourceUnknown
	}
}

func parseCodec(name string) Codec {
	switch {
	case containsAny(name, "x265", "h265", "h.265", "hevc"):
		return CodecX265
	case containsAny(name, "x264", "h264", "h.264", "avc"):
		return CodecX264
	case containsAny(name, "xvid", "divx"):
		return CodecXviD
	case strings.Contains(name, "av1"):
		return CodecAV1
	default:
		return CodecUnknown
	}
}

func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
