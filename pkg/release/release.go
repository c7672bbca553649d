// Package release provides types for parsing media file and release names.
package release

// Resolution represents the video resolution tagged in a name.
type Resolution int

const (
	ResolutionUnknown Resolution = iota
	Resolution480p
	Resolution720p
	Resolution1080p
	Resolution2160p
)

// unknownStr is the string representation for unknown values.
const unknownStr = "unknown"

func (r Resolution) String() string {
	switch r {
	case Resolution480p:
		return "480p"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	case Resolution2160p:
		return "2160p"
	default:
		return unknownStr
	}
}

// Source represents the media source type tagged in a name.
type Source int

const (
	SourceUnknown Source = iota
	SourceBluRay
	SourceWEBDL
	SourceWEBRip
	SourceHDTV
	SourceDVD
)

func (s Source) String() string {
	switch s {
	case SourceBluRay:
		return "bluray"
	case SourceWEBDL:
		return "webdl"
	case SourceWEBRip:
		return "webrip"
	case SourceHDTV:
		return "hdtv"
	case SourceDVD:
		return "dvd"
	default:
		return unknownStr
	}
}

// Codec represents the video codec tagged in a name.
type Codec int

const (
	CodecUnknown Codec = iota
	CodecX264
	CodecX265
	CodecXviD
	CodecAV1
)

func (c Codec) String() string {
	switch c {
	case CodecX264:
		return "x264"
	case CodecX265:
		return "x265"
	case CodecXviD:
		return "xvid"
	case CodecAV1:
		return "av1"
	default:
		return unknownStr
	}
}

// Kind tells which family of rules produced an Info.
type Kind int

const (
	KindUnknown Kind = iota
	KindEpisode
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindEpisode:
		return "episode"
	case KindMovie:
		return "movie"
	default:
		return unknownStr
	}
}

// Info contains parsed name information.
type Info struct {
	Kind Kind
	Rule string // name of the rule that matched, empty when none did

	Title        string
	Year         int
	Season       int
	Episode      int
	EndEpisode   int    // last episode of a multi-episode file, 0 for single episodes
	EpisodeTitle string // text between the episode marker and the first noise token

	Resolution Resolution
	Source     Source
	Codec      Codec
	Group      string

	// Normalized title for matching
	CleanTitle string
}

// Episodes returns every episode number covered by the name.
func (i *Info) Episodes() []int {
	if i.Episode == 0 {
		return nil
	}
	if i.EndEpisode <= i.Episode {
		return []int{i.Episode}
	}
	eps := make([]int, 0, i.EndEpisode-i.Episode+1)
	for n := i.Episode; n <= i.EndEpisode; n++ {
		eps = append(eps, n)
	}
	return eps
}
