// Package release parses video filenames into series title, episode,
// quality and language information, and fuzzy-matches titles.
package release

// Quality represents the video resolution of a release.
type Quality int

const (
	QualityUnknown Quality = iota
	Quality480p
	Quality720p
	Quality1080p
	Quality2160p
)

func (q Quality) String() string {
	switch q {
	case Quality480p:
		return "480p"
	case Quality720p:
		return "720p"
	case Quality1080p:
		return "1080p"
	case Quality2160p:
		return "2160p"
	default:
		return "unknown"
	}
}

// Language represents the audio/subtitle language tagged in a release name.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageEnglish
	LanguageFrench
	LanguageVOSTFR
	LanguageMulti
	LanguageGerman
	LanguageSpanish
	LanguageItalian
	LanguageJapanese
)

func (l Language) String() string {
	switch l {
	case LanguageEnglish:
		return "english"
	case LanguageFrench:
		return "french"
	case LanguageVOSTFR:
		return "vostfr"
	case LanguageMulti:
		return "multi"
	case LanguageGerman:
		return "german"
	case LanguageSpanish:
		return "spanish"
	case LanguageItalian:
		return "italian"
	case LanguageJapanese:
		return "japanese"
	default:
		return "unknown"
	}
}

// Info contains parsed information from a release filename.
type Info struct {
	Title    string
	Season   int
	Episodes []int // sorted ascending, deduplicated
	Quality  Quality
	Language Language
	Group    string
	Proper   bool
	Repack   bool

	// Container is the file extension without the dot, if one was present.
	Container string

	// IsSeasonPack is set when a season was found without episode numbers.
	IsSeasonPack bool

	// CleanTitle is the normalized form of Title, used for matching.
	CleanTitle string
}

// HasEpisode reports whether parsing found a usable season/episode reference.
func (i *Info) HasEpisode() bool {
	return i.Season > 0 && len(i.Episodes) > 0
}
