package release

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	extRegex = regexp.MustCompile(`(?i)\.(mkv|mp4|avi|m4v|mov|wmv|ts|webm)$`)

	// S01E05-07 and S01E05-E07 style ranges
	epRangeRegex = regexp.MustCompile(`(?i)\bS(\d{1,2})[ ._-]?E(\d{1,3})[ ._-]?-[ ._-]?E?(\d{1,3})\b`)

	// S01E05, S01E05E06, S01 E05 style
	multiEpRegex = regexp.MustCompile(`(?i)\bS(\d{1,2})((?:[ ._-]?E\d{1,3})+)`)
	epNumRegex   = regexp.MustCompile(`(?i)E(\d{1,3})`)

	// 1x05 and 1x05-07 style; episode needs two digits so 1920x1080 stays out
	xFormatRegex = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})(?:-(\d{2,3}))?\b`)

	// Season 2 / Saison 2 / bare S02 season packs
	seasonPackRegex = regexp.MustCompile(`(?i)\b(?:season|saison)[ ._-]?(\d{1,2})\b`)
	bareSeasonRegex = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)

	// "Title - 1071" absolute numbering, common for long-running anime
	absoluteRegex = regexp.MustCompile(`^(.*\S)\s+-\s+(\d{2,4})(?:\s|$)`)

	languageRegex = regexp.MustCompile(`(?i)\b(multi|vostfr|truefrench|vff|vf|french|english|eng|german|spanish|castellano|italian|ita|japanese|jap)\b`)

	groupRegex = regexp.MustCompile(`-([A-Za-z0-9]{2,20})$`)
)

// Cap on range expansion so a typo like S01E01-99 does not fabricate a season.
const maxEpisodeRange = 30

// Parse extracts information from a release filename.
func Parse(name string) *Info {
	info := &Info{}

	// Strip and record the container extension
	if m := extRegex.FindStringSubmatch(name); m != nil {
		info.Container = strings.ToLower(m[1])
		name = name[:len(name)-len(m[0])]
	}

	// Normalize separators for scanning
	normalized := strings.ReplaceAll(name, ".", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")

	titleEnd := len(normalized)

	switch {
	case epRangeRegex.MatchString(normalized):
		m := epRangeRegex.FindStringSubmatchIndex(normalized)
		info.Season = atoi(normalized[m[2]:m[3]])
		first := atoi(normalized[m[4]:m[5]])
		last := atoi(normalized[m[6]:m[7]])
		info.Episodes = expandRange(first, last)
		titleEnd = m[0]

	case multiEpRegex.MatchString(normalized):
		m := multiEpRegex.FindStringSubmatchIndex(normalized)
		info.Season = atoi(normalized[m[2]:m[3]])
		for _, em := range epNumRegex.FindAllStringSubmatch(normalized[m[4]:m[5]], -1) {
			info.Episodes = append(info.Episodes, atoi(em[1]))
		}
		titleEnd = m[0]

	case xFormatRegex.MatchString(normalized):
		m := xFormatRegex.FindStringSubmatchIndex(normalized)
		info.Season = atoi(normalized[m[2]:m[3]])
		first := atoi(normalized[m[4]:m[5]])
		if m[6] >= 0 {
			info.Episodes = expandRange(first, atoi(normalized[m[6]:m[7]]))
		} else {
			info.Episodes = []int{first}
		}
		titleEnd = m[0]

	case seasonPackRegex.MatchString(normalized):
		m := seasonPackRegex.FindStringSubmatchIndex(normalized)
		info.Season = atoi(normalized[m[2]:m[3]])
		info.IsSeasonPack = true
		titleEnd = m[0]

	case bareSeasonRegex.MatchString(normalized):
		m := bareSeasonRegex.FindStringSubmatchIndex(normalized)
		info.Season = atoi(normalized[m[2]:m[3]])
		info.IsSeasonPack = true
		titleEnd = m[0]

	case absoluteRegex.MatchString(normalized):
		m := absoluteRegex.FindStringSubmatchIndex(normalized)
		info.Episodes = []int{atoi(normalized[m[4]:m[5]])}
		titleEnd = m[3]
	}

	info.Episodes = sortedUnique(info.Episodes)
	info.Title = cleanRawTitle(normalized[:titleEnd])
	info.CleanTitle = CleanTitle(info.Title)

	info.Quality = parseQuality(normalized)
	info.Language = parseLanguage(normalized)
	info.Proper = containsAny(normalized, "proper")
	info.Repack = containsAny(normalized, "repack", "rerip")
	info.Group = parseGroup(name)

	return info
}

func parseQuality(name string) Quality {
	name = strings.ToLower(name)
	switch {
	case strings.Contains(name, "2160p"), strings.Contains(name, "4k"), strings.Contains(name, "uhd"):
		return Quality2160p
	case strings.Contains(name, "1080p"):
		return Quality1080p
	case strings.Contains(name, "720p"):
		return Quality720p
	case strings.Contains(name, "480p"), strings.Contains(name, "dvdrip"):
		return Quality480p
	default:
		return QualityUnknown
	}
}

func parseLanguage(name string) Language {
	best := LanguageUnknown
	for _, m := range languageRegex.FindAllStringSubmatch(name, -1) {
		switch strings.ToLower(m[1]) {
		case "multi":
			// Multi wins over any single-language tag
			return LanguageMulti
		case "vostfr":
			best = LanguageVOSTFR
		case "french", "truefrench", "vf", "vff":
			if best != LanguageVOSTFR {
				best = LanguageFrench
			}
		case "english", "eng":
			if best == LanguageUnknown {
				best = LanguageEnglish
			}
		case "german":
			if best == LanguageUnknown {
				best = LanguageGerman
			}
		case "spanish", "castellano":
			if best == LanguageUnknown {
				best = LanguageSpanish
			}
		case "italian", "ita":
			if best == LanguageUnknown {
				best = LanguageItalian
			}
		case "japanese", "jap":
			if best == LanguageUnknown {
				best = LanguageJapanese
			}
		}
	}
	return best
}

// groupDenyList holds tokens that follow a hyphen but are not release groups.
var groupDenyList = map[string]bool{
	"dl": true, "rip": true, "web": true, "hdtv": true, "bluray": true,
	"ray": true, "cam": true, "hd": true, "sd": true,
}

func parseGroup(name string) string {
	m := groupRegex.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	if groupDenyList[strings.ToLower(m[1])] {
		return ""
	}
	return m[1]
}

// cleanRawTitle turns the pre-episode portion of a filename into a display title.
func cleanRawTitle(s string) string {
	s = strings.Trim(s, " .-_([")
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

func expandRange(first, last int) []int {
	if last <= first || last-first > maxEpisodeRange {
		return []int{first}
	}
	eps := make([]int, 0, last-first+1)
	for e := first; e <= last; e++ {
		eps = append(eps, e)
	}
	return eps
}

func sortedUnique(eps []int) []int {
	if len(eps) < 2 {
		return eps
	}
	sort.Ints(eps)
	out := eps[:1]
	for _, e := range eps[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

func containsAny(s string, substrs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
