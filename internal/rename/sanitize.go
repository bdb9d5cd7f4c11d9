package rename

import (
	"regexp"
	"strings"
)

// illegalChars are characters not allowed in filenames on common filesystems.
var illegalChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)

// multiSpace matches multiple consecutive spaces.
var multiSpace = regexp.MustCompile(`\s+`)

// multiDot matches multiple consecutive dots.
var multiDot = regexp.MustCompile(`\.{2,}`)

// SanitizeFilename removes or replaces characters that are unsafe for
// filenames. Replacement strings come from user config, so this also keeps a
// rule from smuggling path separators into the name.
func SanitizeFilename(name string) string {
	// Remove null bytes
	name = strings.ReplaceAll(name, "\x00", "")

	// Replace path separators with space
	name = strings.ReplaceAll(name, "/", " ")
	name = strings.ReplaceAll(name, "\\", " ")

	// Replace illegal characters with space
	name = illegalChars.ReplaceAllString(name, " ")

	// Collapse multiple dots to single dot
	name = multiDot.ReplaceAllString(name, ".")

	// Collapse multiple spaces to single space
	name = multiSpace.ReplaceAllString(name, " ")

	// Trim leading/trailing whitespace and dots
	name = strings.Trim(name, " .")

	return name
}
