package trackname

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trackmatch/internal/textutil"
)

var (
	// featureGroupPattern matches "(feat. X)", "[ft. X]" and "(with X)" credits.
	featureGroupPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:feat\.?|featuring|ft\.?|with)\s+([^\)\]]*)[\)\]]`)

	// featureTailPattern matches an unbracketed "feat. X" running to the end.
	featureTailPattern = regexp.MustCompile(`(?i)\s+(?:feat\.?|featuring|ft\.)\s+(.*)$`)

	// mixSuffixPattern matches a trailing mix/edit tag introduced by a dash or
	// an opening bracket, such as " - Radio Edit" or " (Original Mix)".
	mixSuffixPattern = regexp.MustCompile(`(?i)\s*[-\(\[]\s*(?:original\s+mix|radio\s+edit|extended\s+mix|club\s+mix|remix|rmx|edit|rework|bootleg)[^\)\]]*[\)\]]?\s*$`)

	// creditSplitPattern separates names inside a featuring credit.
	creditSplitPattern = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b|\bx\b)\s*`)

	parenthesisPattern = regexp.MustCompile(`[\(\[][^\)\]]*[\)\]]`)
)

func stripFeatureGroups(title string) string {
	return strings.TrimSpace(featureGroupPattern.ReplaceAllString(title, ""))
}

func stripFeatureTail(title string) string {
	return strings.TrimSpace(featureTailPattern.ReplaceAllString(title, ""))
}

// Clean returns the coarse comparison form of a title: featuring credits and
// a trailing mix/edit tag removed, then normalized. "Strobe (Original Mix)"
// and "Strobe - Radio Edit" both clean to "strobe".
func Clean(title string) string {
	title = stripFeatureTail(stripFeatureGroups(title))
	title = mixSuffixPattern.ReplaceAllString(title, "")
	return textutil.Normalize(title)
}

// HasFeature reports whether the title itself credits a featured artist.
func HasFeature(title string) bool {
	return featureGroupPattern.MatchString(title) || featureTailPattern.MatchString(title)
}

// FeaturedArtists lists the names credited inside featuring groups or a
// trailing "feat." clause, normalized and in title order.
func FeaturedArtists(title string) []string {
	var raw []string
	for _, m := range featureGroupPattern.FindAllStringSubmatch(title, -1) {
		raw = append(raw, m[1])
	}
	if m := featureTailPattern.FindStringSubmatch(stripFeatureGroups(title)); m != nil {
		raw = append(raw, m[1])
	}

	var names []string
	for _, credit := range raw {
		for _, name := range creditSplitPattern.Split(credit, -1) {
			if n := textutil.Normalize(name); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

// HasParenthetical reports whether the title carries any bracketed group.
func HasParenthetical(title string) bool {
	return parenthesisPattern.MatchString(title)
}

// Display title-cases a normalized string for human-facing output.
func Display(normalized string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(normalized))
}
