package trackname

import "trackmatch/internal/textutil"

var (
	compilationPattern = keywordPattern(
		"hits", "best of", "greatest", "collection", "various artists",
		"compilation", "anthology", "essential", "essentials", "ultimate",
		"complete", "definitive",
	)
	soundtrackPattern = keywordPattern(
		"soundtrack", "motion picture", "original score", "ost", "music from",
		"music inspired by", "score",
	)
)

// IsCompilation reports whether an album name looks like a compilation
// ("Greatest Hits", "The Best of", "Anthology").
func IsCompilation(album string) bool {
	normalized := textutil.Normalize(album)
	return normalized != "" && compilationPattern.MatchString(normalized)
}

// IsSoundtrack reports whether an album name looks like a film or game
// soundtrack release.
func IsSoundtrack(album string) bool {
	normalized := textutil.Normalize(album)
	return normalized != "" && soundtrackPattern.MatchString(normalized)
}
