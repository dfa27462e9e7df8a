package matching

import (
	"strings"

	"trackmatch/internal/textutil"
	"trackmatch/internal/trackname"
)

// mainArtistFactor discounts matches found only after splitting a credit on
// connector words.
const mainArtistFactor = 0.95

// mainArtistConnectors end the main credit of a collaboration string. The
// split is heuristic: names that contain one of these words as a whole word
// ("Simon and Garfunkel") are cut short on both sides alike.
var mainArtistConnectors = map[string]bool{
	"with":      true,
	"feat":      true,
	"featuring": true,
	"ft":        true,
	"and":       true,
	"x":         true,
	"vs":        true,
}

// mainArtist returns the normalized lead name of a credit string.
func mainArtist(credit string) string {
	if i := strings.IndexAny(credit, ",;/&"); i > 0 {
		credit = credit[:i]
	}
	words := strings.Fields(textutil.Normalize(credit))
	for i, word := range words {
		if i > 0 && mainArtistConnectors[word] {
			return strings.Join(words[:i], " ")
		}
	}
	return strings.Join(words, " ")
}

// artistSimilarity is the best of the joined credit, the primary credit and
// the discounted main-artist comparison.
func artistSimilarity(src *sourceProfile, c Candidate) float64 {
	line := textutil.Normalize(c.ArtistLine())
	joined := textutil.NormalizedSimilarity(src.artistLine, line)
	primary := primaryArtistSimilarity(src.primary, c)
	main := mainArtistFactor * textutil.NormalizedSimilarity(src.mainArtist, mainArtist(c.ArtistLine()))
	return clamp01(max(joined, primary, main))
}

// primaryArtistSimilarity compares a normalized primary credit with the
// candidate's whole artist line and with each of its artists.
func primaryArtistSimilarity(primary string, c Candidate) float64 {
	best := textutil.NormalizedSimilarity(primary, textutil.Normalize(c.ArtistLine()))
	for _, artist := range c.Artists {
		if best == 1 {
			break
		}
		best = max(best, textutil.NormalizedSimilarity(primary, textutil.Normalize(artist)))
	}
	return best
}

// featuredCreditThreshold is the similarity at which a name featured in the
// candidate title is taken to be a secondary source artist.
const featuredCreditThreshold = 0.8

// creditedInTitle reports whether the candidate moved one of the source's
// secondary artists from the artist field into a "(feat. X)" title credit.
func creditedInTitle(src *sourceProfile, c Candidate) bool {
	if len(src.secondary) == 0 {
		return false
	}
	for _, featured := range trackname.FeaturedArtists(c.Title) {
		for _, secondary := range src.secondary {
			if textutil.NormalizedSimilarity(featured, secondary) >= featuredCreditThreshold {
				return true
			}
		}
	}
	return false
}
