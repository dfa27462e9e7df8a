package matching

import (
	"trackmatch/internal/textutil"
	"trackmatch/internal/trackname"
)

const (
	soundtrackAlbumFloor   = 0.5
	soundtrackTitleMin     = 0.9
	soundtrackArtistMin    = 0.8
	compilationAlbumFactor = 0.3
)

// albumSimilarity compares album names. An album missing on either side
// scores 0. A soundtrack release on only one side is floored when title and
// artist already agree; a compilation on the candidate side only is penalized.
func albumSimilarity(src *sourceProfile, c Candidate, title, artist float64) (float64, bool) {
	var score float64
	if album := textutil.Normalize(c.Album); src.album != "" && album != "" {
		score = textutil.NormalizedSimilarity(src.album, album)
	}

	if src.soundtrack != trackname.IsSoundtrack(c.Album) &&
		title >= soundtrackTitleMin && artist >= soundtrackArtistMin {
		score = max(score, soundtrackAlbumFloor)
	}

	compilation := trackname.IsCompilation(c.Album)
	if compilation && !src.compilation {
		score *= compilationAlbumFactor
	}
	return clamp01(score), compilation
}
