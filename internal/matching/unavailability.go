package matching

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"trackmatch/internal/logging"
	"trackmatch/internal/textutil"
	"trackmatch/internal/trackname"
)

// SearchProvider returns candidate tracks for a source track. Results may be
// empty, may repeat and may omit ISRCs or release dates.
type SearchProvider interface {
	Search(ctx context.Context, src Track) ([]Candidate, error)
}

// AlbumValidator reports whether an artist's discography contains an album.
type AlbumValidator interface {
	Exists(ctx context.Context, artist, album string) (bool, error)
}

// Signal weights and thresholds for the unavailability assessment.
const (
	albumMissingPoints    = 40
	artistMissingPoints   = 30
	artistMostlyPoints    = 20
	titleMissingPoints    = 20
	durationMissingPoints = 10
	maxAssessment         = 100

	artistPresentMin      = 0.8
	artistPresentShareMin = 0.2
	titlePresentMin       = 0.7
	durationPresentGapMS  = 30000

	maxClosest = 5
)

// AssessUnavailability estimates, from 0 to 100, how likely it is that the
// source track is absent from the target catalog, and explains the closest
// candidates.
func (m *Matcher) AssessUnavailability(src Track, cands []Candidate, albumFound bool) Assessment {
	primary := textutil.Normalize(src.PrimaryArtist())
	title := textutil.Normalize(src.Title)

	artistHits, titleHits, durationHits := 0, 0, 0
	for _, c := range cands {
		if primaryArtistSimilarity(primary, c) >= artistPresentMin {
			artistHits++
		}
		if textutil.NormalizedSimilarity(title, textutil.Normalize(c.Title)) >= titlePresentMin {
			titleHits++
		}
		if src.DurationMS >= 0 && c.DurationMS >= 0 && absInt(src.DurationMS-c.DurationMS) < durationPresentGapMS {
			durationHits++
		}
	}

	var (
		confidence int
		reasons    = []string{}
	)
	if !albumFound {
		confidence += albumMissingPoints
		reasons = append(reasons, fmt.Sprintf("Album %q not found in artist's discography", src.Album))
	}
	switch {
	case artistHits == 0:
		confidence += artistMissingPoints
		reasons = append(reasons, fmt.Sprintf("No results found for artist %q", src.PrimaryArtist()))
	case float64(artistHits) < float64(len(cands))*artistPresentShareMin:
		confidence += artistMostlyPoints
		reasons = append(reasons, "Most results are from different artists")
	}
	if titleHits == 0 {
		confidence += titleMissingPoints
		reasons = append(reasons, "No tracks with similar names found")
	}
	if durationHits == 0 {
		confidence += durationMissingPoints
		reasons = append(reasons, "No tracks with similar duration found")
	}

	assessment := Assessment{
		Confidence: min(confidence, maxAssessment),
		Reasons:    reasons,
		Closest:    closestCandidates(src, cands),
	}
	m.logger.Debug("unavailability assessed",
		logging.String(logging.FieldTrackKey, TrackKey(src)),
		logging.Int("unavailable_confidence", assessment.Confidence),
		logging.String("verdict", assessment.Verdict()),
		logging.Int("candidate_count", len(cands)),
	)
	return assessment
}

// AssessWith resolves albumFound through v before assessing. A nil
// validator or a validator error counts as "found" so that it adds no
// signal; the error is logged.
func (m *Matcher) AssessWith(ctx context.Context, v AlbumValidator, src Track, cands []Candidate) Assessment {
	return m.AssessUnavailability(src, cands, albumFound(ctx, v, src, m.logger))
}

func albumFound(ctx context.Context, v AlbumValidator, src Track, logger *slog.Logger) bool {
	if v == nil || src.Album == "" {
		return true
	}
	found, err := v.Exists(ctx, src.PrimaryArtist(), src.Album)
	if err != nil {
		logging.WarnWithContext(logger, "album lookup failed", "album_lookup_failed",
			logging.String(logging.FieldTrackKey, TrackKey(src)),
			logging.String("album", src.Album),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the album index path"),
			logging.String(logging.FieldImpact, "album availability not counted in the assessment"),
		)
		return true
	}
	return found
}

// Closeness points per field.
const (
	closeArtistPoints = 40
	closeTitlePoints  = 30
	closeAlbumPoints  = 20

	closeDurationNearMS  = 5000
	closeDurationNearPts = 10
	closeDurationFarMS   = 30000
	closeDurationFarPts  = 5
	closeArtistLabelMin  = 0.8
	closeTitleLabelMin   = 0.8
	closeAlbumLabelMin   = 0.5
)

func closestCandidates(src Track, cands []Candidate) []ClosestCandidate {
	primary := textutil.Normalize(src.PrimaryArtist())
	title := textutil.Normalize(src.Title)
	album := textutil.Normalize(src.Album)

	out := make([]ClosestCandidate, 0, len(cands))
	for _, c := range cands {
		var (
			points      float64
			differences = []string{}
		)

		artist := primaryArtistSimilarity(primary, c)
		points += artist * closeArtistPoints
		if artist < closeArtistLabelMin {
			differences = append(differences, "Different artist: "+c.ArtistLine())
		}

		titleSim := textutil.NormalizedSimilarity(title, textutil.Normalize(c.Title))
		points += titleSim * closeTitlePoints
		if titleSim < closeTitleLabelMin {
			differences = append(differences, titleDifference(c.Title))
		}

		albumSim := textutil.NormalizedSimilarity(album, textutil.Normalize(c.Album))
		points += albumSim * closeAlbumPoints
		if albumSim < closeAlbumLabelMin {
			differences = append(differences, fmt.Sprintf("Different album: %q", c.Album))
		}

		if src.DurationMS >= 0 && c.DurationMS >= 0 {
			gap := absInt(src.DurationMS - c.DurationMS)
			seconds := int(math.Round(float64(gap) / 1000))
			switch {
			case gap < closeDurationNearMS:
				points += closeDurationNearPts
			case gap < closeDurationFarMS:
				points += closeDurationFarPts
				differences = append(differences, fmt.Sprintf("Duration differs by %ds", seconds))
			default:
				differences = append(differences, fmt.Sprintf("Very different duration (%ds difference)", seconds))
			}
		}

		out = append(out, ClosestCandidate{
			Candidate:   c,
			Similarity:  int(math.Round(points)),
			Differences: differences,
		})
	}

	slices.SortStableFunc(out, func(a, b ClosestCandidate) int {
		return b.Similarity - a.Similarity
	})
	if len(out) > maxClosest {
		out = out[:maxClosest]
	}
	return out
}

// titleDifference labels a differing candidate title by its version trait
// when it has one.
func titleDifference(title string) string {
	tags := trackname.Detect(title)
	switch {
	case tags.Live:
		return "Live version"
	case tags.Remix:
		return "Remix version"
	case tags.Acoustic:
		return "Acoustic version"
	case tags.Extended:
		return "Extended version"
	case tags.RadioEdit:
		return "Radio edit"
	}
	return fmt.Sprintf("Different title: %q", title)
}
