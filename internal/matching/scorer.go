package matching

import (
	"trackmatch/internal/textutil"
	"trackmatch/internal/trackname"
)

// Tier thresholds on the total score.
const (
	highThreshold   = 0.85
	mediumThreshold = 0.70
	lowThreshold    = 0.50
)

const (
	versionMismatchSimilarity = 0.2
	originalMixFactor         = 0.95
	radioEditFactor           = 0.85
	baseTitleShare            = 0.7
	versionTitleShare         = 0.3
	featuredCreditSimilarity  = 0.95
)

// sourceProfile caches the derived forms of the source track so a candidate
// list is scored without re-deriving them per candidate.
type sourceProfile struct {
	track       Track
	title       string
	clean       string
	version     trackname.Normalized
	titleTags   trackname.Tags
	traits      trackname.Tags
	primary     string
	secondary   []string
	artistLine  string
	mainArtist  string
	album       string
	soundtrack  bool
	compilation bool
}

func newSourceProfile(src Track) *sourceProfile {
	p := &sourceProfile{
		track:       src,
		title:       textutil.Normalize(src.Title),
		clean:       trackname.Clean(src.Title),
		version:     trackname.Parse(src.Title),
		titleTags:   trackname.Detect(src.Title),
		primary:     textutil.Normalize(src.PrimaryArtist()),
		artistLine:  textutil.Normalize(src.ArtistLine()),
		mainArtist:  mainArtist(src.PrimaryArtist()),
		album:       textutil.Normalize(src.Album),
		soundtrack:  trackname.IsSoundtrack(src.Album),
		compilation: trackname.IsCompilation(src.Album),
	}
	p.traits = p.titleTags.Merge(trackname.DetectAlbum(src.Album))
	seenPrimary := false
	for _, artist := range src.Artists {
		name := textutil.Normalize(artist)
		if name == "" {
			continue
		}
		if !seenPrimary {
			seenPrimary = true
			continue
		}
		p.secondary = append(p.secondary, name)
	}
	return p
}

// Score computes the field similarities, weighted total and tier of one
// candidate against the source. Invalid weights fall back to DefaultWeights.
func Score(src Track, c Candidate, w Weights) MatchScore {
	return newSourceProfile(src).score(c, w.normalized(), 0)
}

func (p *sourceProfile) score(c Candidate, w Weights, index int) MatchScore {
	version := trackname.Parse(c.Title)
	tags := trackname.Detect(c.Title)

	var f FieldScore
	f.Identifier = IdentifierMatch(p.track.ISRC, c.ISRC)
	f.Title = p.titleSimilarity(c, version)
	f.Artist = artistSimilarity(p, c)
	f.Album, f.IsCompilation = albumSimilarity(p, c, f.Title, f.Artist)
	f.Duration = DurationSimilarity(p.track.DurationMS, c.DurationMS)
	f.ReleaseDate = ReleaseDateSimilarity(p.track.ReleaseDate, c.ReleaseDate)
	f.VersionCompatible = versionCompatible(p.version, version, p.titleTags, tags)

	total := w.combine(f)
	return MatchScore{
		Candidate:  c,
		Fields:     f,
		Total:      total,
		Confidence: tierFor(f.Identifier, total),
		Artwork:    neutralSimilarity,
		radioEdit:  version.IsRadioEdit || tags.RadioEdit,
		index:      index,
	}
}

// titleSimilarity applies the version rules before falling back to a plain
// comparison of the full titles.
func (p *sourceProfile) titleSimilarity(c Candidate, cv trackname.Normalized) float64 {
	sv := p.version
	if sv.IsRemix != cv.IsRemix {
		return versionMismatchSimilarity
	}

	base := textutil.NormalizedSimilarity(sv.Base, cv.Base)
	var score float64
	switch {
	case sv.HasVersion() && cv.HasVersion():
		if sv.Class() != cv.Class() {
			return versionMismatchSimilarity
		}
		score = baseTitleShare*base + versionTitleShare*textutil.NormalizedSimilarity(sv.Version, cv.Version)
	case cv.HasVersion() && cv.IsOriginalMixTag():
		score = base * originalMixFactor
	case cv.HasVersion() && cv.IsRadioEdit:
		score = base * radioEditFactor
	case sv.HasVersion() || cv.HasVersion():
		score = baseTitleShare * base
	default:
		score = textutil.NormalizedSimilarity(p.title, textutil.Normalize(c.Title))
	}

	if creditedInTitle(p, c) {
		score = max(score, featuredCreditSimilarity*base)
	}
	return clamp01(score)
}

// versionCompatible reports whether two titles name the same kind of
// recording: no remix disagreement and no live, acoustic, instrumental,
// a cappella or demo disagreement.
func versionCompatible(sv, cv trackname.Normalized, st, ct trackname.Tags) bool {
	return sv.IsRemix == cv.IsRemix &&
		st.Live == ct.Live &&
		st.Acoustic == ct.Acoustic &&
		st.Instrumental == ct.Instrumental &&
		st.ACappella == ct.ACappella &&
		st.Demo == ct.Demo
}

func tierFor(identifier, total float64) Confidence {
	switch {
	case identifier == 1:
		return ConfidenceHigh
	case total >= highThreshold:
		return ConfidenceHigh
	case total >= mediumThreshold:
		return ConfidenceMedium
	case total >= lowThreshold:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}
