package matching

import "trackmatch/internal/trackname"

// artistGateThreshold is the primary-artist similarity below which a
// candidate is treated as a different act.
const artistGateThreshold = 0.3

// Filter drops candidates whose artist is implausible or whose version
// traits (live, acoustic, DJ mix, mash-up and so on) are absent from the
// source. Candidates sharing the source's identifier are always kept. When
// every candidate would be dropped the input is returned unchanged and
// filtered is false.
func Filter(src Track, cands []Candidate) (kept []Candidate, filtered bool) {
	kept, dropped := newSourceProfile(src).filter(cands)
	return kept, len(dropped) > 0
}

type droppedCandidate struct {
	candidate Candidate
	reason    string
}

func (p *sourceProfile) filter(cands []Candidate) ([]Candidate, []droppedCandidate) {
	if len(cands) == 0 {
		return []Candidate{}, nil
	}
	kept := make([]Candidate, 0, len(cands))
	var dropped []droppedCandidate
	for _, c := range cands {
		if reason := p.rejectReason(c); reason != "" {
			dropped = append(dropped, droppedCandidate{candidate: c, reason: reason})
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return cands, nil
	}
	return kept, dropped
}

// rejectReason names the first rule that excludes the candidate, or "".
func (p *sourceProfile) rejectReason(c Candidate) string {
	if IdentifierMatch(p.track.ISRC, c.ISRC) == 1 {
		return ""
	}
	if p.primary != "" && primaryArtistSimilarity(p.primary, c) < artistGateThreshold {
		return "artist mismatch"
	}

	ct := trackname.Detect(c.Title).Merge(trackname.DetectAlbum(c.Album))
	st := p.traits
	switch {
	case ct.DJMix && !st.DJMix:
		return "dj mix"
	case ct.Mashup && !st.Mashup:
		return "mashup"
	case ct.Live && !st.Live:
		return "live"
	case ct.Acoustic && !st.Acoustic:
		return "acoustic"
	case ct.Instrumental && !st.Instrumental:
		return "instrumental"
	case ct.ACappella && !st.ACappella:
		return "a cappella"
	case ct.Demo && !st.Demo:
		return "demo"
	case ct.RadioEdit && !st.RadioEdit:
		return "radio edit"
	}
	return ""
}

// hasIdentifierMatch reports whether any candidate shares the source ISRC.
func (p *sourceProfile) hasIdentifierMatch(cands []Candidate) bool {
	for _, c := range cands {
		if IdentifierMatch(p.track.ISRC, c.ISRC) == 1 {
			return true
		}
	}
	return false
}
