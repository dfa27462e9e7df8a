package matching

import (
	"log/slog"

	"trackmatch/internal/logging"
	"trackmatch/internal/textutil"
	"trackmatch/internal/trackname"
)

// ArtworkComparator scores the visual similarity of a candidate's cover art
// against the source in [0,1]. The score is reported but carries no weight.
type ArtworkComparator interface {
	CompareArtwork(src Track, c Candidate) float64
}

// ArtworkFunc adapts a function to ArtworkComparator.
type ArtworkFunc func(src Track, c Candidate) float64

// CompareArtwork calls f.
func (f ArtworkFunc) CompareArtwork(src Track, c Candidate) float64 {
	return f(src, c)
}

// neutralArtwork only recognizes identical artwork URLs; anything else is
// unknown.
type neutralArtwork struct{}

func (neutralArtwork) CompareArtwork(src Track, c Candidate) float64 {
	if src.ArtworkURL != "" && src.ArtworkURL == c.ArtworkURL {
		return 1
	}
	return neutralSimilarity
}

// Matcher decides which candidate, if any, is the same recording as a
// source track. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	weights Weights
	artwork ArtworkComparator
	logger  *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWeights overrides the field weights. Weights that fail Validate are
// replaced by DefaultWeights.
func WithWeights(w Weights) Option {
	return func(m *Matcher) {
		m.weights = w.normalized()
	}
}

// WithArtwork sets the artwork comparator.
func WithArtwork(c ArtworkComparator) Option {
	return func(m *Matcher) {
		if c != nil {
			m.artwork = c
		}
	}
}

// WithLogger sets the logger used for decision diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logging.NewComponentLogger(logger, "matcher")
		}
	}
}

// New builds a Matcher with DefaultWeights, a neutral artwork comparator
// and a no-op logger unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		weights: DefaultWeights(),
		artwork: neutralArtwork{},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Weights returns the weights in effect.
func (m *Matcher) Weights() Weights {
	return m.weights
}

// Fast path thresholds.
const (
	fastPathTitleMin      = 0.85
	fastPathArtistMin     = 0.75
	fastPathDurationGapMS = 2000
)

// Match scores the candidates against src and applies the decision
// procedure. A declined match is an ordinary result with confidence none.
func (m *Matcher) Match(src Track, cands []Candidate) Result {
	if len(cands) == 0 {
		m.logDecision(src, RuleNoCandidates, ConfidenceNone, 0, false)
		return Result{
			Confidence: ConfidenceNone,
			Scores:     []MatchScore{},
			Reason:     ReasonNoCandidates,
			Rule:       RuleNoCandidates,
		}
	}

	p := newSourceProfile(src)
	if !p.hasIdentifierMatch(cands) {
		if i, ok := p.fastPath(cands); ok {
			score := m.scoreOne(p, cands[i], i)
			best := score.Candidate
			result := Result{
				Best:       &best,
				Confidence: ConfidenceHigh,
				Scores:     []MatchScore{score},
				Reason:     fastPathDescription,
				Rule:       RuleFastPath,
			}
			result.Warnings = matchWarnings(p, result.Scores, true)
			m.logDecision(src, RuleFastPath, ConfidenceHigh, len(cands), false)
			return result
		}
	}

	kept, dropped := p.filter(cands)
	for _, d := range dropped {
		m.logger.Debug("candidate filtered",
			logging.String("candidate_id", d.candidate.ID),
			logging.String("candidate_title", d.candidate.Title),
			logging.String("filter_reason", d.reason),
		)
	}

	scores := make([]MatchScore, 0, len(kept))
	for i, c := range kept {
		scores = append(scores, m.scoreOne(p, c, i))
	}
	rank(scores)

	d := &decision{source: p, scores: scores, filtered: len(dropped) > 0}
	r, confidence := d.evaluate()
	result := Result{
		Confidence: confidence,
		Scores:     scores,
		Reason:     r.description,
		Rule:       r.name,
		Filtered:   d.filtered,
	}
	selected := confidence != ConfidenceNone
	if selected {
		best := scores[0].Candidate
		result.Best = &best
	}
	result.Warnings = matchWarnings(p, scores, selected)
	m.logDecision(src, r.name, confidence, len(cands), d.filtered)
	return result
}

func (m *Matcher) scoreOne(p *sourceProfile, c Candidate, index int) MatchScore {
	score := p.score(c, m.weights, index)
	score.Artwork = clamp01(m.artwork.CompareArtwork(p.track, c))
	return score
}

// fastPath returns the index of the first raw candidate whose clean title,
// primary artist and duration all agree with the source.
func (p *sourceProfile) fastPath(cands []Candidate) (int, bool) {
	if p.track.DurationMS < 0 {
		return 0, false
	}
	for i, c := range cands {
		if c.DurationMS < 0 || absInt(p.track.DurationMS-c.DurationMS) >= fastPathDurationGapMS {
			continue
		}
		if textutil.NormalizedSimilarity(p.clean, trackname.Clean(c.Title)) < fastPathTitleMin {
			continue
		}
		if primaryArtistSimilarity(p.primary, c) < fastPathArtistMin {
			continue
		}
		return i, true
	}
	return 0, false
}

// Warning messages attached to Result.Warnings.
const (
	WarningMultipleHigh    = "multiple high-confidence matches found"
	WarningVersionMismatch = "version mismatch: selected candidate is a different version"
	WarningCompilation     = "selected candidate comes from a compilation album"
	WarningRemixNotFound   = "only found original version, not the remix"
)

func matchWarnings(p *sourceProfile, scores []MatchScore, selected bool) []string {
	var warnings []string
	high := 0
	for _, s := range scores {
		if s.Confidence == ConfidenceHigh {
			high++
		}
	}
	if high > 1 {
		warnings = append(warnings, WarningMultipleHigh)
	}
	if !selected || len(scores) == 0 {
		return warnings
	}
	top := scores[0]
	if !top.Fields.VersionCompatible {
		warnings = append(warnings, WarningVersionMismatch)
	}
	if top.Fields.IsCompilation {
		warnings = append(warnings, WarningCompilation)
	}
	if p.version.IsRemix && !trackname.Parse(top.Candidate.Title).IsRemix {
		warnings = append(warnings, WarningRemixNotFound)
	}
	return warnings
}

func (m *Matcher) logDecision(src Track, rule string, confidence Confidence, candidates int, filtered bool) {
	attrs := logging.DecisionAttrs("track_match", string(confidence), rule)
	attrs = append(attrs,
		logging.String(logging.FieldTrackKey, TrackKey(src)),
		logging.Int("candidate_count", candidates),
		logging.Bool("filtered", filtered),
	)
	m.logger.Debug("match decided", logging.Args(attrs...)...)
}

// TrackKey is a short human-readable label for a track in logs and reports.
func TrackKey(t Track) string {
	if t.ID != "" {
		return t.ID
	}
	artist := t.PrimaryArtist()
	if artist == "" {
		return t.Title
	}
	return artist + " - " + t.Title
}
