package matching

import (
	"cmp"
	"slices"

	"trackmatch/internal/trackname"
)

// Rule names reported in Result.Rule.
const (
	RuleNoCandidates         = "no_candidates"
	RuleFastPath             = "fast_path"
	RuleIdentifier           = "identifier"
	RuleTitleDurationContext = "title_duration_context"
	RuleTitleDuration        = "title_duration"
	RuleAlbumDurationArtist  = "album_duration_artist"
	RuleFeaturedCredit       = "featured_credit"
	RuleClearWinner          = "clear_winner"
	RuleFilteredSingle       = "filtered_single"
	RuleFilteredContext      = "filtered_context"
	RuleFilteredStrong       = "filtered_strong"
	RuleSingleCandidate      = "single_candidate"
	RuleDecline              = "decline"
)

const (
	ReasonNoCandidates    = "no candidates"
	ReasonManualSelection = "multiple possible matches, manual selection required"
)

const (
	radioEditPreferenceGap = 0.05
	clearWinnerMargin      = 1.15
	strictFieldMin         = 0.95
	supportingFieldMin     = 0.5
	albumRuleDurationMin   = 0.90
	featuredCreditTotalMin = 0.65
	filteredContextMax     = 3
	filteredContextMin     = 0.55
	filteredStrongMin      = 0.65
	singleCandidateMin     = 0.60
)

// decision is the evaluation context shared by the rule table.
type decision struct {
	source   *sourceProfile
	scores   []MatchScore
	filtered bool
}

func (d *decision) top() MatchScore {
	return d.scores[0]
}

// rule is one entry of the ordered decision table. The first rule whose
// when returns true decides the outcome.
type rule struct {
	name        string
	description string
	when        func(d *decision) bool
	outcome     func(d *decision) Confidence
}

func fixed(c Confidence) func(*decision) Confidence {
	return func(*decision) Confidence { return c }
}

var decisionRules = []rule{
	{
		name:        RuleIdentifier,
		description: "a candidate shares the source ISRC",
		when:        func(d *decision) bool { return d.top().Fields.Identifier == 1 },
		outcome:     fixed(ConfidenceHigh),
	},
	{
		name:        RuleTitleDurationContext,
		description: "title and duration match, supported by album or artist",
		when: func(d *decision) bool {
			f := d.top().Fields
			return f.Title >= strictFieldMin && f.Duration >= strictFieldMin &&
				(f.Album >= supportingFieldMin || f.Artist >= supportingFieldMin)
		},
		outcome: fixed(ConfidenceHigh),
	},
	{
		name:        RuleTitleDuration,
		description: "title and duration match",
		when: func(d *decision) bool {
			f := d.top().Fields
			return f.Title >= strictFieldMin && f.Duration >= strictFieldMin
		},
		outcome: fixed(ConfidenceHigh),
	},
	{
		name:        RuleAlbumDurationArtist,
		description: "album and duration match with a plausible artist",
		when: func(d *decision) bool {
			f := d.top().Fields
			return f.Album >= strictFieldMin && f.Duration >= albumRuleDurationMin && f.Artist >= supportingFieldMin
		},
		outcome: fixed(ConfidenceHigh),
	},
	{
		name:        RuleFeaturedCredit,
		description: "multi-artist source credited as a featured artist in the candidate title",
		when: func(d *decision) bool {
			return len(d.source.secondary) > 0 &&
				trackname.HasFeature(d.top().Candidate.Title) &&
				d.top().Total >= featuredCreditTotalMin
		},
		outcome: fixed(ConfidenceHigh),
	},
	{
		name:        RuleClearWinner,
		description: "strong top score well ahead of the runner-up",
		when: func(d *decision) bool {
			top := d.top()
			if top.Confidence != ConfidenceHigh && top.Total < mediumThreshold {
				return false
			}
			return len(d.scores) == 1 || top.Total > d.scores[1].Total*clearWinnerMargin
		},
		outcome: func(d *decision) Confidence { return d.top().Confidence },
	},
	{
		name:        RuleFilteredSingle,
		description: "filtering left a single candidate",
		when:        func(d *decision) bool { return d.filtered && len(d.scores) == 1 },
		outcome:     fixed(ConfidenceHigh),
	},
	{
		name:        RuleFilteredContext,
		description: "few filtered candidates for a soundtrack or parenthetical source",
		when: func(d *decision) bool {
			if !d.filtered || len(d.scores) > filteredContextMax || d.top().Total < filteredContextMin {
				return false
			}
			return d.source.soundtrack || trackname.HasParenthetical(d.source.track.Title)
		},
		outcome: fixed(ConfidenceMedium),
	},
	{
		name:        RuleFilteredStrong,
		description: "filtered candidates with a solid top score",
		when:        func(d *decision) bool { return d.filtered && d.top().Total >= filteredStrongMin },
		outcome:     fixed(ConfidenceMedium),
	},
	{
		name:        RuleSingleCandidate,
		description: "only one candidate and it scores reasonably",
		when:        func(d *decision) bool { return len(d.scores) == 1 && d.top().Total >= singleCandidateMin },
		outcome:     fixed(ConfidenceMedium),
	},
	{
		name:        RuleDecline,
		description: ReasonManualSelection,
		when:        func(*decision) bool { return true },
		outcome:     fixed(ConfidenceNone),
	},
}

// evaluate returns the first applicable rule and its confidence.
func (d *decision) evaluate() (rule, Confidence) {
	for _, r := range decisionRules {
		if r.when(d) {
			return r, r.outcome(d)
		}
	}
	last := decisionRules[len(decisionRules)-1]
	return last, last.outcome(d)
}

// RuleInfo describes one step of the decision procedure.
type RuleInfo struct {
	Order       int    `json:"order"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const fastPathDescription = "clean title, primary artist and duration agree before full scoring"

// Rules lists the decision steps in evaluation order, starting with the
// fast path.
func Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(decisionRules)+1)
	out = append(out, RuleInfo{Order: 1, Name: RuleFastPath, Description: fastPathDescription})
	for i, r := range decisionRules {
		out = append(out, RuleInfo{Order: i + 2, Name: r.name, Description: r.description})
	}
	return out
}

// rank orders scores best first. Ties on total fall back to title
// similarity, candidate ID and input position. Afterwards a radio edit is
// moved behind a non radio edit that trails it by less than
// radioEditPreferenceGap, and the first identifier match is moved to the
// front.
func rank(scores []MatchScore) {
	slices.SortStableFunc(scores, func(a, b MatchScore) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Fields.Title, a.Fields.Title); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Candidate.ID, b.Candidate.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})

	for swapped := true; swapped; {
		swapped = false
		for i := 0; i+1 < len(scores); i++ {
			a, b := scores[i], scores[i+1]
			if a.radioEdit && !b.radioEdit && a.Total-b.Total < radioEditPreferenceGap {
				scores[i], scores[i+1] = b, a
				swapped = true
			}
		}
	}

	for i, s := range scores {
		if s.Fields.Identifier == 1 {
			if i > 0 {
				promoted := scores[i]
				copy(scores[1:i+1], scores[:i])
				scores[0] = promoted
			}
			break
		}
	}
}
