package matching

import (
	"math"
	"strings"
	"time"
)

const neutralSimilarity = 0.5

// durationTiers maps an absolute millisecond gap to a similarity. The first
// tier whose bound exceeds the gap wins.
var durationTiers = []struct {
	below int
	score float64
}{
	{1000, 1.0},
	{3000, 0.95},
	{5000, 0.85},
	{10000, 0.7},
	{30000, 0.3},
}

const durationFloor = 0.1

// DurationSimilarity scores two durations in milliseconds. A negative value
// on either side is malformed and scores a neutral 0.5.
func DurationSimilarity(a, b int) float64 {
	if a < 0 || b < 0 {
		return neutralSimilarity
	}
	gap := absInt(a - b)
	for _, tier := range durationTiers {
		if gap < tier.below {
			return tier.score
		}
	}
	return durationFloor
}

// releaseDateTiers maps an absolute day gap to a similarity. The first tier
// whose bound is not exceeded wins.
var releaseDateTiers = []struct {
	upTo  int
	score float64
}{
	{0, 1.0},
	{7, 0.9},
	{30, 0.7},
	{365, 0.5},
}

const releaseDateFloor = 0.2

// ReleaseDateSimilarity scores two release dates. A missing or unparsable
// date on either side scores a neutral 0.5.
func ReleaseDateSimilarity(a, b string) float64 {
	da, okA := parseReleaseDate(a)
	db, okB := parseReleaseDate(b)
	if !okA || !okB {
		return neutralSimilarity
	}
	days := int(math.Round(math.Abs(da.Sub(db).Hours()) / 24))
	for _, tier := range releaseDateTiers {
		if days <= tier.upTo {
			return tier.score
		}
	}
	return releaseDateFloor
}

var releaseDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// parseReleaseDate accepts day, month or year precision and ignores any
// trailing time component ("2020-03-20T07:00:00Z").
func parseReleaseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, 'T'); i > 0 {
		value = value[:i]
	}
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IdentifierMatch returns 1 when both ISRCs are present and equal (ignoring
// case, spaces and dashes), else 0. A missing identifier is unknown, not a
// mismatch, and still scores 0.
func IdentifierMatch(a, b string) float64 {
	na, nb := normalizeISRC(a), normalizeISRC(b)
	if na == "" || nb == "" || na != nb {
		return 0
	}
	return 1
}

func normalizeISRC(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	return strings.NewReplacer("-", "", " ", "").Replace(value)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
