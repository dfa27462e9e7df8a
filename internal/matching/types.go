package matching

import "strings"

// Confidence summarizes how strongly a candidate is believed to be correct.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Track describes a recording as one catalog reports it. Artists are in
// credit order; the first entry is the primary artist. ReleaseDate is
// "YYYY", "YYYY-MM" or "YYYY-MM-DD" (a trailing time component is ignored).
// A negative DurationMS marks a malformed duration.
type Track struct {
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Artists     []string `json:"artists" yaml:"artists"`
	Album       string   `json:"album,omitempty" yaml:"album,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	DurationMS  int      `json:"duration_ms" yaml:"duration_ms"`
	ISRC        string   `json:"isrc,omitempty" yaml:"isrc,omitempty"`
	ArtworkURL  string   `json:"artwork_url,omitempty" yaml:"artwork_url,omitempty"`
}

// PrimaryArtist returns the first credited artist or "".
func (t Track) PrimaryArtist() string {
	for _, artist := range t.Artists {
		if trimmed := strings.TrimSpace(artist); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ArtistLine joins the artist credits the way catalogs display them.
func (t Track) ArtistLine() string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		if trimmed := strings.TrimSpace(artist); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return strings.Join(names, ", ")
}

// Candidate is one search result from the target catalog.
type Candidate struct {
	Track `yaml:",inline"`
}

// FieldScore holds per-field similarities for one (source, candidate) pair.
// Every value is in [0,1]; Identifier is exactly 0 or 1.
type FieldScore struct {
	Identifier        float64 `json:"identifier"`
	Title             float64 `json:"title"`
	Artist            float64 `json:"artist"`
	Album             float64 `json:"album"`
	Duration          float64 `json:"duration"`
	ReleaseDate       float64 `json:"release_date"`
	IsCompilation     bool    `json:"is_compilation"`
	VersionCompatible bool    `json:"version_compatible"`
}

// MatchScore is a scored candidate.
type MatchScore struct {
	Candidate  Candidate  `json:"candidate"`
	Fields     FieldScore `json:"fields"`
	Total      float64    `json:"total"`
	Confidence Confidence `json:"confidence"`
	// Artwork is the optional visual signal; it carries no weight.
	Artwork float64 `json:"artwork"`

	radioEdit bool
	index     int
}

// Result is the outcome of one Match call. Scores are sorted best first.
type Result struct {
	Best       *Candidate   `json:"best,omitempty"`
	Confidence Confidence   `json:"confidence"`
	Scores     []MatchScore `json:"scores"`
	Reason     string       `json:"reason,omitempty"`
	Rule       string       `json:"rule"`
	Filtered   bool         `json:"filtered"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// Matched reports whether a candidate was selected.
func (r Result) Matched() bool {
	return r.Best != nil && r.Confidence != ConfidenceNone
}

// ClosestCandidate explains how a near miss differs from the source.
type ClosestCandidate struct {
	Candidate   Candidate `json:"candidate"`
	Similarity  int       `json:"similarity"`
	Differences []string  `json:"differences"`
}

// Assessment estimates whether a declined track is absent from the target
// catalog.
type Assessment struct {
	Confidence int                `json:"confidence"`
	Reasons    []string           `json:"reasons"`
	Closest    []ClosestCandidate `json:"closest"`
}

const (
	VerdictAlbumNotAvailable = "album_not_available"
	VerdictNotFound          = "not_found"
	VerdictMultipleMatches   = "multiple_matches"

	albumNotAvailableThreshold = 70
)

// Verdict classifies the assessment for reporting: album_not_available when
// absence is likely (confidence >= 70), otherwise not_found.
func (a Assessment) Verdict() string {
	if a.Confidence >= albumNotAvailableThreshold {
		return VerdictAlbumNotAvailable
	}
	return VerdictNotFound
}
