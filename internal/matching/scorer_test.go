package matching

import (
	"math"
	"testing"

	"trackmatch/internal/textutil"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func track(title string, artists ...string) Track {
	return Track{Title: title, Artists: artists, DurationMS: 200000}
}

func candidate(id, title string, artists ...string) Candidate {
	return Candidate{Track: Track{ID: id, Title: title, Artists: artists, DurationMS: 200000}}
}

func TestScoreTitleVersionRules(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		candidate string
		want      float64
	}{
		{"identical", "Blinding Lights", "Blinding Lights", 1},
		{"remix disagreement", "Strobe", "Strobe (Deadmau5 Remix)", 0.2},
		{"original mix tag", "Strobe", "Strobe (Original Mix)", 0.95},
		{"radio edit tag", "Strobe", "Strobe (Radio Edit)", 0.85},
		{"other candidate version", "Yesterday", "Yesterday (Remastered 2009)", 0.7},
		{"same remix", "Strobe (Deadmau5 Remix)", "Strobe [Deadmau5 Remix]", 1},
		{"version class mismatch", "Strobe (Original Mix)", "Strobe (Radio Edit)", 0.2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(track(tc.source, "deadmau5"), candidate("c", tc.candidate, "deadmau5"), DefaultWeights())
			if !approxEqual(got.Fields.Title, tc.want) {
				t.Fatalf("Title = %v, want %v", got.Fields.Title, tc.want)
			}
		})
	}
}

func TestScoreFeaturedCreditPlacement(t *testing.T) {
	src := track("Stay", "The Kid LAROI", "Justin Bieber")
	c := candidate("c", "Stay (feat. Justin Bieber)", "The Kid LAROI")

	got := Score(src, c, DefaultWeights())
	if !approxEqual(got.Fields.Title, 0.95) {
		t.Fatalf("Title = %v, want 0.95", got.Fields.Title)
	}
	if got.Fields.Artist != 1 {
		t.Fatalf("Artist = %v, want 1", got.Fields.Artist)
	}

	// A single-artist source gets no credit-placement allowance.
	solo := Score(track("Stay", "The Kid LAROI"), c, DefaultWeights())
	if solo.Fields.Title >= 0.95 {
		t.Fatalf("solo Title = %v, want below 0.95", solo.Fields.Title)
	}
}

func TestScoreArtistMainArtist(t *testing.T) {
	got := Score(track("One Kiss", "Calvin Harris feat. Dua Lipa"), candidate("c", "One Kiss", "Calvin Harris"), DefaultWeights())
	if !approxEqual(got.Fields.Artist, 0.95) {
		t.Fatalf("Artist = %v, want 0.95", got.Fields.Artist)
	}
}

func TestMainArtist(t *testing.T) {
	tests := map[string]string{
		"Disclosure & Sam Smith":       "disclosure",
		"Major Lazer x DJ Snake":       "major lazer",
		"Calvin Harris feat. Dua Lipa": "calvin harris",
		"Dua Lipa":                     "dua lipa",
		"X Ambassadors":                "x ambassadors",
		"Simon and Garfunkel":          "simon",
		"Beyoncé, JAY-Z":               "beyonce",
	}
	for input, want := range tests {
		if got := mainArtist(input); got != want {
			t.Errorf("mainArtist(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestScoreCompilationPenalty(t *testing.T) {
	src := track("Come Together", "The Beatles")
	src.Album = "Abbey Road"
	c := candidate("c", "Come Together", "The Beatles")
	c.Album = "Abbey Road Greatest Hits"

	got := Score(src, c, DefaultWeights())
	want := textutil.Similarity(src.Album, c.Album) * 0.3
	if !approxEqual(got.Fields.Album, want) {
		t.Fatalf("Album = %v, want %v", got.Fields.Album, want)
	}
	if !got.Fields.IsCompilation {
		t.Fatalf("IsCompilation = false, want true")
	}
}

func TestScoreNoPenaltyWhenSourceIsCompilation(t *testing.T) {
	src := track("Come Together", "The Beatles")
	src.Album = "Greatest Hits"
	c := candidate("c", "Come Together", "The Beatles")
	c.Album = "Greatest Hits"

	got := Score(src, c, DefaultWeights())
	if got.Fields.Album != 1 {
		t.Fatalf("Album = %v, want 1", got.Fields.Album)
	}
}

func TestScoreMissingAlbum(t *testing.T) {
	tests := []struct {
		name   string
		source string
		cand   string
		want   float64
	}{
		{"both missing", "", "", 0},
		{"source missing", "", "25", 0},
		{"candidate missing", "25", "", 0},
		{"punctuation only", "...", "25", 0},
		{"equal", "25", "25", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := track("Hello", "Adele")
			src.Album = tc.source
			c := candidate("c", "Hello", "Adele")
			c.Album = tc.cand
			if got := Score(src, c, DefaultWeights()); got.Fields.Album != tc.want {
				t.Fatalf("Album = %v, want %v", got.Fields.Album, tc.want)
			}
		})
	}
}

func TestScoreSoundtrackFloor(t *testing.T) {
	src := track("Danger Zone", "Kenny Loggins")
	src.Album = "Top Gun (Original Motion Picture Soundtrack)"
	c := candidate("c", "Danger Zone", "Kenny Loggins")
	c.Album = "Danger Zone"

	got := Score(src, c, DefaultWeights())
	if got.Fields.Album != 0.5 {
		t.Fatalf("Album = %v, want 0.5", got.Fields.Album)
	}
}

func TestScoreIdentifierForcesHighTier(t *testing.T) {
	src := track("Something", "Someone")
	src.ISRC = "USUM71900764"
	c := candidate("c", "Unrelated (Live)", "Nobody")
	c.ISRC = "USUM71900764"
	c.DurationMS = 400000

	got := Score(src, c, DefaultWeights())
	if got.Fields.Identifier != 1 {
		t.Fatalf("Identifier = %v, want 1", got.Fields.Identifier)
	}
	if got.Confidence != ConfidenceHigh {
		t.Fatalf("Confidence = %s, want high", got.Confidence)
	}
}

func TestScoreVersionCompatible(t *testing.T) {
	tests := []struct {
		source, candidate string
		want              bool
	}{
		{"Hello", "Hello", true},
		{"Hello", "Hello (Live)", false},
		{"Hello", "Hello (Acoustic)", false},
		{"Hello (Live)", "Hello - Live", true},
		{"Strobe", "Strobe (Deadmau5 Remix)", false},
		{"Strobe", "Strobe (Radio Edit)", true},
	}
	for _, tc := range tests {
		got := Score(track(tc.source, "Adele"), candidate("c", tc.candidate, "Adele"), DefaultWeights())
		if got.Fields.VersionCompatible != tc.want {
			t.Errorf("VersionCompatible(%q, %q) = %v, want %v", tc.source, tc.candidate, got.Fields.VersionCompatible, tc.want)
		}
	}
}

func TestScoreBounded(t *testing.T) {
	sources := []Track{
		track("Blinding Lights", "The Weeknd"),
		{Title: "", Artists: nil, DurationMS: -1},
		{Title: "Señorita (feat. Camila Cabello) [Remix]", Artists: []string{"Shawn Mendes", "Camila Cabello"}, Album: "Greatest Hits", ReleaseDate: "2019", DurationMS: 190000, ISRC: "X"},
	}
	cands := []Candidate{
		candidate("a", "Blinding Lights", "The Weeknd"),
		{Track: Track{ID: "b", Title: "Señorita", Artists: []string{"Shawn Mendes & Camila Cabello"}, Album: "Top Gun Soundtrack", ReleaseDate: "garbage", DurationMS: -20}},
		{Track: Track{ID: "c", ISRC: "x"}},
	}
	for _, src := range sources {
		for _, c := range cands {
			s := Score(src, c, DefaultWeights())
			for name, v := range map[string]float64{
				"identifier":   s.Fields.Identifier,
				"title":        s.Fields.Title,
				"artist":       s.Fields.Artist,
				"album":        s.Fields.Album,
				"duration":     s.Fields.Duration,
				"release_date": s.Fields.ReleaseDate,
				"total":        s.Total,
			} {
				if v < 0 || v > 1 || math.IsNaN(v) {
					t.Errorf("%q vs %q: %s = %v out of range", src.Title, c.Title, name, v)
				}
			}
		}
	}
}
