package matching

import "testing"

func ids(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.ID)
	}
	return out
}

func equalIDs(got []Candidate, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFilterDropsIncompatibleVersions(t *testing.T) {
	src := track("Hello", "Adele")
	cands := []Candidate{
		candidate("studio", "Hello", "Adele"),
		candidate("live", "Hello (Live at the BBC)", "Adele"),
		candidate("acoustic", "Hello - Acoustic", "Adele"),
		candidate("instrumental", "Hello (Instrumental)", "Adele"),
		candidate("acappella", "Hello (A Cappella)", "Adele"),
		candidate("demo", "Hello (Demo)", "Adele"),
		candidate("radio", "Hello (Radio Edit)", "Adele"),
		candidate("mashup", "Hello / Someone Like You", "Adele"),
		candidate("other-artist", "Hello", "Metallica"),
	}
	djmix := candidate("djmix", "Hello", "Adele")
	djmix.Album = "Ministry of Sound (Mixed by Someone)"
	cands = append(cands, djmix)

	kept, filtered := Filter(src, cands)
	if !filtered {
		t.Fatalf("filtered = false, want true")
	}
	if !equalIDs(kept, "studio") {
		t.Fatalf("kept = %v, want [studio]", ids(kept))
	}
}

func TestFilterKeepsTraitsSharedWithSource(t *testing.T) {
	src := track("Hello (Live)", "Adele")
	cands := []Candidate{
		candidate("live", "Hello (Live at the BBC)", "Adele"),
		candidate("acoustic-live", "Hello (Acoustic)", "Adele"),
	}
	kept, filtered := Filter(src, cands)
	if !filtered {
		t.Fatalf("filtered = false, want true")
	}
	if !equalIDs(kept, "live") {
		t.Fatalf("kept = %v, want [live]", ids(kept))
	}
}

func TestFilterFallsBackWhenEverythingDropped(t *testing.T) {
	src := track("Hello", "Adele")
	cands := []Candidate{
		candidate("live", "Hello (Live)", "Adele"),
		candidate("other", "Hello", "Ed Sheeran"),
	}
	kept, filtered := Filter(src, cands)
	if filtered {
		t.Fatalf("filtered = true, want false")
	}
	if !equalIDs(kept, "live", "other") {
		t.Fatalf("kept = %v, want original list", ids(kept))
	}
}

func TestFilterNeverDropsIdentifierMatch(t *testing.T) {
	src := track("Hello", "Adele")
	src.ISRC = "GBBKS1500214"
	live := candidate("live", "Hello (Live)", "Someone Else")
	live.ISRC = "GBBKS1500214"
	cands := []Candidate{candidate("studio", "Hello", "Adele"), live}

	kept, filtered := Filter(src, cands)
	if filtered {
		t.Fatalf("filtered = true, want false")
	}
	if !equalIDs(kept, "studio", "live") {
		t.Fatalf("kept = %v, want both", ids(kept))
	}
}

func TestFilterEmptyInput(t *testing.T) {
	kept, filtered := Filter(track("Hello", "Adele"), nil)
	if filtered || len(kept) != 0 {
		t.Fatalf("Filter(nil) = %v, %v; want empty, false", kept, filtered)
	}
}

func TestFilterNeverEmptiesNonEmptyInput(t *testing.T) {
	srcs := []Track{track("Hello", "Adele"), track("", ""), track("Hello (Live)", "Adele")}
	lists := [][]Candidate{
		{candidate("a", "Hello (Live)", "Metallica")},
		{candidate("a", "x", ""), candidate("b", "Hello / Bye", "Adele")},
		{candidate("a", "Hello (Demo)", "Adele"), candidate("b", "Hello (Radio Edit)", "Adele")},
	}
	for _, src := range srcs {
		for _, cands := range lists {
			if kept, _ := Filter(src, cands); len(kept) == 0 {
				t.Errorf("Filter(%q, %v) returned no candidates", src.Title, ids(cands))
			}
		}
	}
}
