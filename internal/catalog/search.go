package catalog

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"trackmatch/internal/matching"
	"trackmatch/internal/textutil"
)

// minSearchScore is the cosine floor below which a catalog entry is not
// offered as a candidate. Identifier matches bypass it.
const minSearchScore = 0.15

// Hit is one search result with its retrieval score.
type Hit struct {
	Candidate  matching.Candidate `json:"candidate"`
	Score      float64            `json:"score"`
	Identifier bool               `json:"identifier"`
}

// Index serves an in-memory catalog as a matching.SearchProvider. Entries are
// ranked by TF-IDF cosine similarity over title and artist tokens; entries
// sharing the source ISRC always come first.
type Index struct {
	tracks []matching.Track
	prints []*textutil.Fingerprint
	idf    map[string]float64
	limit  int
}

// NewIndex builds an index over tracks. A limit <= 0 returns every hit.
func NewIndex(tracks []matching.Track, limit int) *Index {
	raw := make([]*textutil.Fingerprint, len(tracks))
	corpus := textutil.NewCorpus()
	for i, t := range tracks {
		raw[i] = textutil.NewFingerprint(searchText(t))
		corpus.Add(raw[i])
	}
	idf := corpus.IDF()
	prints := make([]*textutil.Fingerprint, len(tracks))
	for i, fp := range raw {
		prints[i] = fp.WithIDF(idf)
	}
	return &Index{
		tracks: append([]matching.Track(nil), tracks...),
		prints: prints,
		idf:    idf,
		limit:  limit,
	}
}

func searchText(t matching.Track) string {
	return t.Title + " " + strings.Join(t.Artists, " ")
}

// Len returns the number of catalog entries.
func (ix *Index) Len() int {
	return len(ix.tracks)
}

// Tracks returns a copy of the catalog entries.
func (ix *Index) Tracks() []matching.Track {
	return append([]matching.Track(nil), ix.tracks...)
}

// Search implements matching.SearchProvider.
func (ix *Index) Search(ctx context.Context, src matching.Track) ([]matching.Candidate, error) {
	hits, err := ix.SearchScored(ctx, src)
	if err != nil {
		return nil, err
	}
	cands := make([]matching.Candidate, len(hits))
	for i, hit := range hits {
		cands[i] = hit.Candidate
	}
	return cands, nil
}

// SearchScored returns candidates for src with their retrieval scores.
func (ix *Index) SearchScored(ctx context.Context, src matching.Track) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := textutil.NewFingerprint(searchText(src)).WithIDF(ix.idf)
	if query.TokenCount() == 0 && src.ISRC == "" {
		return nil, nil
	}

	type scored struct {
		Hit
		index int
	}
	var found []scored
	for i, t := range ix.tracks {
		hit := Hit{
			Candidate:  matching.Candidate{Track: t},
			Score:      textutil.CosineSimilarity(query, ix.prints[i]),
			Identifier: src.ISRC != "" && matching.IdentifierMatch(src.ISRC, t.ISRC) == 1,
		}
		if !hit.Identifier && hit.Score < minSearchScore {
			continue
		}
		found = append(found, scored{Hit: hit, index: i})
	}

	slices.SortFunc(found, func(a, b scored) int {
		if a.Identifier != b.Identifier {
			if a.Identifier {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	if ix.limit > 0 && len(found) > ix.limit {
		found = found[:ix.limit]
	}

	hits := make([]Hit, len(found))
	for i, f := range found {
		hits[i] = f.Hit
	}
	return hits, nil
}
