package catalog

import (
	"context"
	"regexp"
	"strings"

	"trackmatch/internal/matching"
	"trackmatch/internal/textutil"
)

// albumMatchMin is the similarity at which two album titles are treated as
// the same release.
const albumMatchMin = 0.85

// editionSuffix matches a trailing bracketed group such as "(Deluxe Edition)".
var editionSuffix = regexp.MustCompile(`\s*[(\[][^()\[\]]*[)\]]\s*$`)

// AlbumIndex maps artists to the albums the target catalog carries. It
// implements matching.AlbumValidator.
type AlbumIndex struct {
	albums map[string][]string
}

// NewAlbumIndex builds an index from artist names to album titles.
func NewAlbumIndex(byArtist map[string][]string) *AlbumIndex {
	idx := &AlbumIndex{albums: make(map[string][]string, len(byArtist))}
	for artist, albums := range byArtist {
		for _, album := range albums {
			idx.add(artist, album)
		}
	}
	return idx
}

// AlbumsFromTracks derives an album index from catalog entries, crediting
// each album to every listed artist.
func AlbumsFromTracks(tracks []matching.Track) *AlbumIndex {
	idx := &AlbumIndex{albums: make(map[string][]string)}
	for _, t := range tracks {
		for _, artist := range t.Artists {
			idx.add(artist, t.Album)
		}
	}
	return idx
}

// LoadAlbums reads a JSON or YAML map of artist to album titles.
func LoadAlbums(path string) (*AlbumIndex, error) {
	var byArtist map[string][]string
	if err := decodeFile(path, &byArtist); err != nil {
		return nil, err
	}
	return NewAlbumIndex(byArtist), nil
}

func (a *AlbumIndex) add(artist, album string) {
	key := textutil.Normalize(artist)
	title := albumKey(album)
	if key == "" || title == "" {
		return
	}
	for _, existing := range a.albums[key] {
		if existing == title {
			return
		}
	}
	a.albums[key] = append(a.albums[key], title)
}

// Artists returns the number of distinct artists in the index.
func (a *AlbumIndex) Artists() int {
	if a == nil {
		return 0
	}
	return len(a.albums)
}

// Exists implements matching.AlbumValidator.
func (a *AlbumIndex) Exists(ctx context.Context, artist, album string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if a == nil {
		return false, nil
	}
	want := albumKey(album)
	if want == "" {
		return false, nil
	}
	for _, have := range a.albums[textutil.Normalize(artist)] {
		if have == want || textutil.NormalizedSimilarity(have, want) >= albumMatchMin {
			return true, nil
		}
	}
	return false, nil
}

func albumKey(album string) string {
	trimmed := strings.TrimSpace(album)
	for {
		stripped := editionSuffix.ReplaceAllString(trimmed, "")
		if stripped == trimmed || stripped == "" {
			break
		}
		trimmed = stripped
	}
	return textutil.Normalize(trimmed)
}
