package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"trackmatch/internal/catalog"
	"trackmatch/internal/matching"
)

// trackFlags describes a source track given on the command line.
type trackFlags struct {
	id          string
	title       string
	artists     []string
	album       string
	releaseDate string
	duration    string
	isrc        string
}

func (f *trackFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "Source track identifier")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Source track title")
	cmd.Flags().StringSliceVarP(&f.artists, "artist", "a", nil, "Source artist (repeat for multiple, primary first)")
	cmd.Flags().StringVar(&f.album, "album", "", "Source album")
	cmd.Flags().StringVar(&f.releaseDate, "release-date", "", "Release date as YYYY, YYYY-MM or YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.duration, "duration", "d", "", "Duration as m:ss or milliseconds")
	cmd.Flags().StringVar(&f.isrc, "isrc", "", "Source ISRC")
}

func (f *trackFlags) track() (matching.Track, error) {
	title := strings.TrimSpace(f.title)
	if title == "" {
		return matching.Track{}, errors.New("--title is required when no request file is given")
	}
	durationMS, err := parseDuration(f.duration)
	if err != nil {
		return matching.Track{}, err
	}
	artists := make([]string, 0, len(f.artists))
	for _, a := range f.artists {
		if a = strings.TrimSpace(a); a != "" {
			artists = append(artists, a)
		}
	}
	return matching.Track{
		ID:          strings.TrimSpace(f.id),
		Title:       title,
		Artists:     artists,
		Album:       strings.TrimSpace(f.album),
		ReleaseDate: strings.TrimSpace(f.releaseDate),
		DurationMS:  durationMS,
		ISRC:        strings.TrimSpace(f.isrc),
	}, nil
}

// parseDuration accepts "m:ss", "h:mm:ss" or a plain millisecond count. An
// empty value is an unknown duration.
func parseDuration(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	if !strings.Contains(value, ":") {
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		return ms, nil
	}
	seconds := 0
	for part := range strings.SplitSeq(value, ":") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		seconds = seconds*60 + n
	}
	return seconds * 1000, nil
}

// resolveRequest returns the source and candidates for a command: from a
// request file when one is given, otherwise from flags plus a catalog search.
func resolveRequest(ctx context.Context, cc *commandContext, args []string, flags *trackFlags) (catalog.Request, error) {
	if len(args) > 0 {
		req, err := catalog.LoadRequest(args[0])
		if err != nil {
			return catalog.Request{}, fmt.Errorf("load request: %w", err)
		}
		return req, nil
	}
	src, err := flags.track()
	if err != nil {
		return catalog.Request{}, err
	}
	set, err := cc.loadCatalog()
	if err != nil {
		return catalog.Request{}, err
	}
	cands, err := set.index.Search(ctx, src)
	if err != nil {
		return catalog.Request{}, fmt.Errorf("search catalog: %w", err)
	}
	return catalog.Request{Source: src, Candidates: cands}, nil
}

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid review entry id %q", arg)
	}
	return id, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
