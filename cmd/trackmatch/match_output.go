package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"trackmatch/internal/matching"
	"trackmatch/internal/trackname"
)

func formatDuration(ms int) string {
	if ms <= 0 {
		return "-"
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func trackLabel(t matching.Track) string {
	label := t.Title
	if artists := t.ArtistLine(); artists != "" {
		label = artists + " - " + label
	}
	if t.Album != "" {
		label += " [" + t.Album + "]"
	}
	return label
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func renderScores(scores []matching.MatchScore) string {
	headers := []string{"#", "Candidate", "Total", "Tier", "Title", "Artist", "Album", "Duration", "Date", "ISRC"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}
	rows := make([][]string, 0, len(scores))
	for i, s := range scores {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			trackLabel(s.Candidate.Track),
			formatScore(s.Total),
			tierLabel(s.Confidence),
			formatScore(s.Fields.Title),
			formatScore(s.Fields.Artist),
			formatScore(s.Fields.Album),
			formatScore(s.Fields.Duration),
			formatScore(s.Fields.ReleaseDate),
			formatScore(s.Fields.Identifier),
		})
	}
	return renderTable(headers, rows, aligns)
}

func printResult(out io.Writer, src matching.Track, result matching.Result, colorize bool) {
	fmt.Fprintf(out, "Source:     %s (%s)\n", trackLabel(src), formatDuration(src.DurationMS))
	if n := trackname.Parse(src.Title); n.HasVersion() {
		fmt.Fprintf(out, "Version:    %s (%s)\n", trackname.Display(n.Version), n.Class())
	}
	if result.Matched() {
		decision := fmt.Sprintf("matched, %s confidence", strings.ToLower(tierLabel(result.Confidence)))
		fmt.Fprintf(out, "Decision:   %s\n", paint(decision, confidenceKind(result.Confidence), colorize))
		fmt.Fprintf(out, "Selected:   %s (%s)\n", trackLabel(result.Best.Track), formatDuration(result.Best.DurationMS))
	} else {
		fmt.Fprintf(out, "Decision:   %s\n", paint("declined", statusError, colorize))
	}
	fmt.Fprintf(out, "Rule:       %s\n", result.Rule)
	fmt.Fprintf(out, "Reason:     %s\n", orDash(result.Reason))
	fmt.Fprintf(out, "Filtered:   %s\n", yesNo(result.Filtered))
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "Warning:    %s\n", paint(w, statusWarn, colorize))
	}
	if len(result.Scores) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderScores(result.Scores))
	}
}

func printAssessment(out io.Writer, a matching.Assessment, colorize bool) {
	for _, line := range renderSectionHeader("Unavailability", colorize) {
		fmt.Fprintln(out, line)
	}
	kind := statusWarn
	if a.Verdict() == matching.VerdictAlbumNotAvailable {
		kind = statusError
	}
	fmt.Fprintf(out, "Confidence: %s\n", paint(fmt.Sprintf("%d%%", a.Confidence), kind, colorize))
	fmt.Fprintf(out, "Verdict:    %s\n", a.Verdict())
	for _, r := range a.Reasons {
		fmt.Fprintf(out, "  - %s\n", r)
	}
	if len(a.Closest) == 0 {
		return
	}
	rows := make([][]string, 0, len(a.Closest))
	for _, c := range a.Closest {
		rows = append(rows, []string{
			trackLabel(c.Candidate.Track),
			strconv.Itoa(c.Similarity) + "%",
			orDash(strings.Join(c.Differences, "; ")),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Closest", "Similarity", "Differences"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
}
