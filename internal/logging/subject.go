package logging

import "strings"

const shortRunIDLength = 8

// FormatSubject builds the run/track subject used in console output, e.g.
// "Run 1a2b3c4d · daft punk - one more time".
func FormatSubject(runID, trackKey string) string {
	runID = strings.TrimSpace(runID)
	trackKey = strings.TrimSpace(trackKey)
	parts := make([]string, 0, 2)
	if runID != "" {
		if len(runID) > shortRunIDLength {
			runID = runID[:shortRunIDLength]
		}
		parts = append(parts, "Run "+runID)
	}
	if trackKey != "" {
		parts = append(parts, trackKey)
	}
	return strings.Join(parts, " · ")
}
