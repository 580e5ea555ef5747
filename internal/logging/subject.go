package logging

import "strings"

const shortRunIDLength = 8

// FormatSubject builds the "run · archive" subject string used in console output.
// Run IDs are shortened to their first eight characters.
func FormatSubject(runID, source string) string {
	runID = strings.TrimSpace(runID)
	source = strings.TrimSpace(source)
	if len(runID) > shortRunIDLength {
		runID = runID[:shortRunIDLength]
	}
	switch {
	case runID != "" && source != "":
		return runID + " · " + source
	case runID != "":
		return runID
	default:
		return source
	}
}
