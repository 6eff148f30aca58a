// Package dateextract implements the first-date-wins publication-date
// heuristic (spec §4.5): scan a document's text for date-like
// substrings in reading order and take the first one that parses.
package dateextract

import (
	"regexp"
	"time"

	"github.com/araddon/dateparse"

	"github.com/ecrawler/harvester/internal/pipeline"
)

// outputLayout is the DD/MM/YYYY format §4.5 requires for
// publication_date.
const outputLayout = "02/01/2006"

// candidatePattern matches the date-like substrings worth handing to
// dateparse.ParseAny: numeric dates (01/02/2023, 2023-02-01) and
// month-name dates (February 1, 2023 / 1 February 2023).
var candidatePattern = regexp.MustCompile(
	`\b(\d{1,4}[/-]\d{1,2}[/-]\d{1,4})\b` +
		`|\b((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4})\b` +
		`|\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+\d{4})\b`,
)

// PublicationDate runs the heuristic over text and returns a formatted
// DD/MM/YYYY string, or pipeline.UnknownDate if no candidate parses.
func PublicationDate(text string) string {
	for _, match := range candidatePattern.FindAllString(text, -1) {
		t, err := dateparse.ParseAny(match)
		if err != nil {
			continue
		}
		return t.Format(outputLayout)
	}
	return pipeline.UnknownDate
}

// parseCandidate is exposed for tests that want to exercise the
// underlying parse step without the full regex scan.
func parseCandidate(s string) (time.Time, bool) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
