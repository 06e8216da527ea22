// Package ingest parses recruitment exports (CSV and XLSX) into application
// rows. Exports vary between recruiting-tool versions, so missing columns are
// tolerated and every cell parse is best-effort: an unparsable date or score
// becomes nil rather than failing the whole file.
package ingest

import (
	"strconv"
	"strings"
	"time"
)

// Column names as emitted by the recruiting tool's export.
const (
	colName            = "Candidate Name"
	colDateOfBirth     = "Date of Birth"
	colNationality     = "Nationality"
	colResidence       = "Country of Residence"
	colAgeGroup        = "Age Group"
	colSpeakArabic     = "Speak Arabic"
	colStatus          = "Application Status"
	colInterviewStatus = "Interview Status"
	colJobTitle        = "Posting Title (Job Opening)"
	colSource          = "Application Source"
	colGorillaScore    = "Test Gorilla IQ Score"
	colMaidsccScore    = "Maidscc IQ Score"
	colIQRating        = "IQ Rating"
	colFeedbackBy      = "Interview Feedback By"
	colInterviewers    = "Interviewer(s)"
	colFeedback        = "Interview Feedback"
	colFeedbackType    = "Interview Feedback Type"
	colCreated         = "Created Time (Application)"
	colModified        = "Modified Time (Application)"
	colInterviewTime   = "Created Time (Interview)"
	colOfferSent       = "Offer Sent On Date"
	colOfferAccept     = "Offer Accept Date"
	colDateHired       = "Date Hired (Application)"
	colGorillaDone     = "When TestGorilla Done"
	colSparkhireDone   = "When Sparkhire Done"
)

// columnIndex maps header names to their position in the file at hand.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

// cell returns the trimmed value for a named column, or "" when the column is
// absent or the row is short.
func (c columnIndex) cell(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// dateLayouts covers the formats seen across exports. Tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseScore(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return nil
	}
	return &v
}
