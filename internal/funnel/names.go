// Package funnel classifies applications: disqualification reasons and the
// seven-stage funnel booleans. The rules encode how the recruiting team
// actually operates, including two named screeners who conduct test-phase
// calls and must not be counted as interview-phase interviewers.
package funnel

import "strings"

// Matcher centralizes the fragile free-text matching around the test-phase
// gatekeepers. The interviewer column is unstructured ("Mira Jradi, John
// Smith and Ada Byron"), so detection of "someone other than the gatekeepers"
// tokenizes the text and looks for any token outside a stop set of the
// gatekeepers' name parts and list punctuation.
type Matcher struct {
	names []string
	stop  map[string]struct{}
}

// NewMatcher builds a Matcher for the given canonical gatekeeper names.
func NewMatcher(names []string) *Matcher {
	m := &Matcher{names: names, stop: map[string]struct{}{
		",": {}, "and": {}, "&": {},
	}}
	for _, full := range names {
		for _, part := range strings.Fields(full) {
			m.stop[part] = struct{}{}
		}
	}
	return m
}

// DefaultMatcher matches the two screeners the funnel rules name explicitly.
var DefaultMatcher = NewMatcher([]string{"Mira Jradi", "Ramzi Jamaleddine"})

// Primary returns the first gatekeeper name; the high-score-rejection carve
// out in the booked-interview rule applies to that screener specifically.
func (m *Matcher) Primary() string {
	if len(m.names) == 0 {
		return ""
	}
	return m.names[0]
}

// IsGatekeeper reports whether the feedback author is exactly one of the
// gatekeepers.
func (m *Matcher) IsGatekeeper(feedbackBy string) bool {
	for _, n := range m.names {
		if feedbackBy == n {
			return true
		}
	}
	return false
}

// MentionedIn reports whether any gatekeeper's full name appears as a
// substring of the free-text interviewer list.
func (m *Matcher) MentionedIn(interviewers string) bool {
	for _, n := range m.names {
		if strings.Contains(interviewers, n) {
			return true
		}
	}
	return false
}

// InvolvedIn reports whether a gatekeeper appears either as the feedback
// author or in the interviewer list.
func (m *Matcher) InvolvedIn(feedbackBy, interviewers string) bool {
	return m.IsGatekeeper(feedbackBy) || m.MentionedIn(interviewers)
}

// HasOtherInterviewer reports whether anyone other than the gatekeepers
// shows up: a non-gatekeeper feedback author, or any interviewer-list token
// outside the stop set.
func (m *Matcher) HasOtherInterviewer(feedbackBy, interviewers string) bool {
	if feedbackBy != "" && !m.IsGatekeeper(feedbackBy) {
		return true
	}
	if interviewers != "" {
		for _, tok := range strings.Fields(interviewers) {
			if _, stopped := m.stop[tok]; !stopped {
				return true
			}
		}
	}
	return false
}
