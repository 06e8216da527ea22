// Package identity derives the stable per-person fingerprint used to cluster
// applications, and the age used by qualification rules.
package identity

import (
	"crypto/md5" //nolint:gosec // fingerprint, not a security boundary
	"encoding/hex"
	"strings"
	"time"
)

// Key fingerprints a person from the four identifying fields. Fields are
// trimmed, lowercased, and joined; missing values contribute an empty
// segment. Two applications collide iff all four normalized fields match,
// and the pipeline treats a collision as "same person".
func Key(name, dateOfBirth, nationality, residence string) string {
	norm := func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	}
	composite := norm(name) + "|" + norm(dateOfBirth) + "|" + norm(nationality) + "|" + norm(residence)
	sum := md5.Sum([]byte(composite)) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// KeyFromDOB is Key with a parsed birth date; a nil date contributes an
// empty segment so that missing and unparsable birth dates cluster together.
func KeyFromDOB(name string, dob *time.Time, nationality, residence string) string {
	dobStr := ""
	if dob != nil {
		dobStr = dob.Format("2006-01-02")
	}
	return Key(name, dobStr, nationality, residence)
}

// Age returns whole years between dob and ref using exact month/day
// comparison, or nil when dob is missing. Callers must pin ref for
// reproducible output.
func Age(dob *time.Time, ref time.Time) *int {
	if dob == nil {
		return nil
	}
	years := ref.Year() - dob.Year()
	if ref.Month() < dob.Month() ||
		(ref.Month() == dob.Month() && ref.Day() < dob.Day()) {
		years--
	}
	return &years
}
