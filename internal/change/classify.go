// Package change classifies the difference between two document revisions
// into a version bump tier.
//
// Heading structure is the structural signal: level-1 headings mark chapter
// boundaries (major), sub-headings mark section shape (medium), and prose-only
// edits are the common case (minor). Both comparison paths (explicit old body
// vs. headings decoded from a stored fingerprint) use the same ordered-sequence
// policy, so pure reordering of headings counts as a structural change.
package change

import (
	"git.home.luguber.info/inful/mdmeta/internal/fingerprint"
)

// Tier is the granularity of a detected change, mapped onto a semantic
// version component.
type Tier string

const (
	TierMajor  Tier = "major"
	TierMedium Tier = "medium"
	TierMinor  Tier = "minor"
)

// Classify compares two ordered heading lists and returns the bump tier.
//
// Level-1 headings are compared as ordered sequences of their texts; any
// difference (add, remove, reorder, edit) is major. Otherwise all remaining
// headings are compared as ordered (level, text) sequences; any difference
// is medium. Otherwise the change is minor.
func Classify(oldHeadings, newHeadings []fingerprint.Heading) Tier {
	if !equalStrings(mainTexts(oldHeadings), mainTexts(newHeadings)) {
		return TierMajor
	}
	if !equalHeadings(subHeadings(oldHeadings), subHeadings(newHeadings)) {
		return TierMedium
	}
	return TierMinor
}

// ClassifyBodies extracts headings from both bodies and classifies the change.
func ClassifyBodies(oldBody, newBody string) Tier {
	return Classify(fingerprint.Headings(oldBody), fingerprint.Headings(newBody))
}

func mainTexts(headings []fingerprint.Heading) []string {
	var out []string
	for _, h := range headings {
		if h.Level == 1 {
			out = append(out, h.Text)
		}
	}
	return out
}

func subHeadings(headings []fingerprint.Heading) []fingerprint.Heading {
	var out []fingerprint.Heading
	for _, h := range headings {
		if h.Level != 1 {
			out = append(out, h)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalHeadings(a, b []fingerprint.Heading) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
