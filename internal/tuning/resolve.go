// SPDX-License-Identifier: GPL-3.0-or-later

// Package tuning applies desired logical settings to an adapter as a
// best-effort, individually-reversible batch: snapshot, fuzzy value
// resolution, ordered apply with reverse-order rollback, and restore
// from a saved snapshot.
package tuning

import (
	"regexp"
	"strings"
)

var nonAlphanumRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeValue lowercases and strips everything that is not a letter
// or a digit, so "802.11ax (preview)" and "802.11AX Preview" compare equal.
func normalizeValue(s string) string {
	return nonAlphanumRe.ReplaceAllString(strings.ToLower(s), "")
}

// ResolveValue matches a desired logical value against the discrete
// display values a driver accepts. Candidates are tried in three
// precedence tiers, each scanning validValues in order:
//
//  1. exact normalized equality
//  2. candidate contains desired as a substring (normalized)
//  3. desired compiled as a case-insensitive regular expression and
//     matched against the raw candidate; a desired value that is not a
//     valid expression matches nothing
//
// The second return is false when nothing matches; callers treat that
// as "skip this property", not as a failure.
func ResolveValue(desired string, validValues []string) (string, bool) {
	want := normalizeValue(desired)
	if want == "" {
		return "", false
	}

	for _, candidate := range validValues {
		if normalizeValue(candidate) == want {
			return candidate, true
		}
	}

	for _, candidate := range validValues {
		if strings.Contains(normalizeValue(candidate), want) {
			return candidate, true
		}
	}

	if re, err := regexp.Compile("(?i)" + desired); err == nil {
		for _, candidate := range validValues {
			if re.MatchString(candidate) {
				return candidate, true
			}
		}
	}

	return "", false
}
