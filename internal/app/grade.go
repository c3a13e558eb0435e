package app

import (
	"strings"

	"github.com/PranaviDevireddy/cs212project/internal/domain"
)

// Normalize returns the canonical stored form of a raw answer for q:
// whitespace-trimmed for every kind, upper-cased for choice kinds, and for
// multi-choice split on whitespace with duplicates collapsed (first occurrence
// order preserved).
func Normalize(q domain.Question, raw string) string {
	switch q.Kind {
	case domain.SingleChoice:
		return strings.ToUpper(strings.TrimSpace(raw))
	case domain.MultiChoice:
		fields := strings.Fields(strings.ToUpper(raw))
		seen := make(map[string]struct{}, len(fields))
		out := fields[:0]
		for _, f := range fields {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
		return strings.Join(out, " ")
	default:
		return strings.TrimSpace(raw)
	}
}

// Grade normalizes raw and scores it against q. There is no partial credit; a
// malformed or empty answer simply scores zero.
func Grade(q domain.Question, raw string) (normalized string, correct bool, awarded int) {
	normalized = Normalize(q, raw)
	switch q.Kind {
	case domain.SingleChoice:
		correct = normalized != "" && normalized == strings.ToUpper(q.Correct[0])
	case domain.MultiChoice:
		correct = sameSet(strings.Fields(normalized), q.Correct)
	case domain.FreeText:
		correct = normalized != "" && strings.EqualFold(normalized, q.Correct[0])
	}
	if correct {
		awarded = q.Points
	}
	return normalized, correct, awarded
}

// sameSet compares two letter collections as sets, case-insensitively and
// ignoring duplicates. Empty submissions never match.
func sameSet(got, want []string) bool {
	if len(got) == 0 {
		return false
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, w := range want {
		wantSet[strings.ToUpper(w)] = struct{}{}
	}
	gotSet := make(map[string]struct{}, len(got))
	for _, g := range got {
		gotSet[strings.ToUpper(g)] = struct{}{}
	}
	if len(gotSet) != len(wantSet) {
		return false
	}
	for g := range gotSet {
		if _, ok := wantSet[g]; !ok {
			return false
		}
	}
	return true
}
