package scoreboard

import (
	"cmp"
	"slices"
)

// CompareByInterest orders matches for the summary: higher total score first,
// and on equal totals the match started later comes first. Ids are allocated
// in start order, so the id is the start-order key.
func CompareByInterest(a, b Match) int {
	if c := cmp.Compare(b.TotalScore(), a.TotalScore()); c != 0 {
		return c
	}
	return cmp.Compare(b.id, a.id)
}

// Rank sorts ms in place by CompareByInterest.
func Rank(ms []Match) {
	slices.SortFunc(ms, CompareByInterest)
}
