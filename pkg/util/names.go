package util

import (
	"strings"
)

// maxNameDistance is the largest edit distance still treated as a typo.
const maxNameDistance = 2

// ClosestName returns the candidate that best matches name, ignoring case.
// A candidate matches when one contains the other or when the Levenshtein
// distance between the best aligned substring is at most maxNameDistance.
// Ties go to the earlier candidate.
func ClosestName(name string, candidates []string) (string, bool) {
	name = normalise(name)
	if name == "" {
		return "", false
	}
	best, bestDist := "", maxNameDistance+1
	for _, c := range candidates {
		nc := normalise(c)
		if nc == "" {
			continue
		}
		d := FuzzyMatch(name, nc)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist <= maxNameDistance
}

func normalise(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FuzzyMatch returns the minimum edit distance between the shorter string and
// any substring of the longer one with the same length.
func FuzzyMatch(str1, str2 string) int {
	shorter, longer := []rune(str1), []rune(str2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	minDistance := len(shorter)
	for i := 0; i <= len(longer)-len(shorter); i++ {
		if d := LevenshteinDistance(string(shorter), string(longer[i:i+len(shorter)])); d < minDistance {
			minDistance = d
		}
		if minDistance == 0 {
			break
		}
	}
	return minDistance
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
