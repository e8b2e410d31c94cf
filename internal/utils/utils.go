package utils

import "strings"

// =============================================================================
// OBJECTIVES
// =============================================================================

// DefaultObjectives is the built-in secret objective list.
var DefaultObjectives = []string{
	"Castle",
	"Spaceship",
	"Pyramid",
	"Treehouse",
	"Bridge",
	"Robot",
	"Lighthouse",
	"Cathedral",
	"Submarine",
	"Windmill",
	"Igloo",
	"Volcano",
}

// PickObjective draws one word uniformly. intn must behave like rand.IntN.
func PickObjective(intn func(int) int, words []string) string {
	if len(words) == 0 {
		return ""
	}
	return words[intn(len(words))]
}

// MergeObjectives appends extra to base, skipping blanks and case-insensitive
// duplicates. Order of first appearance is kept.
func MergeObjectives(base, extra []string) []string {
	seen := make(map[string]bool, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, word := range list {
			word = strings.TrimSpace(word)
			key := strings.ToLower(word)
			if word == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, word)
		}
	}
	return merged
}
