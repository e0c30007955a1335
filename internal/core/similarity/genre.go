package similarity

import "strings"

// GenreSimilarity scores genre overlap between a source and target genre
// list. Comparison is case-insensitive. Each source genre earns 1.0 for
// an exact match in the target list, else 0.5 for the first partial
// (substring either way) match; further partial matches for the same
// source genre do not count. The first partial match is the first in the
// target list's order, which keeps the score deterministic for a given
// input ordering.
//
// The total is divided by the source list length and capped at 1.0.
// Either list being empty yields 0.0; that is a defined result, not an
// error.
func GenreSimilarity(source, target []string) float64 {
	if len(source) == 0 || len(target) == 0 {
		return 0.0
	}

	targetLower := make([]string, len(target))
	targetSet := make(map[string]struct{}, len(target))
	for i, g := range target {
		lower := strings.ToLower(g)
		targetLower[i] = lower
		targetSet[lower] = struct{}{}
	}

	total := 0.0
	for _, g := range source {
		sourceGenre := strings.ToLower(g)
		if _, ok := targetSet[sourceGenre]; ok {
			total += 1.0
			continue
		}
		for _, targetGenre := range targetLower {
			if strings.Contains(targetGenre, sourceGenre) || strings.Contains(sourceGenre, targetGenre) {
				total += 0.5
				break
			}
		}
	}

	score := total / float64(len(source))
	if score > 1.0 {
		return 1.0
	}
	return score
}
