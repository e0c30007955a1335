// Package similarity implements the scoring strategies used to compare
// two tracks by audio features or by genre overlap.
package similarity

import "fmt"

// Strategy selects the scoring function used to compare a candidate
// against the source. The set is closed: eight strategies, no plugins.
type Strategy string

const (
	StrategyEuclidean   Strategy = "euclidean"
	StrategyWeighted    Strategy = "weighted"
	StrategyCosine      Strategy = "cosine"
	StrategyManhattan   Strategy = "manhattan"
	StrategyEnergyMatch Strategy = "energy_match"
	StrategyMoodMatch   Strategy = "mood_match"
	StrategyRhythmMatch Strategy = "rhythm_match"
	StrategyGenreMatch  Strategy = "genre_match"
)

var strategies = map[Strategy]struct{}{
	StrategyEuclidean:   {},
	StrategyWeighted:    {},
	StrategyCosine:      {},
	StrategyManhattan:   {},
	StrategyEnergyMatch: {},
	StrategyMoodMatch:   {},
	StrategyRhythmMatch: {},
	StrategyGenreMatch:  {},
}

// ParseStrategy validates a strategy name. The empty string parses to
// the default euclidean strategy.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyEuclidean, nil
	}
	strategy := Strategy(s)
	if _, ok := strategies[strategy]; !ok {
		return "", fmt.Errorf("similarity: unknown strategy %q", s)
	}
	return strategy, nil
}

// UsesGenres reports whether the strategy compares genre sets instead of
// audio feature vectors.
func (s Strategy) UsesGenres() bool {
	return s == StrategyGenreMatch
}

func (s Strategy) String() string {
	return string(s)
}
