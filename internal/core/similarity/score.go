package similarity

import (
	"errors"
	"math"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

// ErrGenreStrategy is returned when Score is invoked with the genre_match
// strategy, which compares genre sets rather than feature vectors.
// Use GenreSimilarity instead.
var ErrGenreStrategy = errors.New("similarity: genre_match compares genre sets, not audio features")

// ErrUnknownStrategy is returned when Score is invoked with a strategy
// value outside the defined set.
var ErrUnknownStrategy = errors.New("similarity: unknown strategy")

// Score computes the similarity of target to source under the given
// strategy. Higher means more similar.
//
// The general-purpose vector metrics (euclidean, weighted, cosine,
// manhattan) operate on normalized features so that all dimensions share
// a [0,1] scale. The three match strategies (energy, mood, rhythm)
// deliberately operate on the raw features: they compare specific
// physically meaningful dimensions where the native scale carries the
// intent, and normalizing would distort it.
//
// energy_match and mood_match can go slightly negative for extreme
// discrepancies; they are not clamped, so ranking and threshold
// filtering see the unclamped value.
func Score(source, target domain.Features, strategy Strategy, weights Weights) (float64, error) {
	switch strategy {
	case StrategyEuclidean:
		return 1.0 / (1.0 + euclideanDistance(source.Normalize(), target.Normalize(), nil)), nil

	case StrategyWeighted:
		return 1.0 / (1.0 + euclideanDistance(source.Normalize(), target.Normalize(), weights)), nil

	case StrategyCosine:
		return cosineSimilarity(source.Normalize(), target.Normalize()), nil

	case StrategyManhattan:
		return 1.0 / (1.0 + manhattanDistance(source.Normalize(), target.Normalize())), nil

	case StrategyEnergyMatch:
		energyDiff := math.Abs(source[domain.FeatureEnergy] - target[domain.FeatureEnergy])
		danceDiff := math.Abs(source[domain.FeatureDanceability] - target[domain.FeatureDanceability])
		return 1.0 - (energyDiff+danceDiff)/2.0, nil

	case StrategyMoodMatch:
		valenceDiff := math.Abs(source[domain.FeatureValence] - target[domain.FeatureValence])
		acousticDiff := math.Abs(source[domain.FeatureAcousticness] - target[domain.FeatureAcousticness])
		return 1.0 - (valenceDiff+acousticDiff)/2.0, nil

	case StrategyRhythmMatch:
		tempo1 := source[domain.FeatureTempo]
		tempo2 := target[domain.FeatureTempo]
		tempoDiff := math.Abs(tempo1-tempo2) / math.Max(math.Max(tempo1, tempo2), 1.0)
		return 1.0 - math.Min(tempoDiff, 1.0), nil

	case StrategyGenreMatch:
		return 0, ErrGenreStrategy

	default:
		return 0, ErrUnknownStrategy
	}
}

// euclideanDistance is the weighted L2 distance over the intersection of
// present dimensions. A nil weights map weighs every dimension 1.0.
func euclideanDistance(a, b domain.Features, weights Weights) float64 {
	sum := 0.0
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			continue
		}
		diff := av - bv
		sum += weights.Get(key) * diff * diff
	}
	return math.Sqrt(sum)
}

// cosineSimilarity computes the dot product over intersecting dimensions
// divided by the product of magnitudes. Each magnitude is taken over that
// vector's own full dimension set, not the intersection. A zero magnitude
// on either side yields exactly 0.
func cosineSimilarity(a, b domain.Features) float64 {
	dot := 0.0
	for key, av := range a {
		if bv, ok := b[key]; ok {
			dot += av * bv
		}
	}

	magA := 0.0
	for _, v := range a {
		magA += v * v
	}
	magB := 0.0
	for _, v := range b {
		magB += v * v
	}

	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// manhattanDistance is the L1 distance over intersecting dimensions.
func manhattanDistance(a, b domain.Features) float64 {
	sum := 0.0
	for key, av := range a {
		if bv, ok := b[key]; ok {
			sum += math.Abs(av - bv)
		}
	}
	return sum
}
