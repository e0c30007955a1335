package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewilliams-labs/resonate/internal/core/domain"
)

func fullFeatures(overrides domain.Features) domain.Features {
	f := domain.Features{
		domain.FeatureAcousticness:     0.5,
		domain.FeatureDanceability:     0.5,
		domain.FeatureEnergy:           0.5,
		domain.FeatureInstrumentalness: 0.5,
		domain.FeatureLiveness:         0.5,
		domain.FeatureLoudness:         -30.0,
		domain.FeatureSpeechiness:      0.5,
		domain.FeatureValence:          0.5,
		domain.FeatureTempo:            120.0,
	}
	for k, v := range overrides {
		f[k] = v
	}
	return f
}

func TestScoreIdenticalVectors(t *testing.T) {
	source := fullFeatures(nil)
	for _, strategy := range []Strategy{
		StrategyEuclidean,
		StrategyWeighted,
		StrategyManhattan,
		StrategyEnergyMatch,
		StrategyMoodMatch,
		StrategyRhythmMatch,
	} {
		t.Run(string(strategy), func(t *testing.T) {
			score, err := Score(source, fullFeatures(nil), strategy, nil)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, score, 1e-9)
		})
	}

	// Cosine of a vector with itself is 1 whenever its magnitude is
	// nonzero.
	score, err := Score(source, fullFeatures(nil), StrategyCosine, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScoreEuclidean(t *testing.T) {
	source := fullFeatures(nil)
	target := fullFeatures(domain.Features{domain.FeatureEnergy: 0.9})

	score, err := Score(source, target, StrategyEuclidean, nil)
	require.NoError(t, err)
	// Single differing dimension: d = 0.4, score = 1/(1+0.4).
	assert.InDelta(t, 1.0/1.4, score, 1e-9)
}

func TestScoreEuclideanIntersectionOnly(t *testing.T) {
	// Dimensions absent from one side are skipped, not zero-filled. With
	// both vectors normalized every dimension is present, so absence only
	// matters through the normalization defaults: a missing bounded
	// dimension becomes 0.
	source := domain.Features{domain.FeatureEnergy: 0.5, domain.FeatureLoudness: -30.0, domain.FeatureTempo: 120.0}
	target := domain.Features{domain.FeatureEnergy: 0.5, domain.FeatureLoudness: -30.0, domain.FeatureTempo: 120.0}

	score, err := Score(source, target, StrategyEuclidean, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestScoreWeighted(t *testing.T) {
	source := fullFeatures(nil)
	target := fullFeatures(domain.Features{domain.FeatureEnergy: 0.9})

	unweighted, err := Score(source, target, StrategyWeighted, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/1.4, unweighted, 1e-9)

	boosted, err := Score(source, target, StrategyWeighted, Weights{domain.FeatureEnergy: 4.0})
	require.NoError(t, err)
	// d = sqrt(4 * 0.16) = 0.8
	assert.InDelta(t, 1.0/1.8, boosted, 1e-9)

	ignored, err := Score(source, target, StrategyWeighted, Weights{domain.FeatureEnergy: 0.0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ignored, 1e-9)
}

func TestScoreManhattan(t *testing.T) {
	source := fullFeatures(nil)
	target := fullFeatures(domain.Features{
		domain.FeatureEnergy:  0.7,
		domain.FeatureValence: 0.4,
	})

	score, err := Score(source, target, StrategyManhattan, nil)
	require.NoError(t, err)
	// d = 0.2 + 0.1 = 0.3
	assert.InDelta(t, 1.0/1.3, score, 1e-9)
}

func TestScoreCosineZeroMagnitude(t *testing.T) {
	// A source whose normalized vector is all zeros (every bounded
	// dimension 0, loudness -60, tempo 50) has zero magnitude.
	source := domain.Features{
		domain.FeatureAcousticness:     0.0,
		domain.FeatureDanceability:     0.0,
		domain.FeatureEnergy:           0.0,
		domain.FeatureInstrumentalness: 0.0,
		domain.FeatureLiveness:         0.0,
		domain.FeatureLoudness:         -60.0,
		domain.FeatureSpeechiness:      0.0,
		domain.FeatureValence:          0.0,
		domain.FeatureTempo:            50.0,
	}

	score, err := Score(source, fullFeatures(nil), StrategyCosine, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestScoreEnergyMatch(t *testing.T) {
	source := fullFeatures(domain.Features{domain.FeatureEnergy: 0.9, domain.FeatureDanceability: 0.8})
	target := fullFeatures(domain.Features{domain.FeatureEnergy: 0.5, domain.FeatureDanceability: 0.6})

	score, err := Score(source, target, StrategyEnergyMatch, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0-(0.4+0.2)/2.0, score, 1e-9)
}

func TestScoreMoodMatchRawValues(t *testing.T) {
	// Mood match reads raw values; out-of-range raw inputs can push the
	// score below zero, and no clamp is applied.
	source := domain.Features{domain.FeatureValence: 0.0, domain.FeatureAcousticness: 0.0}
	target := domain.Features{domain.FeatureValence: 2.5, domain.FeatureAcousticness: 2.5}

	score, err := Score(source, target, StrategyMoodMatch, nil)
	require.NoError(t, err)
	assert.InDelta(t, -1.5, score, 1e-9)
}

func TestScoreRhythmMatch(t *testing.T) {
	tests := []struct {
		name        string
		sourceTempo float64
		targetTempo float64
		want        float64
	}{
		{"equal tempos", 120.0, 120.0, 1.0},
		{"half tempo", 120.0, 60.0, 0.5},
		{"both zero divides by the floor of one", 0.0, 0.0, 1.0},
		{"extreme gap clamps to zero", 1.0, 1000.0, 1.0 - math.Min(999.0/1000.0, 1.0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			source := fullFeatures(domain.Features{domain.FeatureTempo: tc.sourceTempo})
			target := fullFeatures(domain.Features{domain.FeatureTempo: tc.targetTempo})
			score, err := Score(source, target, StrategyRhythmMatch, nil)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, score, 1e-9)
		})
	}
}

func TestScoreGenreStrategyRejected(t *testing.T) {
	_, err := Score(fullFeatures(nil), fullFeatures(nil), StrategyGenreMatch, nil)
	require.ErrorIs(t, err, ErrGenreStrategy)
}

func TestScoreUnknownStrategyRejected(t *testing.T) {
	_, err := Score(fullFeatures(nil), fullFeatures(nil), Strategy("psychic_match"), nil)
	require.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyEuclidean, s)

	s, err = ParseStrategy("rhythm_match")
	require.NoError(t, err)
	assert.Equal(t, StrategyRhythmMatch, s)

	_, err = ParseStrategy("psychic_match")
	require.Error(t, err)
}

func TestWeightsValidate(t *testing.T) {
	require.NoError(t, Weights(nil).Validate())
	require.NoError(t, Weights{domain.FeatureEnergy: 10.0}.Validate())
	require.Error(t, Weights{"swagger": 1.0}.Validate())
	require.Error(t, Weights{domain.FeatureEnergy: -0.1}.Validate())
	require.Error(t, Weights{domain.FeatureEnergy: 10.1}.Validate())
}
