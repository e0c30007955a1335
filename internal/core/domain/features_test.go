package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Features
		want Features
	}{
		{
			name: "bounded dimensions pass through",
			in: Features{
				FeatureAcousticness: 0.25,
				FeatureEnergy:       0.9,
				FeatureLoudness:     -30.0,
				FeatureTempo:        120.0,
			},
			want: Features{
				FeatureAcousticness:     0.25,
				FeatureDanceability:     0.0,
				FeatureEnergy:           0.9,
				FeatureInstrumentalness: 0.0,
				FeatureLiveness:         0.0,
				FeatureLoudness:         0.5,
				FeatureSpeechiness:      0.0,
				FeatureValence:          0.0,
				FeatureTempo:            7.0 / 15.0,
			},
		},
		{
			name: "missing loudness and tempo use defaults",
			in:   Features{},
			want: Features{
				FeatureAcousticness:     0.0,
				FeatureDanceability:     0.0,
				FeatureEnergy:           0.0,
				FeatureInstrumentalness: 0.0,
				FeatureLiveness:         0.0,
				FeatureLoudness:         0.5,
				FeatureSpeechiness:      0.0,
				FeatureValence:          0.0,
				FeatureTempo:            7.0 / 15.0,
			},
		},
		{
			name: "out of range values are not clamped",
			in: Features{
				FeatureLoudness: 6.0,
				FeatureTempo:    260.0,
			},
			want: Features{
				FeatureAcousticness:     0.0,
				FeatureDanceability:     0.0,
				FeatureEnergy:           0.0,
				FeatureInstrumentalness: 0.0,
				FeatureLiveness:         0.0,
				FeatureLoudness:         1.1,
				FeatureSpeechiness:      0.0,
				FeatureValence:          0.0,
				FeatureTempo:            1.4,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			require.Len(t, got, len(FeatureDimensions))
			for _, dim := range FeatureDimensions {
				assert.InDelta(t, tc.want[dim], got[dim], 1e-9, "dimension %s", dim)
			}
		})
	}
}

func TestNormalizeBoundaries(t *testing.T) {
	assert.InDelta(t, 0.0, NormalizeLoudness(-60.0), 1e-9)
	assert.InDelta(t, 1.0, NormalizeLoudness(0.0), 1e-9)
	assert.InDelta(t, 0.0, NormalizeTempo(50.0), 1e-9)
	assert.InDelta(t, 1.0, NormalizeTempo(200.0), 1e-9)
}

func TestAverageFeatures(t *testing.T) {
	t.Run("empty list is an error", func(t *testing.T) {
		_, err := AverageFeatures(nil)
		require.ErrorIs(t, err, ErrEmptyFeatureList)
	})

	t.Run("missing dimensions contribute zero", func(t *testing.T) {
		avg, err := AverageFeatures([]Features{
			{FeatureEnergy: 0.8, FeatureTempo: 120.0},
			{FeatureEnergy: 0.4},
		})
		require.NoError(t, err)

		// The divisor is the list length, not the count of vectors that
		// carry the dimension.
		assert.InDelta(t, 0.6, avg[FeatureEnergy], 1e-9)
		assert.InDelta(t, 60.0, avg[FeatureTempo], 1e-9)
		assert.InDelta(t, 0.0, avg[FeatureValence], 1e-9)
	})

	t.Run("all nine dimensions are present in the result", func(t *testing.T) {
		avg, err := AverageFeatures([]Features{{FeatureEnergy: 1.0}})
		require.NoError(t, err)
		require.Len(t, avg, len(FeatureDimensions))
	})
}
