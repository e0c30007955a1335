package domain

import "errors"

// Feature dimension names as used by the catalog's audio analysis.
const (
	FeatureAcousticness     = "acousticness"
	FeatureDanceability     = "danceability"
	FeatureEnergy           = "energy"
	FeatureInstrumentalness = "instrumentalness"
	FeatureLiveness         = "liveness"
	FeatureLoudness         = "loudness"
	FeatureSpeechiness      = "speechiness"
	FeatureTempo            = "tempo"
	FeatureValence          = "valence"
)

// FeatureDimensions is the fixed, closed set of audio feature dimensions.
var FeatureDimensions = []string{
	FeatureAcousticness,
	FeatureDanceability,
	FeatureEnergy,
	FeatureInstrumentalness,
	FeatureLiveness,
	FeatureLoudness,
	FeatureSpeechiness,
	FeatureValence,
	FeatureTempo,
}

// Features maps feature dimension names to their numeric values.
// Presence matters: an absent key is not the same as a zero value.
// Distance calculations skip absent dimensions, while averaging
// substitutes 0.0 for them.
type Features map[string]float64

// ErrEmptyFeatureList is returned when averaging an empty list of
// feature vectors. This is a caller contract violation.
var ErrEmptyFeatureList = errors.New("domain: cannot average empty feature list")

// Defaults applied when a dimension is missing before normalization.
const (
	defaultLoudness = -30.0 // mid-range dB
	defaultTempo    = 120.0 // typical BPM
)

// Normalize maps raw features into a common [0,1] space so distance and
// angle metrics are comparable across dimensions.
//
// The seven natively bounded dimensions pass through unchanged (missing
// defaults to 0). Loudness maps from roughly [-60,0] dB via (x+60)/60
// and tempo from roughly [50,200] BPM via (x-50)/150. Values outside the
// assumed ranges map outside [0,1] on purpose: no clamping is applied.
func (f Features) Normalize() Features {
	normalized := make(Features, len(FeatureDimensions))

	for _, key := range []string{
		FeatureAcousticness,
		FeatureDanceability,
		FeatureEnergy,
		FeatureInstrumentalness,
		FeatureLiveness,
		FeatureSpeechiness,
		FeatureValence,
	} {
		normalized[key] = f[key]
	}

	loudness := defaultLoudness
	if v, ok := f[FeatureLoudness]; ok {
		loudness = v
	}
	normalized[FeatureLoudness] = NormalizeLoudness(loudness)

	tempo := defaultTempo
	if v, ok := f[FeatureTempo]; ok {
		tempo = v
	}
	normalized[FeatureTempo] = NormalizeTempo(tempo)

	return normalized
}

// NormalizeLoudness maps a dB value in roughly [-60,0] to [0,1].
func NormalizeLoudness(db float64) float64 {
	return (db + 60.0) / 60.0
}

// NormalizeTempo maps a BPM value in roughly [50,200] to [0,1].
func NormalizeTempo(bpm float64) float64 {
	return (bpm - 50.0) / 150.0
}

// AverageFeatures reduces a list of feature vectors to one representative
// vector by per-dimension arithmetic mean over the nine fixed dimensions.
//
// A dimension missing from an input vector contributes 0.0 to that
// vector's share; the divisor is always the full list length. This
// intentionally differs from the intersect-and-skip rule used by the
// distance strategies.
func AverageFeatures(list []Features) (Features, error) {
	if len(list) == 0 {
		return nil, ErrEmptyFeatureList
	}

	avg := make(Features, len(FeatureDimensions))
	for _, key := range FeatureDimensions {
		sum := 0.0
		for _, f := range list {
			sum += f[key]
		}
		avg[key] = sum / float64(len(list))
	}

	return avg, nil
}
