package dynamics

import (
	"fmt"
	"math"

	"github.com/soundry/mixdoctor/internal/feature"
	"github.com/soundry/mixdoctor/internal/types"
	"github.com/soundry/mixdoctor/internal/wave"
)

// Options configures crest factor classification. Thresholds are dB of
// crest factor (peak minus RMS) and must be ordered
// VeryDynamic >= Good >= Compressed > LegacyOverCompressed.
type Options struct {
	VeryDynamicDb          float64 `toml:"very_dynamic_db" validate:"gtefield=GoodDb"`
	GoodDb                 float64 `toml:"good_db"         validate:"gtefield=CompressedDb"`
	CompressedDb           float64 `toml:"compressed_db"   validate:"gt=0"`
	LegacyOverCompressedDb float64 `toml:"legacy_over_compressed_db" validate:"gt=0,ltefield=CompressedDb"` // the old boolean flag's own threshold
	TargetCrestDb          float64 `toml:"target_crest_db" validate:"gt=0"` // target used in the recommended fix
}

func DefaultOptions() Options {
	return Options{
		VeryDynamicDb:          18,
		GoodDb:                 12,
		CompressedDb:           8,
		LegacyOverCompressedDb: 6,
		TargetCrestDb:          12,
	}
}

// Analyze measures peak, RMS and crest factor over the mono downmix, plus
// the DC offset of the signal.
func Analyze(buf *wave.Buffer, opts Options) *types.DynamicsInfo {
	samples := buf.Mono()

	peakDb := feature.Db(feature.PeakAbs(samples))
	rmsDb := feature.Db(feature.RMS(samples))
	crest := peakDb - rmsDb

	result := &types.DynamicsInfo{
		PeakDb:           peakDb,
		RmsDb:            rmsDb,
		DynamicRangeDb:   crest,
		IsOverCompressed: crest < opts.LegacyOverCompressedDb,
		Rating:           ratingFor(crest, opts),
	}

	if result.Rating == types.DynamicsOverCompressed {
		result.RecommendedFix = fmt.Sprintf(
			"Reduce limiting/compression to recover %.1f dB of dynamic range (target %.0f dB crest)",
			opts.TargetCrestDb-crest,
			opts.TargetCrestDb,
		)
	}

	var sum float64
	for _, s := range samples {
		sum += s
	}

	result.DCOffset = sum / float64(len(samples))
	result.DCOffsetDb = feature.Db(math.Abs(result.DCOffset))

	return result
}

func ratingFor(crest float64, opts Options) types.DynamicsRating {
	switch {
	case crest >= opts.VeryDynamicDb:
		return types.DynamicsVeryDynamic
	case crest >= opts.GoodDb:
		return types.DynamicsGood
	case crest >= opts.CompressedDb:
		return types.DynamicsCompressed
	default:
		return types.DynamicsOverCompressed
	}
}
