package mixer

// WarpOptions selects how a track's playback rate varies over time: either
// driven by a BoundedEnvelope, by a (minSpeed, maxSpeed) pair, or neither
// (constant rate at InitialSpeed).
type WarpOptions struct {
	Envelope     BoundedEnvelope
	MinSpeed     float64
	MaxSpeed     float64
	InitialSpeed float64
}

// NewConstantWarp returns WarpOptions for constant-rate playback.
func NewConstantWarp(initialSpeed float64) WarpOptions {
	return WarpOptions{InitialSpeed: initialSpeed}
}

// NewEnvelopeWarp returns WarpOptions driven by an envelope.
func NewEnvelopeWarp(e BoundedEnvelope, initialSpeed float64) WarpOptions {
	assertf(e != nil, "NewEnvelopeWarp: nil envelope")
	return WarpOptions{Envelope: e, InitialSpeed: initialSpeed}
}

// NewSpeedRangeWarp returns WarpOptions bounded by a speed range.
func NewSpeedRangeWarp(minSpeed, maxSpeed, initialSpeed float64) WarpOptions {
	assertf(minSpeed >= 0 && maxSpeed >= 0 && minSpeed <= maxSpeed, "NewSpeedRangeWarp: invalid range [%v,%v]", minSpeed, maxSpeed)
	return WarpOptions{MinSpeed: minSpeed, MaxSpeed: maxSpeed, InitialSpeed: initialSpeed}
}

func (w WarpOptions) variableRate() bool {
	return w.Envelope != nil || (w.MinSpeed > 0 && w.MaxSpeed > 0)
}

// ResampleParameters holds, per input track, the [minFactor,maxFactor]
// range the track's Resampler must tolerate, derived from the ratio of
// output to track rate and the warp's effective speed range.
type ResampleParameters struct {
	minFactor, maxFactor []float64
	variableRates        bool
}

func newResampleParameters(tracks []SampleSource, outputRate float64, warp WarpOptions) ResampleParameters {
	rp := ResampleParameters{
		minFactor: make([]float64, len(tracks)),
		maxFactor: make([]float64, len(tracks)),
	}
	for i, tr := range tracks {
		factor := outputRate / float64(tr.SampleRate())
		switch {
		case warp.Envelope != nil:
			rp.variableRates = true
			rp.minFactor[i] = factor / warp.Envelope.RangeUpper()
			rp.maxFactor[i] = factor / warp.Envelope.RangeLower()
		case warp.MinSpeed > 0 && warp.MaxSpeed > 0:
			rp.variableRates = true
			rp.minFactor[i] = factor / warp.MaxSpeed
			rp.maxFactor[i] = factor / warp.MinSpeed
		default:
			rp.minFactor[i] = factor
			rp.maxFactor[i] = factor
		}
		assertf(rp.minFactor[i] > 0 && rp.maxFactor[i] >= rp.minFactor[i], "newResampleParameters: invalid factor range for track %d", i)
	}
	return rp
}
