package mixer

import "github.com/ik5/audiomixer/utils"

// Resampler converts between sample rates at a possibly time-varying
// factor. An instance is created for one input track's lifetime and is
// fed successive slices of its queued samples; after a call with
// isLast == true it is exhausted and must not be reused (see the
// resampler-flush-reuse note in SPEC_FULL.md).
type Resampler interface {
	// Process consumes a prefix of in, applying rate factor =
	// output/input, and writes produced samples into out. Neither
	// inUsed nor outProduced need equal len(in) or len(out).
	Process(factor float64, in []float32, isLast bool, out []float32) (inUsed, outProduced int)
}

// ResamplerFactory builds one Resampler for an input track, given whether
// high-quality interpolation was requested and the [minFactor,maxFactor]
// range the engine computed for that track.
type ResamplerFactory func(highQuality bool, minFactor, maxFactor float64) Resampler

// cubicResampler performs cubic (or, in low-quality mode, linear)
// interpolation at a variable rate factor, carrying the fractional read
// position and a one-sample trailing history across Process calls so
// interpolation stays continuous across call boundaries. This mirrors the
// teacher's audio.Resampler, which keeps the same kind of frame history
// (see audio/resampler.go), adapted from a pull-from-Source streaming
// model to this package's push-a-slice-get-a-slice model.
type cubicResampler struct {
	highQuality          bool
	minFactor, maxFactor float64

	pos        float64 // fractional position into the current call's in, continued from the previous call
	prevSample float32
	havePrev   bool
}

// NewCubicResamplerFactory returns a ResamplerFactory producing cubic
// (high-quality) or linear (low-quality) interpolators, reusing the
// teacher's cubic interpolation kernel.
func NewCubicResamplerFactory() ResamplerFactory {
	return func(highQuality bool, minFactor, maxFactor float64) Resampler {
		return &cubicResampler{highQuality: highQuality, minFactor: minFactor, maxFactor: maxFactor}
	}
}

func (r *cubicResampler) at(in []float32, idx int) float32 {
	switch {
	case idx < 0:
		if r.havePrev {
			return r.prevSample
		}
		if len(in) > 0 {
			return in[0]
		}
		return 0
	case idx >= len(in):
		if len(in) > 0 {
			return in[len(in)-1]
		}
		return 0
	default:
		return in[idx]
	}
}

func (r *cubicResampler) Process(factor float64, in []float32, isLast bool, out []float32) (inUsed, outProduced int) {
	factor = clampf(factor, r.minFactor, r.maxFactor)
	if factor <= 0 {
		factor = r.minFactor
	}
	step := 1 / factor
	n := len(in)

	written := 0
	for written < len(out) {
		idx := int(r.pos)
		if float64(idx) > r.pos {
			idx--
		}
		if idx >= n {
			break
		}
		frac := float32(r.pos - float64(idx))

		y0 := r.at(in, idx-1)
		y1 := r.at(in, idx)
		y2 := r.at(in, idx+1)
		y3 := r.at(in, idx+2)

		var v float32
		if r.highQuality {
			v = utils.CubicInterpolate(y0, y1, y2, y3, frac)
		} else {
			v = y1 + frac*(y2-y1)
		}
		out[written] = v
		written++
		r.pos += step
	}

	consumed := int(r.pos)
	if consumed > n {
		consumed = n
	}
	if consumed > 0 {
		r.prevSample = in[consumed-1]
		r.havePrev = true
	}
	r.pos -= float64(consumed)

	return consumed, written
}
