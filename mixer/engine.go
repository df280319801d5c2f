package mixer

import (
	"fmt"
	"math"

	"github.com/tphakala/simd/f32"
)

// Options configures a new Engine. RouteMap is accepted only when its
// channel count equals NumChannels and its track count equals len(inputs);
// otherwise it is ignored and routing falls back to per-track Channel
// designation (§6).
type Options struct {
	MayThrow     bool
	Warp         WarpOptions
	T0, T1       float64
	NumChannels  int
	BufferSize   int
	Interleaved  bool
	OutputRate   float64
	OutputFormat SampleFormat
	HighQuality  bool
	RouteMap     *RouteMap
	ApplyGains   bool

	// ResamplerFactory defaults to NewCubicResamplerFactory() when nil.
	ResamplerFactory ResamplerFactory
}

// Engine orchestrates every input track's trackMixer over a time interval,
// summing into output channels with gain, routing and dither.
type Engine struct {
	tracks []SampleSource
	mixers []*trackMixer
	params ResampleParameters

	resamplerFactory ResamplerFactory
	numChannels      int
	bufferSize       int
	interleaved      bool
	outputRate       float64
	format           SampleFormat
	highQuality      bool
	mayThrow         bool
	applyGains       bool
	routeMap         *RouteMap
	warp             WarpOptions

	t0, t1, time, speed float64

	channelAccum [][]float32
	scratch      [2][]float32
	envScratch   []float32
	gainScratch  []float32
	interleave2  []float32
	channelFlags []bool
	gains        []float32

	converter FormatConverter
	outBuf    [][]byte
}

// NewEngine constructs an Engine for the given inputs. Inputs are fixed for
// the engine's lifetime (§3 Lifecycles).
func NewEngine(tracks []SampleSource, opts Options) (*Engine, error) {
	assertf(opts.NumChannels > 0, "NewEngine: NumChannels must be positive")
	assertf(opts.BufferSize > 0, "NewEngine: BufferSize must be positive")
	assertf(opts.OutputRate > 0, "NewEngine: OutputRate must be positive")
	assertf(!math.IsNaN(opts.Warp.InitialSpeed) && !math.IsInf(opts.Warp.InitialSpeed, 0), "NewEngine: non-finite initial speed")

	e := &Engine{
		tracks:      tracks,
		numChannels: opts.NumChannels,
		bufferSize:  opts.BufferSize,
		interleaved: opts.Interleaved,
		outputRate:  opts.OutputRate,
		format:      opts.OutputFormat,
		highQuality: opts.HighQuality,
		mayThrow:    opts.MayThrow,
		applyGains:  opts.ApplyGains,
		warp:        opts.Warp,
		t0:          opts.T0,
		t1:          opts.T1,
		time:        opts.T0,
	}

	e.speed = opts.Warp.InitialSpeed
	if e.speed == 0 {
		e.speed = 1
	}

	e.params = newResampleParameters(tracks, opts.OutputRate, opts.Warp)

	e.resamplerFactory = opts.ResamplerFactory
	if e.resamplerFactory == nil {
		e.resamplerFactory = NewCubicResamplerFactory()
	}

	e.mixers = make([]*trackMixer, len(tracks))
	for i, tr := range tracks {
		r := e.resamplerFactory(opts.HighQuality, e.params.minFactor[i], e.params.maxFactor[i])
		tm := newTrackMixer(tr, r)
		tm.reposition(opts.T0)
		e.mixers[i] = tm
	}

	if opts.RouteMap != nil && opts.RouteMap.NumChannels() == opts.NumChannels && opts.RouteMap.NumTracks() == len(tracks) {
		e.routeMap = opts.RouteMap
	}

	e.channelAccum = make([][]float32, opts.NumChannels)
	for c := range e.channelAccum {
		e.channelAccum[c] = make([]float32, opts.BufferSize)
	}
	e.scratch[0] = make([]float32, opts.BufferSize+1)
	e.scratch[1] = make([]float32, opts.BufferSize+1)

	envCap := Qmax
	if opts.BufferSize > envCap {
		envCap = opts.BufferSize
	}
	e.envScratch = make([]float32, envCap)
	e.gainScratch = make([]float32, opts.BufferSize)
	e.interleave2 = make([]float32, opts.BufferSize*2)
	e.channelFlags = make([]bool, opts.NumChannels)
	e.gains = make([]float32, opts.NumChannels)

	dither := DitherLow
	if opts.HighQuality {
		dither = DitherHigh
	}
	e.converter = NewFormatConverter(opts.OutputFormat, dither)

	bps := opts.OutputFormat.BytesPerSample()
	if opts.Interleaved {
		e.outBuf = [][]byte{make([]byte, opts.BufferSize*opts.NumChannels*bps)}
	} else {
		e.outBuf = make([][]byte, opts.NumChannels)
		for c := range e.outBuf {
			e.outBuf[c] = make([]byte, opts.BufferSize*bps)
		}
	}

	return e, nil
}

// BufferSize returns B, the fixed per-call capacity.
func (e *Engine) BufferSize() int { return e.bufferSize }

// MixGetCurrentTime returns the engine's current playback position.
func (e *Engine) MixGetCurrentTime() float64 { return e.time }

func (e *Engine) clearAccumulators() {
	for _, ch := range e.channelAccum {
		for i := range ch {
			ch[i] = 0
		}
	}
}

// leaderGroupSize infers how many consecutive tracks form one logical
// multi-channel source, since this package's flattened SampleSource list
// has no separate track-list grouping concept: a Left track immediately
// followed by a Right track is treated as one stereo leader (nIn=2);
// anything else is nIn=1. This is the Go-idiomatic stand-in for the
// original TrackList::Channels() grouping.
func leaderGroupSize(tracks []SampleSource, i int) int {
	if tracks[i].Channel() == ChannelLeft && i+1 < len(tracks) && tracks[i+1].Channel() == ChannelRight {
		return 2
	}
	return 1
}

func (e *Engine) computeChannelFlags(trackIdx int, ch Channel) {
	if e.routeMap != nil {
		for c := 0; c < e.numChannels; c++ {
			e.channelFlags[c] = e.routeMap.Get(trackIdx, c)
		}
		return
	}
	for c := range e.channelFlags {
		e.channelFlags[c] = false
	}
	switch ch {
	case ChannelLeft:
		e.channelFlags[0] = true
	case ChannelRight:
		if e.numChannels >= 2 {
			e.channelFlags[1] = true
		} else {
			e.channelFlags[0] = true
		}
	default:
		for c := range e.channelFlags {
			e.channelFlags[c] = true
		}
	}
}

// accumulateGain adds gain*src into dst, using tphakala/simd's f32.Scale for
// the non-unity case, following the teacher's unrolled-fast-path style for
// hot per-channel accumulation.
func accumulateGain(dst, src []float32, gain float32, scratch []float32) {
	if gain == 1 {
		for k := range src {
			dst[k] += src[k]
		}
		return
	}
	if gain == 0 {
		return
	}
	tmp := scratch[:len(src)]
	f32.Scale(tmp, src, gain)
	for k := range tmp {
		dst[k] += tmp[k]
	}
}

// Process produces up to maxToProcess samples per output channel, per
// §4.7.
func (e *Engine) Process(maxToProcess int) (int, error) {
	assertf(maxToProcess <= e.bufferSize, "Process: maxToProcess %d exceeds BufferSize %d", maxToProcess, e.bufferSize)

	e.clearAccumulators()
	if len(e.mixers) == 0 || maxToProcess == 0 {
		return 0, nil
	}

	backwards := e.t0 > e.t1
	newTime := e.time
	maxOut := 0
	sameOutputRate := !e.params.variableRates

	i := 0
	for i < len(e.mixers) {
		nIn := leaderGroupSize(e.tracks, i)
		if i+nIn > len(e.mixers) {
			nIn = len(e.mixers) - i
		}
		limit := nIn
		if limit > 2 {
			limit = 2
		}

		var mixed [2]int
		for j := 0; j < limit; j++ {
			ii := i + j
			tm := e.mixers[ii]
			buf := e.scratch[j][:maxToProcess+1]

			var n int
			var err error
			if sameOutputRate && float64(tm.track.SampleRate()) == e.outputRate {
				n, err = tm.mixSameRate(maxToProcess, buf, backwards, e.t1, e.mayThrow, e.envScratch)
			} else {
				n, err = tm.mixVariableRates(maxToProcess, buf, backwards, e.t1, e.outputRate, e.speed, e.warp.Envelope, e.mayThrow, e.envScratch)
			}
			if err != nil {
				return 0, fmt.Errorf("%w: %w", ErrSampleRead, err)
			}

			mixed[j] = n
			if n > maxOut {
				maxOut = n
			}

			newT := float64(tm.pos) / float64(tm.track.SampleRate())
			if backwards {
				if newT < newTime {
					newTime = newT
				}
			} else if newT > newTime {
				newTime = newT
			}
		}

		for j := 0; j < limit; j++ {
			ii := i + j
			tm := e.mixers[ii]
			n := mixed[j]
			if n == 0 {
				continue
			}

			if e.applyGains {
				for c := 0; c < e.numChannels; c++ {
					e.gains[c] = tm.track.ChannelGain(c)
				}
			} else {
				for c := range e.gains {
					e.gains[c] = 1
				}
			}

			e.computeChannelFlags(ii, tm.track.Channel())
			src := e.scratch[j][:n]
			for c := 0; c < e.numChannels; c++ {
				if !e.channelFlags[c] {
					continue
				}
				accumulateGain(e.channelAccum[c][:n], src, e.gains[c], e.gainScratch)
			}
		}

		i += nIn
	}

	if backwards {
		e.time = clampf(newTime, e.t1, e.time)
	} else {
		e.time = clampf(newTime, e.time, e.t1)
	}

	e.encodeOutput(maxOut)
	return maxOut, nil
}

// encodeOutput converts the accumulated channels into the target format,
// taking a SIMD interleave2 fast path for the common stereo-interleaved
// case (mirroring audio/mono_mixer.go's unrolled loop for common channel
// counts) and a generic strided path otherwise.
func (e *Engine) encodeOutput(n int) {
	bps := e.format.BytesPerSample()
	if e.interleaved {
		if e.numChannels == 2 {
			pairs := e.interleave2[:n*2]
			f32.Interleave2(pairs, e.channelAccum[0][:n], e.channelAccum[1][:n])
			e.converter.Convert(e.outBuf[0][:n*2*bps], pairs, 1)
			return
		}
		for c := 0; c < e.numChannels; c++ {
			e.converter.Convert(e.outBuf[0][c*bps:], e.channelAccum[c][:n], e.numChannels)
		}
		return
	}
	for c := 0; c < e.numChannels; c++ {
		e.converter.Convert(e.outBuf[c][:n*bps], e.channelAccum[c][:n], 1)
	}
}

// GetBuffer returns the interleaved output buffer (valid only when the
// engine was constructed with Interleaved: true).
func (e *Engine) GetBuffer() []byte {
	assertf(e.interleaved, "GetBuffer: engine is not interleaved, call GetBuffer(channel)")
	return e.outBuf[0]
}

// GetBufferChannel returns the planar output buffer for one channel (valid
// only when the engine was constructed with Interleaved: false).
func (e *Engine) GetBufferChannel(channel int) []byte {
	assertf(!e.interleaved, "GetBufferChannel: engine is interleaved, call GetBuffer")
	return e.outBuf[channel]
}

// Reposition clamps t into the direction-corrected interval and resets
// every input's cursor and queue. When skipping is true, every Resampler
// is discarded and recreated, since a flushed Resampler must not be reused.
func (e *Engine) Reposition(t float64, skipping bool) {
	lo, hi := e.t0, e.t1
	if lo > hi {
		lo, hi = hi, lo
	}
	t = clampf(t, lo, hi)
	e.time = t

	for i, tm := range e.mixers {
		tm.reposition(t)
		if skipping {
			tm.resampler = e.resamplerFactory(e.highQuality, e.params.minFactor[i], e.params.maxFactor[i])
		}
	}
}

// SetTimesAndSpeed updates the interval and playback speed, then
// repositions to t0.
func (e *Engine) SetTimesAndSpeed(t0, t1, speed float64, skipping bool) {
	assertf(!math.IsNaN(speed) && !math.IsInf(speed, 0), "SetTimesAndSpeed: non-finite speed")
	e.t0, e.t1 = t0, t1
	e.speed = math.Abs(speed)
	e.Reposition(t0, skipping)
}

// SetSpeedForKeyboardScrubbing flips direction when speed's sign disagrees
// with the current direction, then repositions to startTime.
func (e *Engine) SetSpeedForKeyboardScrubbing(speed, startTime float64) {
	assertf(!math.IsNaN(speed) && !math.IsInf(speed, 0), "SetSpeedForKeyboardScrubbing: non-finite speed")
	forward := e.t1 >= e.t0
	wantForward := speed >= 0
	if forward != wantForward {
		if wantForward {
			e.t0, e.t1 = 0, math.MaxFloat64
		} else {
			e.t0, e.t1 = math.MaxFloat64, 0
		}
	}
	e.speed = math.Abs(speed)
	e.Reposition(startTime, true)
}
