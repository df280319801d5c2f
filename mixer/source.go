package mixer

// SampleSource is the random-access view of one input track that the engine
// requires. Implementations need not be thread-safe; the engine calls them
// from a single owner.
type SampleSource interface {
	// SampleRate is the track's native rate in Hz.
	SampleRate() int

	// Channel is this track's default output-channel designation, used
	// when the engine has no RouteMap.
	Channel() Channel

	// StartTime and EndTime bound the track in seconds; samples outside
	// [StartTime, EndTime) are silence.
	StartTime() float64
	EndTime() float64

	// ChannelGain returns the track's gain contribution to output channel c.
	ChannelGain(c int) float32

	// GetFloats reads count consecutive samples starting at startIndex.
	// On failure it returns (nil, nil) and the engine treats the segment
	// as silence, unless mayThrow is true, in which case the
	// implementation may instead return a non-nil error.
	GetFloats(startIndex int64, count int, mayThrow bool) ([]float32, error)

	// GetEnvelopeValues fills out[i] with the gain envelope evaluated at
	// startTimeSeconds + i/SampleRate().
	GetEnvelopeValues(out []float32, startTimeSeconds float64)

	// TimeToLongSamples maps a time in seconds to this track's sample
	// index space.
	TimeToLongSamples(seconds float64) int64
}

// BoundedEnvelope is consumed by variable-rate warping: it knows how to
// average an inverse-speed curve over an interval and report the bounds of
// the speeds it can produce.
type BoundedEnvelope interface {
	// AverageOfInverse returns the time-averaged value of 1/speed over
	// [t0, t1].
	AverageOfInverse(t0, t1 float64) float64

	// RangeLower and RangeUpper bound the speeds this envelope can
	// produce; both are strictly positive.
	RangeLower() float64
	RangeUpper() float64
}
