package mixer

import (
	"io"

	"github.com/ik5/audiomixer/audio"
)

// MemoryTrack is a concrete SampleSource that decodes an entire audio.Source
// into memory up front, giving it the random access the engine requires.
// It is the library's one non-stub SampleSource, the way formats/wav,
// formats/mp3 etc. are the non-stub audio.Source implementations alongside
// that interface.
type MemoryTrack struct {
	samples    []float32 // one channel, deinterleaved
	sampleRate int
	channel    Channel
	gain       [3]float32 // indexed by output channel, up to 3 supported directly
	envelope   *Envelope
	startTime  float64
}

// NewMemoryTrack decodes src fully (using its native channel count; for a
// multi-channel audio.Source only the first channel is retained, and there
// is no option to select another channel, so a MemoryTrack for the right
// channel of a stereo source cannot be built from it) and wraps it as a mono
// SampleSource starting at startTime.
func NewMemoryTrack(src audio.Source, startTime float64, ch Channel) (*MemoryTrack, error) {
	rate := src.SampleRate()
	channels := src.Channels()
	if channels < 1 {
		channels = 1
	}

	const chunk = 4096
	buf := make([]float32, chunk*channels)
	var mono []float32
	for {
		n, err := src.ReadSamples(buf)
		frames := n / channels
		for i := 0; i < frames; i++ {
			mono = append(mono, buf[i*channels])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}

	mt := &MemoryTrack{
		samples:    mono,
		sampleRate: rate,
		channel:    ch,
		startTime:  startTime,
	}
	for i := range mt.gain {
		mt.gain[i] = 1
	}
	return mt, nil
}

// SetGain sets the constant gain this track contributes to output channel c.
func (mt *MemoryTrack) SetGain(c int, gain float32) {
	if c >= 0 && c < len(mt.gain) {
		mt.gain[c] = gain
	}
}

// SetEnvelope installs a per-sample gain envelope; nil means unity gain.
func (mt *MemoryTrack) SetEnvelope(e *Envelope) { mt.envelope = e }

func (mt *MemoryTrack) SampleRate() int { return mt.sampleRate }
func (mt *MemoryTrack) Channel() Channel { return mt.channel }
func (mt *MemoryTrack) StartTime() float64 { return mt.startTime }
func (mt *MemoryTrack) EndTime() float64 {
	return mt.startTime + float64(len(mt.samples))/float64(mt.sampleRate)
}

func (mt *MemoryTrack) ChannelGain(c int) float32 {
	if c >= 0 && c < len(mt.gain) {
		return mt.gain[c]
	}
	return 1
}

func (mt *MemoryTrack) GetFloats(startIndex int64, count int, mayThrow bool) ([]float32, error) {
	n := int64(len(mt.samples))
	if startIndex+int64(count) <= 0 || startIndex >= n {
		return nil, nil
	}

	out := make([]float32, count)
	for i := 0; i < count; i++ {
		idx := startIndex + int64(i)
		if idx >= 0 && idx < n {
			out[i] = mt.samples[idx]
		}
	}
	return out, nil
}

func (mt *MemoryTrack) GetEnvelopeValues(out []float32, startTimeSeconds float64) {
	if mt.envelope == nil {
		for i := range out {
			out[i] = 1
		}
		return
	}
	mt.envelope.GetValues(out, startTimeSeconds, 1/float64(mt.sampleRate))
}

func (mt *MemoryTrack) TimeToLongSamples(seconds float64) int64 {
	return TimeToLongSamples(seconds-mt.startTime, mt.sampleRate)
}
