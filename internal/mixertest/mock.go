// SPDX-License-Identifier: EPL-2.0

// Package mixertest provides a random-access mock mixer.SampleSource for
// testing the mixdown engine, alongside internal/audiotest's streaming mock
// used by the format decoders.
package mixertest

import (
	"errors"
	"math"

	"github.com/ik5/audiomixer/mixer"
)

var errReadFailed = errors.New("mixertest: simulated read failure")

// Source is a random-access mock implementing mixer.SampleSource.
type Source struct {
	Samples    []float32
	Rate       int
	Ch         mixer.Channel
	Start, End float64
	Gains      []float32
	Env        func(t float64) float32

	// FailFrom, if non-negative, makes GetFloats return an error (when
	// mayThrow) or nil,nil (when not) for any read whose range extends
	// past this sample index (startIndex+count > FailFrom).
	FailFrom int64
}

// NewRamp builds a mock source directly from values, native rate rate,
// starting at t=0.
func NewRamp(rate int, values []float32) *Source {
	n := int64(len(values))
	return &Source{
		Samples:  values,
		Rate:     rate,
		Ch:       mixer.ChannelMono,
		Start:    0,
		End:      float64(n) / float64(rate),
		FailFrom: -1,
	}
}

// NewConstant builds a mock source that is value everywhere in [0, n/rate).
func NewConstant(rate, n int, value float32) *Source {
	s := make([]float32, n)
	for i := range s {
		s[i] = value
	}
	return NewRamp(rate, s)
}

func (s *Source) SampleRate() int      { return s.Rate }
func (s *Source) Channel() mixer.Channel { return s.Ch }
func (s *Source) StartTime() float64   { return s.Start }
func (s *Source) EndTime() float64     { return s.End }

func (s *Source) ChannelGain(c int) float32 {
	if c >= 0 && c < len(s.Gains) {
		return s.Gains[c]
	}
	return 1
}

func (s *Source) GetFloats(startIndex int64, count int, mayThrow bool) ([]float32, error) {
	if s.FailFrom >= 0 && startIndex+int64(count) > s.FailFrom {
		if mayThrow {
			return nil, errReadFailed
		}
		return nil, nil
	}

	n := int64(len(s.Samples))
	if startIndex+int64(count) <= 0 || startIndex >= n {
		return nil, nil
	}

	out := make([]float32, count)
	for i := 0; i < count; i++ {
		idx := startIndex + int64(i)
		if idx >= 0 && idx < n {
			out[i] = s.Samples[idx]
		}
	}
	return out, nil
}

func (s *Source) GetEnvelopeValues(out []float32, startTimeSeconds float64) {
	if s.Env == nil {
		for i := range out {
			out[i] = 1
		}
		return
	}
	for i := range out {
		out[i] = s.Env(startTimeSeconds + float64(i)/float64(s.Rate))
	}
}

func (s *Source) TimeToLongSamples(seconds float64) int64 {
	return int64(math.Floor(seconds*float64(s.Rate) + 0.5))
}
