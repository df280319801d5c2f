package mixer

import "math"

// trackMixer is the per-input pipeline described in SPEC_FULL.md §4.6:
// fetch -> envelope-multiply -> (reverse) -> (resample) -> deliver floats.
type trackMixer struct {
	track     SampleSource
	resampler Resampler
	queue     *sampleQueue
	pos       int64
}

func newTrackMixer(track SampleSource, resampler Resampler) *trackMixer {
	return &trackMixer{track: track, resampler: resampler, queue: newSampleQueue(Qmax)}
}

// reposition sets pos to the sample index for time t and drops any queued
// samples; called on construction and on Engine.Reposition.
func (tm *trackMixer) reposition(t float64) {
	tm.pos = tm.track.TimeToLongSamples(t)
	tm.queue.reset()
}

func reverseFloats(s []float32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// mixSameRate implements §4.6 MixSameRate: the fast path used when the
// track's native rate equals the output rate and the warp is constant.
func (tm *trackMixer) mixSameRate(maxOut int, out []float32, backwards bool, t1 float64, mayThrow bool, env []float32) (int, error) {
	trackRate := float64(tm.track.SampleRate())
	trackStart, trackEnd := tm.track.StartTime(), tm.track.EndTime()

	var tEnd float64
	if backwards {
		tEnd = math.Max(trackStart, t1)
	} else {
		tEnd = math.Min(trackEnd, t1)
	}
	endPos := tm.track.TimeToLongSamples(tEnd)

	if backwards && tm.pos <= endPos {
		return 0, nil
	}
	if !backwards && tm.pos >= endPos {
		return 0, nil
	}

	var slen int
	if backwards {
		slen = int(tm.pos - endPos)
	} else {
		slen = int(endPos - tm.pos)
	}
	if slen > maxOut {
		slen = maxOut
	}
	if slen <= 0 {
		return 0, nil
	}

	t := float64(tm.pos) / trackRate

	var data []float32
	var err error
	var envStart float64
	if backwards {
		data, err = tm.track.GetFloats(tm.pos-int64(slen), slen, mayThrow)
		envStart = t - float64(slen)/trackRate
	} else {
		data, err = tm.track.GetFloats(tm.pos, slen, mayThrow)
		envStart = t
	}
	if err != nil {
		return 0, err
	}
	if data == nil {
		for i := range out[:slen] {
			out[i] = 0
		}
	} else {
		copy(out[:slen], data[:slen])
	}

	tm.track.GetEnvelopeValues(env[:slen], envStart)
	for i := 0; i < slen; i++ {
		out[i] *= env[i]
	}

	if backwards {
		reverseFloats(out[:slen])
		tm.pos -= int64(slen)
	} else {
		tm.pos += int64(slen)
	}
	return slen, nil
}

// mixVariableRates implements §4.6 MixVariableRates.
func (tm *trackMixer) mixVariableRates(maxOut int, out []float32, backwards bool, t1 float64, outputRate, currentSpeed float64, warpEnv BoundedEnvelope, mayThrow bool, env []float32) (int, error) {
	trackRate := float64(tm.track.SampleRate())
	trackStart, trackEnd := tm.track.StartTime(), tm.track.EndTime()

	var tEnd float64
	if backwards {
		tEnd = math.Max(trackStart, t1)
	} else {
		tEnd = math.Min(trackEnd, t1)
	}
	endPos := tm.track.TimeToLongSamples(tEnd)

	initialWarp := outputRate / currentSpeed / trackRate
	tstep := 1 / trackRate

	var t float64
	if backwards {
		t = (float64(tm.pos) + float64(tm.queue.length)) / trackRate
	} else {
		t = (float64(tm.pos) - float64(tm.queue.length)) / trackRate
	}

	written := 0
	for written < maxOut {
		if tm.queue.length < Pslice {
			tm.queue.compact()

			var getLen int
			if backwards {
				getLen = int(tm.pos - endPos)
			} else {
				getLen = int(endPos - tm.pos)
			}
			if free := tm.queue.free(); getLen > free {
				getLen = free
			}
			if getLen < 0 {
				getLen = 0
			}

			if getLen > 0 {
				var data []float32
				var err error
				var envStart float64
				if backwards {
					data, err = tm.track.GetFloats(tm.pos-int64(getLen), getLen, mayThrow)
					envStart = float64(tm.pos-int64(getLen)) / trackRate
				} else {
					data, err = tm.track.GetFloats(tm.pos, getLen, mayThrow)
					envStart = float64(tm.pos) / trackRate
				}
				if err != nil {
					if written > maxOut {
						written = maxOut
					}
					return written, err
				}

				dst := tm.queue.appendSlot(getLen)
				if data == nil {
					for i := range dst {
						dst[i] = 0
					}
				} else {
					copy(dst, data[:getLen])
				}

				tm.track.GetEnvelopeValues(env[:getLen], envStart)
				for i := 0; i < getLen; i++ {
					dst[i] *= env[i]
				}

				if backwards {
					reverseFloats(dst)
					tm.pos -= int64(getLen)
				} else {
					tm.pos += int64(getLen)
				}
			}
		}

		thisLen := Pslice
		isLast := tm.queue.length < Pslice
		if isLast {
			thisLen = tm.queue.length
		}
		if thisLen == 0 {
			break
		}

		factor := initialWarp
		if warpEnv != nil {
			span := float64(thisLen) / trackRate
			if backwards {
				factor *= warpEnv.AverageOfInverse(t-span+tstep, t+tstep)
			} else {
				factor *= warpEnv.AverageOfInverse(t, t+span)
			}
		}

		window := tm.queue.window()
		in := window[:thisLen]
		used, produced := tm.resampler.Process(factor, in, isLast, out[written:])
		tm.queue.advance(used)
		written += produced

		if backwards {
			t -= float64(used) / trackRate
		} else {
			t += float64(used) / trackRate
		}

		if isLast {
			break
		}
	}
	if written > maxOut {
		written = maxOut
	}
	return written, nil
}
