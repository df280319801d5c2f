package mixer

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// FormatConverter is consumed by the engine's final format-conversion step
// (§6): it packs float samples into a destination numeric format, spacing
// consecutive samples dstStride sample-slots apart in dst to support both
// interleaved and planar layouts.
type FormatConverter interface {
	Convert(dst []byte, src []float32, dstStride int)
}

// pcmConverter is the one concrete FormatConverter this package ships,
// using gonum's distuv.Uniform (left at its zero-valued Src, which falls
// back to the package's default global source) to generate dither noise.
type pcmConverter struct {
	format SampleFormat
	dither DitherMode
	rpdf   distuv.Uniform // range [-0.5,0.5) LSB, used directly for low quality
}

// NewFormatConverter builds the converter the engine uses for its output
// format and dither mode.
func NewFormatConverter(format SampleFormat, dither DitherMode) FormatConverter {
	return &pcmConverter{
		format: format,
		dither: dither,
		rpdf:   distuv.Uniform{Min: -0.5, Max: 0.5},
	}
}

func (c *pcmConverter) noise() float32 {
	switch c.dither {
	case DitherLow:
		return float32(c.rpdf.Rand())
	case DitherHigh:
		// TPDF: sum of two independent uniforms, range [-1,1] LSB.
		return float32(c.rpdf.Rand() + c.rpdf.Rand())
	default:
		return 0
	}
}

func (c *pcmConverter) Convert(dst []byte, src []float32, dstStride int) {
	bps := c.format.BytesPerSample()
	if c.format == FormatFloat32 {
		for i, v := range src {
			off := i * dstStride * bps
			binary.LittleEndian.PutUint32(dst[off:off+4], math.Float32bits(v))
		}
		return
	}

	scale, lsb := quantizeScale(c.format)
	for i, v := range src {
		off := i * dstStride * bps
		sample := float64(v)*scale + float64(c.noise())*lsb
		writeInt(dst[off:off+bps], sample, c.format)
	}
}

// quantizeScale returns the full-scale multiplier and the size of one LSB
// (in the same units the multiplier produces) for a target integer format.
func quantizeScale(f SampleFormat) (scale, lsb float64) {
	switch f {
	case FormatInt16:
		return 32767, 1
	case FormatInt24:
		return 8388607, 1
	case FormatInt32:
		return 2147483647, 1
	default:
		return 32767, 1
	}
}

func writeInt(dst []byte, sample float64, f SampleFormat) {
	switch f {
	case FormatInt16:
		s := clampSample(sample, -32768, 32767)
		binary.LittleEndian.PutUint16(dst, uint16(int16(s)))
	case FormatInt24:
		s := int32(clampSample(sample, -8388608, 8388607))
		dst[0] = byte(s)
		dst[1] = byte(s >> 8)
		dst[2] = byte(s >> 16)
	case FormatInt32:
		s := clampSample(sample, -2147483648, 2147483647)
		binary.LittleEndian.PutUint32(dst, uint32(int32(s)))
	}
}

func clampSample(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
