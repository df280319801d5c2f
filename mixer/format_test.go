package mixer_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audiomixer/mixer"
)

func TestFormatConverter_Float32RoundTrip(t *testing.T) {
	t.Parallel()

	c := mixer.NewFormatConverter(mixer.FormatFloat32, mixer.DitherNone)
	dst := make([]byte, 8)
	c.Convert(dst, []float32{0.25, -0.5}, 1)

	require.InDelta(t, 0.25, math.Float32frombits(binary.LittleEndian.Uint32(dst[0:4])), 1e-9)
	require.InDelta(t, -0.5, math.Float32frombits(binary.LittleEndian.Uint32(dst[4:8])), 1e-9)
}

func TestFormatConverter_Int16NoDitherClampsFullScale(t *testing.T) {
	t.Parallel()

	c := mixer.NewFormatConverter(mixer.FormatInt16, mixer.DitherNone)
	dst := make([]byte, 4)
	c.Convert(dst, []float32{1.0, -1.0}, 1)

	require.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(dst[0:2])))
	require.Equal(t, int16(-32767), int16(binary.LittleEndian.Uint16(dst[2:4])))
}

func TestFormatConverter_Int16ClampsBeyondFullScale(t *testing.T) {
	t.Parallel()

	c := mixer.NewFormatConverter(mixer.FormatInt16, mixer.DitherNone)
	dst := make([]byte, 2)
	c.Convert(dst, []float32{5.0}, 1)

	require.Equal(t, int16(32767), int16(binary.LittleEndian.Uint16(dst)))
}

func TestFormatConverter_DstStrideSpacesOutput(t *testing.T) {
	t.Parallel()

	c := mixer.NewFormatConverter(mixer.FormatFloat32, mixer.DitherNone)
	dst := make([]byte, 16)
	c.Convert(dst, []float32{1, 1}, 2)

	require.InDelta(t, 1.0, math.Float32frombits(binary.LittleEndian.Uint32(dst[0:4])), 1e-9)
	require.InDelta(t, 1.0, math.Float32frombits(binary.LittleEndian.Uint32(dst[8:12])), 1e-9)
}
