package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audiomixer/mixer"
)

func TestCubicResampler_UnityFactorPassesThrough(t *testing.T) {
	t.Parallel()

	factory := mixer.NewCubicResamplerFactory()
	r := factory(true, 1, 1)

	in := []float32{0, 1, 2, 3, 4, 5, 6, 7}
	out := make([]float32, 8)
	used, produced := r.Process(1, in, true, out)

	require.Equal(t, len(in), used)
	require.Equal(t, len(in), produced)
	for i := range in {
		require.InDelta(t, in[i], out[i], 1e-3)
	}
}

func TestCubicResampler_UpsamplingDoublesOutputCount(t *testing.T) {
	t.Parallel()

	factory := mixer.NewCubicResamplerFactory()
	r := factory(false, 2, 2)

	in := []float32{0, 1, 2, 3}
	out := make([]float32, 8)
	_, produced := r.Process(2, in, true, out)

	require.Greater(t, produced, len(in))
}

func TestCubicResampler_StateCarriesAcrossCalls(t *testing.T) {
	t.Parallel()

	factory := mixer.NewCubicResamplerFactory()
	r := factory(false, 1, 1)

	out1 := make([]float32, 2)
	used1, _ := r.Process(1, []float32{0, 1}, false, out1)
	require.Equal(t, 2, used1)

	out2 := make([]float32, 2)
	used2, produced2 := r.Process(1, []float32{2, 3}, true, out2)
	require.Equal(t, 2, used2)
	require.Equal(t, 2, produced2)
	require.InDelta(t, 2, out2[0], 1e-3)
	require.InDelta(t, 3, out2[1], 1e-3)
}
