package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audiomixer/internal/mixertest"
	"github.com/ik5/audiomixer/mixer"
)

func TestNewConstantWarp_IsNotVariableRate(t *testing.T) {
	t.Parallel()

	warp := mixer.NewConstantWarp(1)
	require.Nil(t, warp.Envelope)
}

func TestNewEnvelopeWarp_CarriesEnvelope(t *testing.T) {
	t.Parallel()

	env := mixer.NewEnvelope(1)
	warp := mixer.NewEnvelopeWarp(env, 1)
	require.Same(t, env, warp.Envelope)
}

func TestNewSpeedRangeWarp_StoresBounds(t *testing.T) {
	t.Parallel()

	warp := mixer.NewSpeedRangeWarp(0.5, 2, 1)
	require.InDelta(t, 0.5, warp.MinSpeed, 1e-9)
	require.InDelta(t, 2, warp.MaxSpeed, 1e-9)
}

func TestEngine_ConstructionWithSpeedRangeWarpUsesVariableRatesPath(t *testing.T) {
	t.Parallel()

	src := mixertest.NewRamp(44100, ramp(20))
	eng, err := mixer.NewEngine([]mixer.SampleSource{src}, mixer.Options{
		NumChannels:  1,
		BufferSize:   10,
		OutputRate:   44100,
		OutputFormat: mixer.FormatFloat32,
		T0:           0,
		T1:           20.0 / 44100,
		Warp:         mixer.NewSpeedRangeWarp(0.5, 2, 1),
	})
	require.NoError(t, err)

	n, err := eng.Process(10)
	require.NoError(t, err)
	require.Greater(t, n, 0)
}
