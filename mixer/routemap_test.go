package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audiomixer/mixer"
)

func TestRouteMap_DefaultIsIdentityDiagonal(t *testing.T) {
	t.Parallel()

	rm := mixer.NewRouteMap(2, 2)
	require.True(t, rm.Get(0, 0))
	require.True(t, rm.Get(1, 1))
	require.False(t, rm.Get(0, 1))
	require.False(t, rm.Get(1, 0))
}

func TestRouteMap_SetOverridesRouting(t *testing.T) {
	t.Parallel()

	rm := mixer.NewRouteMap(2, 2)
	rm.Set(0, 1, true)
	require.True(t, rm.Get(0, 1))
}

func TestRouteMap_SetNumChannelsRejectsOverMax(t *testing.T) {
	t.Parallel()

	rm := mixer.NewRouteMap(2, 2)
	require.False(t, rm.SetNumChannels(3))
	require.Equal(t, 2, rm.NumChannels())
}

func TestRouteMap_SetNumChannelsZeroesVacatedColumns(t *testing.T) {
	t.Parallel()

	rm := mixer.NewRouteMap(2, 2)
	require.True(t, rm.Get(1, 1))

	require.True(t, rm.SetNumChannels(1))
	require.False(t, rm.Get(1, 1))
	require.Equal(t, 1, rm.NumChannels())
}

func TestRouteMap_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	rm := mixer.NewRouteMap(2, 2)
	clone := rm.Clone()
	clone.Set(0, 1, true)

	require.False(t, rm.Get(0, 1))
	require.True(t, clone.Get(0, 1))
}
