package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ik5/audiomixer/mixer"
)

func TestTimeToLongSamples_RoundsHalfUp(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(0), mixer.TimeToLongSamples(0, 44100))
	require.Equal(t, int64(1), mixer.TimeToLongSamples(1.0/44100, 44100))
	require.Equal(t, int64(22050), mixer.TimeToLongSamples(0.5, 44100))
}

func TestTimeToLongSamples_NegativeTimeRoundsTowardZero(t *testing.T) {
	t.Parallel()

	require.Equal(t, int64(0), mixer.TimeToLongSamples(-1.0/(2*44100), 44100))
}

func TestSampleFormat_BytesPerSample(t *testing.T) {
	t.Parallel()

	require.Equal(t, 4, mixer.FormatFloat32.BytesPerSample())
	require.Equal(t, 2, mixer.FormatInt16.BytesPerSample())
	require.Equal(t, 3, mixer.FormatInt24.BytesPerSample())
	require.Equal(t, 4, mixer.FormatInt32.BytesPerSample())
}
