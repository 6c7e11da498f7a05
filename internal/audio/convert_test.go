package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelToPulse_NormalAndMax(t *testing.T) {
	assert.Equal(t, uint32(pulseVolumeNormal), levelToPulse(1.0))
	assert.Equal(t, uint32(pulseVolumeMax), levelToPulse(4.0))
	assert.Equal(t, uint32(0), levelToPulse(0.0))
}

func TestLevelFromPulse_RoundTrip(t *testing.T) {
	assert.InDelta(t, 1.0, levelFromPulse(pulseVolumeNormal), 0.0001)
	assert.InDelta(t, 4.0, levelFromPulse(pulseVolumeMax), 0.0001)
}

func TestReplicateAverage_WritesSameLevelToEveryChannel(t *testing.T) {
	v := NewVolume(0.5, 1.5)
	out := replicateAverage(v, 3)
	require := levelToPulse(1.0)
	for _, u := range out {
		assert.Equal(t, require, u)
	}
	assert.Len(t, out, 3)
}

func TestVolumeFromPulse_ToPulse_RoundTrip(t *testing.T) {
	original := []uint32{pulseVolumeNormal, pulseVolumeMax, 0}
	v := volumeFromPulse(original)
	back := volumeToPulse(v)
	assert.Equal(t, original, back)
}
