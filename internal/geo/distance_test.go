package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(55.70, 37.60, 55.70, 37.60))
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := HaversineKm(55.70, 37.60, 56.00, 38.00)
	b := HaversineKm(56.00, 38.00, 55.70, 37.60)
	assert.InDelta(t, a, b, 1e-9)
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Moscow city points, roughly 42 km apart.
	d := HaversineKm(55.70, 37.60, 56.00, 38.00)
	assert.InDelta(t, 42.0, d, 1.0)
}

func TestHaversineKm_MonotonicInSeparation(t *testing.T) {
	near := HaversineKm(55.0, 37.0, 55.1, 37.0)
	mid := HaversineKm(55.0, 37.0, 55.5, 37.0)
	far := HaversineKm(55.0, 37.0, 56.0, 37.0)
	assert.Less(t, near, mid)
	assert.Less(t, mid, far)
}

func TestHaversineKm_OneDegreeOfLatitude(t *testing.T) {
	// One degree along a meridian is R*pi/180.
	assert.InDelta(t, 111.19, HaversineKm(0, 0, 1, 0), 0.01)
}

func TestRoundKm(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"rounds down", 1.234, 1.23},
		{"rounds up", 1.235001, 1.24},
		{"already two places", 42.5, 42.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundKm(tt.in), 1e-9)
		})
	}
}
