package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		delta                  float64
	}{
		{
			name: "same point",
			lat1: -34.6037, lon1: -58.3816,
			lat2: -34.6037, lon2: -58.3816,
			wantKm: 0, delta: 0.001,
		},
		{
			name: "obelisco to la plata",
			lat1: -34.6037, lon1: -58.3816,
			lat2: -34.9215, lon2: -57.9545,
			wantKm: 52.5, delta: 1.5,
		},
		{
			name: "buenos aires to cordoba",
			lat1: -34.6037, lon1: -58.3816,
			lat2: -31.4201, lon2: -64.1888,
			wantKm: 646, delta: 10,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lon1: 0,
			lat2: 1, lon2: 0,
			wantKm: 111.19, delta: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.delta)
		})
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	forth := DistanceKm(-34.6037, -58.3816, -31.4201, -64.1888)
	back := DistanceKm(-31.4201, -64.1888, -34.6037, -58.3816)
	assert.InDelta(t, forth, back, 1e-9)
}
