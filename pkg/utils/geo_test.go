package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Ben Thanh Market to Notre-Dame Cathedral, Saigon: roughly 1 km.
	d := HaversineKm(10.7725, 106.6980, 10.7798, 106.6990)
	assert.InDelta(t, 0.82, d, 0.1)

	assert.Zero(t, HaversineKm(10.7725, 106.6980, 10.7725, 106.6980))

	// Hanoi to Ho Chi Minh City: ~1140 km.
	d = HaversineKm(21.0285, 105.8542, 10.7769, 106.7009)
	assert.InDelta(t, 1140, d, 30)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(10.77, 106.70))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(91, 0))
	assert.False(t, ValidCoordinates(0, -181))
	assert.False(t, ValidCoordinates(math.NaN(), 0))
	assert.False(t, ValidCoordinates(0, math.Inf(1)))
}
