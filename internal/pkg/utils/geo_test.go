package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"belo horizonte", -19.92, -43.93, true},
		{"bounds inclusive", 90, -180, true},
		{"latitude out of range", 90.01, 0, false},
		{"longitude out of range", 0, 180.5, false},
		{"nan", math.NaN(), 0, false},
		{"inf", 0, math.Inf(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestFormatCoordinates(t *testing.T) {
	assert.Equal(t, "-19.9, -43.9", FormatCoordinates(-19.9, -43.9))
	assert.Equal(t, "0, 12.5", FormatCoordinates(0, 12.5))
}

func TestHaversineDistance(t *testing.T) {
	// Praça Sete to Praça da Liberdade, Belo Horizonte: ~1.4 km
	d := HaversineDistance(-19.9191, -43.9386, -19.9320, -43.9380)
	assert.InDelta(t, 1.43, d, 0.05)
	assert.Zero(t, HaversineDistance(1, 1, 1, 1))
}

