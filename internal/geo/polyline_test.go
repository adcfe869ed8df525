package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reference polyline from the Google encoding documentation
const googleExample = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func TestEncodePolyline(t *testing.T) {
	pl := PointListFrom(
		Point{Lat: 38.5, Lon: -120.2},
		Point{Lat: 40.7, Lon: -120.95},
		Point{Lat: 43.252, Lon: -126.453},
	)
	assert.Equal(t, googleExample, EncodePolyline(pl))
}

func TestDecodePolyline(t *testing.T) {
	pl, err := DecodePolyline(googleExample)
	require.NoError(t, err)
	require.Equal(t, 3, pl.Size())

	assert.InDelta(t, 38.5, pl.Lat(0), 1e-5)
	assert.InDelta(t, -120.2, pl.Lon(0), 1e-5)
	assert.InDelta(t, 43.252, pl.Lat(2), 1e-5)
	assert.InDelta(t, -126.453, pl.Lon(2), 1e-5)
	assert.False(t, pl.Is3D())

	t.Run("empty input", func(t *testing.T) {
		_, err := DecodePolyline("")
		assert.ErrorIs(t, err, ErrEmptyPolyline)
	})

	t.Run("round trip", func(t *testing.T) {
		again, err := DecodePolyline(EncodePolyline(pl))
		require.NoError(t, err)
		assert.Equal(t, pl.Points(), again.Points())
	})
}

func TestPointList(t *testing.T) {
	pl := NewPointList(2, true)
	pl.Add3D(1, 2, 3)
	pl.Add(4, 5)

	assert.Equal(t, 2, pl.Size())
	assert.True(t, pl.Is3D())
	assert.Equal(t, 3.0, pl.Ele(0))
	assert.True(t, math.IsNaN(pl.Ele(1)))
	assert.Equal(t, []Point{{1, 2}, {4, 5}}, pl.Points())
	assert.Equal(t, "(1,2,3), (4,5,NaN)", pl.String())

	flat := NewPointList(1, false)
	flat.Add3D(1, 2, 3)
	assert.True(t, math.IsNaN(flat.Ele(0)))
	assert.Equal(t, "(1,2)", flat.String())
}
