package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarth_Dist(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		expected  float64
		tolerance float64
	}{
		{
			name:      "Same point (zero distance)",
			lat1:      40.7128,
			lon1:      -74.0060,
			lat2:      40.7128,
			lon2:      -74.0060,
			expected:  0,
			tolerance: 0.001,
		},
		{
			name:      "New York to Los Angeles",
			lat1:      40.7128,
			lon1:      -74.0060,
			lat2:      34.0522,
			lon2:      -118.2437,
			expected:  3935746,
			tolerance: 1000,
		},
		{
			name:      "London to Paris",
			lat1:      51.5074,
			lon1:      -0.1278,
			lat2:      48.8566,
			lon2:      2.3522,
			expected:  343556,
			tolerance: 1000,
		},
		{
			name:      "One degree of latitude",
			lat1:      10,
			lon1:      10,
			lat2:      9,
			lon2:      10,
			expected:  MetersPerDegree,
			tolerance: 0.01,
		},
		{
			name:      "Crossing International Date Line",
			lat1:      35.6762,
			lon1:      139.6503,
			lat2:      37.7749,
			lon2:      -122.4194,
			expected:  8280207,
			tolerance: 10000,
		},
		{
			name:      "North Pole to Equator",
			lat1:      90,
			lon1:      0,
			lat2:      0,
			lon2:      0,
			expected:  EarthCircumference / 4,
			tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Earth.Dist(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, result, tt.tolerance,
				"Distance should be approximately %f meters (±%f), got %f",
				tt.expected, tt.tolerance, result)
		})
	}
}

func TestEarth_Symmetry(t *testing.T) {
	distAB := Earth.Dist(40.7128, -74.0060, 34.0522, -118.2437)
	distBA := Earth.Dist(34.0522, -118.2437, 40.7128, -74.0060)
	assert.InDelta(t, distAB, distBA, 0.0001, "Distance should be symmetric")
}

func TestEarth_NormalizationRoundTrip(t *testing.T) {
	for _, d := range []float64{0, 1, 120000, 1e6, 1e7} {
		assert.InDelta(t, d, Earth.DenormalizedDist(Earth.NormalizedDist(d)), 1e-6)
	}

	// normalized distances must order like real ones
	near := Earth.NormalizedDistBetween(50, 10, 50.1, 10.1)
	far := Earth.NormalizedDistBetween(50, 10, 51, 11)
	assert.Less(t, near, far)
	assert.InDelta(t, Earth.Dist(50, 10, 51, 11), Earth.DenormalizedDist(far), 1e-6)
}

func TestEarth_Dist3D(t *testing.T) {
	assert.InDelta(t, 10.0, Earth.Dist3D(0, 0, 0, 0, 0, 10), 1e-9)

	flat := Earth.Dist(0, 0, 0, 0.001)
	assert.InDelta(t, math.Sqrt(flat*flat+100*100), Earth.Dist3D(0, 0, 0, 0, 0.001, 100), 1e-6)

	t.Run("missing elevation ignored", func(t *testing.T) {
		assert.InDelta(t, flat, Earth.Dist3D(0, 0, math.NaN(), 0, 0.001, 100), 1e-9)
	})
}

func TestEarth_EdgeDistance(t *testing.T) {
	// point 0.3 degrees east of a meridian segment crossing the equator
	d := Earth.NormalizedEdgeDistance(1.5, 0.3, 5, 0, -5, 0)
	assert.InDelta(t, Earth.Dist(1.5, 0, 1.5, 0.3), Earth.DenormalizedDist(d), 1e-6)
	assert.True(t, Earth.ValidEdgeDistance(1.5, 0.3, 5, 0, -5, 0))

	t.Run("projection onto a parallel", func(t *testing.T) {
		p := Earth.CrossingPointToEdge(1.6, 0.3, 1.5, -2, 1.5, 2)
		assert.Equal(t, Point{Lat: 1.5, Lon: 0.3}, p)
	})

	t.Run("degenerate edge uses the start point", func(t *testing.T) {
		p := Earth.CrossingPointToEdge(1, 1, 2, 2, 2, 2)
		assert.Equal(t, Point{Lat: 2, Lon: 2}, p)
		assert.InDelta(t, Earth.NormalizedDistBetween(1, 1, 2, 2), Earth.NormalizedEdgeDistance(1, 1, 2, 2, 2, 2), 1e-15)
		assert.False(t, Earth.ValidEdgeDistance(1, 1, 2, 2, 2, 2))
	})

	t.Run("projection on an endpoint is not valid", func(t *testing.T) {
		assert.False(t, Earth.ValidEdgeDistance(5, 1, 5, 0, -5, 0))
		assert.False(t, Earth.ValidEdgeDistance(6, 0, 5, 0, -5, 0))
	})

	t.Run("diagonal edge", func(t *testing.T) {
		p := Earth.CrossingPointToEdge(0.001, 0, 0, 0, 0.002, 0.002)
		assert.InDelta(t, 0.0005, p.Lat, 1e-6)
		assert.InDelta(t, 0.0005, p.Lon, 1e-6)
	})
}

func TestEarth_EdgeDistance3D(t *testing.T) {
	d := Earth.NormalizedEdgeDistance3D(0, 0, 100, 0, 0, 0, 0, 0, 0)
	assert.InDelta(t, 100.0, Earth.DenormalizedDist(d), 1e-6)

	flat := Earth.NormalizedEdgeDistance(1.5, 0.3, 5, 0, -5, 0)
	assert.Equal(t, flat, Earth.NormalizedEdgeDistance3D(1.5, 0.3, math.NaN(), 5, 0, 0, -5, 0, 0))
}

func TestEarth_IntermediatePoint(t *testing.T) {
	start := Earth.IntermediatePoint(0, 2, 3, 8, 9)
	assert.Equal(t, Point{Lat: 2, Lon: 3}, start)

	end := Earth.IntermediatePoint(1, 2, 3, 8, 9)
	assert.Equal(t, Point{Lat: 8, Lon: 9}, end)

	mid := Earth.IntermediatePoint(0.5, 0, 0, 0, 10)
	assert.InDelta(t, 0.0, mid.Lat, 1e-9)
	assert.InDelta(t, 5.0, mid.Lon, 1e-9)

	same := Earth.IntermediatePoint(0.3, 4, 4, 4, 4)
	assert.Equal(t, Point{Lat: 4, Lon: 4}, same)
}

func TestEarth_CreateBBox(t *testing.T) {
	b := Earth.CreateBBox(50, 10, 1000)
	require.True(t, b.IsValid())
	assert.True(t, b.Contains(50, 10), "Bounding box must have a center")

	// every point on the circle must be inside the box
	for heading := 3.75; heading < 360; heading += 7.5 {
		p := Earth.ProjectCoordinate(50, 10, 1000, heading)
		assert.True(t, b.Contains(p.Lat, p.Lon), "heading %v -> %v outside %v", heading, p, b)
	}

	t.Run("latitude span matches the radius", func(t *testing.T) {
		b := Earth.CreateBBox(0, 0, MetersPerDegree)
		assert.InDelta(t, -1.0, b.MinLat, 1e-9)
		assert.InDelta(t, 1.0, b.MaxLat, 1e-9)
	})

	t.Run("cap over the pole spans all longitudes", func(t *testing.T) {
		b := Earth.CreateBBox(89.5, 10, 100000)
		assert.Equal(t, -180.0, b.MinLon)
		assert.Equal(t, 180.0, b.MaxLon)
		assert.Equal(t, 90.0, b.MaxLat)
	})

	t.Run("zero radius is the center", func(t *testing.T) {
		b := Earth.CreateBBox(50, 10, 0)
		assert.Equal(t, NewBBox(10, 10, 50, 50), b)
	})
}

func TestEarth_ProjectCoordinate(t *testing.T) {
	p := Earth.ProjectCoordinate(0, 0, MetersPerDegree, 0)
	assert.InDelta(t, 1.0, p.Lat, 1e-9)
	assert.InDelta(t, 0.0, p.Lon, 1e-9)

	p = Earth.ProjectCoordinate(0, 179.5, MetersPerDegree, 90)
	assert.InDelta(t, -179.5, p.Lon, 1e-9)

	assert.InDelta(t, 5000.0, Earth.Dist(47.6, -122.3, Earth.ProjectCoordinate(47.6, -122.3, 5000, 33).Lat,
		Earth.ProjectCoordinate(47.6, -122.3, 5000, 33).Lon), 0.01)
}

func TestEarth_IsCrossBoundary(t *testing.T) {
	assert.True(t, Earth.IsCrossBoundary(179.9, -179.9))
	assert.False(t, Earth.IsCrossBoundary(10, 20))
}

func TestCalcByName(t *testing.T) {
	tests := []struct {
		name     string
		expected DistanceCalc
	}{
		{"earth", Earth},
		{"", Earth},
		{"EARTH", Earth},
		{"euclidean", Euclidean},
		{" plane ", Euclidean},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc, err := CalcByName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, calc)
		})
	}

	_, err := CalcByName("geodesic")
	assert.ErrorIs(t, err, ErrUnknownCalc)

	assert.Equal(t, "earth", CalcName(Earth))
	assert.Equal(t, "euclidean", CalcName(Euclidean))
}
