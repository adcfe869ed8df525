package feed

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/shapes"
	"github.com/OneBusAway/go-gtfs"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedFiles = map[string]string{
	"agency.txt": "agency_id,agency_name,agency_url,agency_timezone\n" +
		"ag,Test Transit,https://example.com,America/Los_Angeles\n",
	"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
		"s1,First,47.600,-122.330\n" +
		"s2,Second,47.610,-122.320\n",
	"routes.txt": "route_id,agency_id,route_short_name,route_long_name,route_type\n" +
		"r1,ag,1,Downtown,3\n",
	"calendar.txt": "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
		"wk,1,1,1,1,1,0,0,20240101,20341231\n",
	"trips.txt": "route_id,service_id,trip_id,shape_id\n" +
		"r1,wk,t1,shp1\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"t1,08:00:00,08:00:00,s1,1\n" +
		"t1,08:10:00,08:10:00,s2,2\n",
	"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
		"shp1,47.600,-122.330,1\n" +
		"shp1,47.605,-122.325,2\n" +
		"shp1,47.610,-122.320,3\n",
}

func buildFeedZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range feedFiles {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestLoadStatic(t *testing.T) {
	dir := t.TempDir()
	raw := buildFeedZip(t)

	zipPath := filepath.Join(dir, "gtfs.zip")
	require.NoError(t, os.WriteFile(zipPath, raw, 0644))

	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	gzPath := filepath.Join(dir, "gtfs.zip.gz")
	require.NoError(t, os.WriteFile(gzPath, gz.Bytes(), 0644))

	for _, path := range []string{zipPath, gzPath} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			static, err := LoadStatic(path)
			require.NoError(t, err)
			require.Len(t, static.Shapes, 1)
			assert.Equal(t, "shp1", static.Shapes[0].ID)
			assert.Len(t, static.Shapes[0].Points, 3)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadStatic(filepath.Join(dir, "nope.zip"))
		assert.ErrorContains(t, err, "error reading local GTFS file")
	})

	t.Run("not a gzip stream", func(t *testing.T) {
		bogus := filepath.Join(dir, "bogus.gz")
		require.NoError(t, os.WriteFile(bogus, []byte("plain text"), 0644))
		_, err := LoadStatic(bogus)
		assert.ErrorContains(t, err, "gzip")
	})
}

func testShapes() []gtfs.Shape {
	return []gtfs.Shape{
		{ID: "a", Points: []gtfs.ShapePoint{{Latitude: 47.6, Longitude: -122.35}, {Latitude: 47.6, Longitude: -122.30}}},
		{ID: "b", Points: []gtfs.ShapePoint{{Latitude: 47.7, Longitude: -122.40}, {Latitude: 47.5, Longitude: -122.20}}},
		{ID: "empty"},
	}
}

func TestShapesToPointLists(t *testing.T) {
	lists := ShapesToPointLists(testShapes())
	require.Len(t, lists, 2)
	assert.Equal(t, []geo.Point{{Lat: 47.6, Lon: -122.35}, {Lat: 47.6, Lon: -122.30}}, lists["a"].Points())
	assert.NotContains(t, lists, "empty")
}

func TestComputeRegionBounds(t *testing.T) {
	bounds := ComputeRegionBounds(testShapes())
	require.NotNil(t, bounds)
	assert.Equal(t, geo.NewBBox(-122.40, -122.20, 47.5, 47.7), *bounds)

	assert.Nil(t, ComputeRegionBounds(nil))
	assert.Nil(t, ComputeRegionBounds([]gtfs.Shape{{ID: "empty"}}))
}

func TestIndexShapes(t *testing.T) {
	idx := shapes.NewIndex()
	n := IndexShapes(idx, &gtfs.Static{Shapes: testShapes()})
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, idx.Len())

	// about 111m north of shape a, far from the diagonal b
	assert.Equal(t, []string{"a"}, idx.QueryPoint(47.601, -122.34, 200))

	assert.Equal(t, 0, IndexShapes(idx, nil))
}

func TestDistanceAlongShape(t *testing.T) {
	pl := geo.PointListFrom(
		geo.Point{Lat: 0, Lon: 0},
		geo.Point{Lat: 0, Lon: 10},
		geo.Point{Lat: 10, Lon: 10},
	)

	tests := []struct {
		name     string
		lat, lon float64
		expected float64
	}{
		{"beside the first segment", 1, 5, 5},
		{"beside the second segment", 5, 11, 15},
		{"before the start", 0, -3, 0},
		{"past the end", 12, 10, 20},
		{"on a vertex", 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DistanceAlongShape(geo.Euclidean, tt.lat, tt.lon, pl), 1e-9)
		})
	}

	assert.Equal(t, 0.0, DistanceAlongShape(geo.Euclidean, 1, 1, geo.PointListFrom(geo.Point{Lat: 1, Lon: 1})))

	t.Run("earth", func(t *testing.T) {
		line := geo.PointListFrom(geo.Point{Lat: 47.6, Lon: -122.35}, geo.Point{Lat: 47.6, Lon: -122.30})
		half := geo.Earth.Dist(47.6, -122.35, 47.6, -122.325)
		assert.InDelta(t, half, DistanceAlongShape(geo.Earth, 47.601, -122.325, line), 1)
	})
}
