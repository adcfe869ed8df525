package shapes

import (
	"fmt"
	"sync"
	"testing"

	"georoute.onebusaway.org/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(points ...geo.Point) *geo.PointList {
	return geo.PointListFrom(points...)
}

func TestIndex_Query(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", line(geo.Point{Lat: 0, Lon: 0}, geo.Point{Lat: 0, Lon: 1}))
	idx.Insert("b", line(geo.Point{Lat: 5, Lon: 5}, geo.Point{Lat: 6, Lon: 6}))
	idx.Insert("c", line(geo.Point{Lat: 0.5, Lon: -1}, geo.Point{Lat: 0.5, Lon: 2}))
	require.Equal(t, 3, idx.Len())

	circle := NewCircleWithCalc(0.2, 0.5, 0.4, geo.Euclidean)
	assert.Equal(t, []string{"a", "c"}, idx.Query(circle))

	assert.Equal(t, []string{"b"}, idx.Query(geo.NewBBox(4, 7, 4, 7)))
	assert.Empty(t, idx.Query(geo.NewBBox(20, 30, 20, 30)))
}

func TestIndex_QueryConfirmsCandidates(t *testing.T) {
	idx := NewIndex()
	// the box overlaps the circle's box but the line stays outside the circle
	idx.Insert("f", line(geo.Point{Lat: 0.9, Lon: 0.9}, geo.Point{Lat: 0.9, Lon: 3}))

	circle := NewCircleWithCalc(0, 0, 1, geo.Euclidean)
	require.True(t, circle.Bounds().IntersectsBBox(geo.NewBBox(0.9, 3, 0.9, 0.9)))
	assert.Empty(t, idx.Query(circle))
}

func TestIndex_InsertAndRemove(t *testing.T) {
	idx := NewIndex()
	idx.Insert("a", line(geo.Point{Lat: 0, Lon: 0}, geo.Point{Lat: 0, Lon: 1}))

	t.Run("empty polylines are ignored", func(t *testing.T) {
		idx.Insert("empty", geo.NewPointList(0, false))
		assert.Equal(t, 1, idx.Len())
		_, ok := idx.Get("empty")
		assert.False(t, ok)
	})

	t.Run("insert replaces an existing id", func(t *testing.T) {
		idx.Insert("a", line(geo.Point{Lat: 10, Lon: 10}, geo.Point{Lat: 10, Lon: 11}))
		assert.Equal(t, 1, idx.Len())
		assert.Empty(t, idx.Query(geo.NewBBox(-1, 2, -1, 1)))
		assert.Equal(t, []string{"a"}, idx.Query(geo.NewBBox(9, 12, 9, 11)))
	})

	t.Run("remove", func(t *testing.T) {
		assert.True(t, idx.Remove("a"))
		assert.False(t, idx.Remove("a"))
		assert.Equal(t, 0, idx.Len())
		assert.Empty(t, idx.Query(geo.NewBBox(9, 12, 9, 11)))
	})
}

func TestIndex_QueryPoint(t *testing.T) {
	idx := NewIndex()
	idx.Insert("seattle", line(geo.Point{Lat: 47.6, Lon: -122.35}, geo.Point{Lat: 47.6, Lon: -122.30}))
	idx.Insert("dateline", line(geo.Point{Lat: -1, Lon: -179.99}, geo.Point{Lat: 1, Lon: -179.99}))

	// about 111m north of the line
	assert.Equal(t, []string{"seattle"}, idx.QueryPoint(47.601, -122.32, 200))
	assert.Empty(t, idx.QueryPoint(47.601, -122.32, 50))

	// the circle's box wraps past 180 and the line sits on the other side
	assert.Equal(t, []string{"dateline"}, idx.QueryPoint(0, 179.99, 5000))
}

func TestIndex_Concurrent(t *testing.T) {
	idx := NewIndex()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lat := float64(i)
			idx.Insert(fmt.Sprintf("line-%d", i), line(geo.Point{Lat: lat, Lon: 0}, geo.Point{Lat: lat, Lon: 1}))
			idx.QueryPoint(lat, 0.5, 1000)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, idx.Len())
	assert.Equal(t, []string{"line-3"}, idx.QueryPoint(3, 0.5, 1000))
}
