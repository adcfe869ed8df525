package geo

import (
	"fmt"
	"math"
)

// BBox is an axis-aligned rectangle in latitude/longitude space.
type BBox struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

// NewBBox creates a bounding box from its longitude and latitude ranges.
func NewBBox(minLon, maxLon, minLat, maxLat float64) BBox {
	return BBox{
		MinLon: minLon,
		MaxLon: maxLon,
		MinLat: minLat,
		MaxLat: maxLat,
	}
}

// NewInverseBBox returns a box that contains nothing and grows to the exact
// bounds of whatever is added to it with Update.
func NewInverseBBox() BBox {
	return BBox{
		MinLon: math.MaxFloat64,
		MaxLon: -math.MaxFloat64,
		MinLat: math.MaxFloat64,
		MaxLat: -math.MaxFloat64,
	}
}

// CalculateBBox returns the tight bounding box of all points in the sequence.
// An empty sequence yields an inverse (invalid) box.
func CalculateBBox(points PointSequence) BBox {
	b := NewInverseBBox()
	for i := 0; i < points.Size(); i++ {
		b.Update(points.Lat(i), points.Lon(i))
	}
	return b
}

// Update grows the box so it includes the given point.
func (b *BBox) Update(lat, lon float64) {
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
}

// IsValid reports whether the box spans a non-negative range on both axes.
func (b BBox) IsValid() bool {
	return b.MinLat <= b.MaxLat && b.MinLon <= b.MaxLon
}

// Contains reports whether the point lies inside or on the border of the box.
func (b BBox) Contains(lat, lon float64) bool {
	return lat <= b.MaxLat && lat >= b.MinLat && lon <= b.MaxLon && lon >= b.MinLon
}

// ContainsBBox reports whether o lies completely inside b.
func (b BBox) ContainsBBox(o BBox) bool {
	return b.MaxLat >= o.MaxLat && b.MinLat <= o.MinLat && b.MaxLon >= o.MaxLon && b.MinLon <= o.MinLon
}

// IntersectsBBox returns true unless the two boxes have no overlap at all.
// Touching borders count as an intersection.
func (b BBox) IntersectsBBox(o BBox) bool {
	return !(o.MaxLat < b.MinLat ||
		o.MinLat > b.MaxLat ||
		o.MaxLon < b.MinLon ||
		o.MinLon > b.MaxLon)
}

// IntersectsPointList reports whether any point or any segment between
// consecutive points of the polyline touches the box.
func (b BBox) IntersectsPointList(points PointSequence) bool {
	n := points.Size()
	if n == 0 {
		return false
	}

	prevLat, prevLon := points.Lat(0), points.Lon(0)
	if b.Contains(prevLat, prevLon) {
		return true
	}

	for i := 1; i < n; i++ {
		lat, lon := points.Lat(i), points.Lon(i)
		if b.Contains(lat, lon) || b.clipsSegment(prevLat, prevLon, lat, lon) {
			return true
		}
		prevLat, prevLon = lat, lon
	}
	return false
}

// clipsSegment is a Liang-Barsky clip of the segment against the box.
func (b BBox) clipsSegment(lat1, lon1, lat2, lon2 float64) bool {
	dLon := lon2 - lon1
	dLat := lat2 - lat1
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dLon, lon1 - b.MinLon},
		{dLon, b.MaxLon - lon1},
		{-dLat, lat1 - b.MinLat},
		{dLat, b.MaxLat - lat1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return t0 <= t1
}

// Bounds returns the box itself.
func (b BBox) Bounds() BBox {
	return b
}

// Center returns the midpoint of the box.
func (b BBox) Center() Point {
	return Point{Lat: (b.MinLat + b.MaxLat) / 2, Lon: (b.MinLon + b.MaxLon) / 2}
}

// Area returns the area of the box in square degrees.
func (b BBox) Area() float64 {
	return (b.MaxLat - b.MinLat) * (b.MaxLon - b.MinLon)
}

// Corners returns the four corners: south-west, south-east, north-west, north-east.
func (b BBox) Corners() [4]Point {
	return [4]Point{
		{Lat: b.MinLat, Lon: b.MinLon},
		{Lat: b.MinLat, Lon: b.MaxLon},
		{Lat: b.MaxLat, Lon: b.MinLon},
		{Lat: b.MaxLat, Lon: b.MaxLon},
	}
}

func (b BBox) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.MinLon, b.MaxLon, b.MinLat, b.MaxLat)
}
