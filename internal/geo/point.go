// Package geo provides distance calculators, bounding boxes and point
// sequences: the low-level spatial primitives used by the shapes package.
//
// Coordinates are never validated. Latitudes outside [-90, 90] or longitudes
// outside [-180, 180] are processed arithmetically like any other value.
package geo

import (
	"fmt"
	"math"
	"strings"
)

// Point is a latitude/longitude pair in degrees (or plain plane units for
// the Euclidean calculator).
type Point struct {
	Lat float64
	Lon float64
}

// Point3D is a Point with an elevation component.
type Point3D struct {
	Lat float64
	Lon float64
	Ele float64
}

func (p Point) String() string {
	return fmt.Sprintf("%v,%v", p.Lat, p.Lon)
}

// PointSequence is an ordered, zero-indexed, read-only view of coordinates.
type PointSequence interface {
	Size() int
	Lat(i int) float64
	Lon(i int) float64
}

// PointList is a growable sequence of 2D or 3D coordinates.
type PointList struct {
	lats []float64
	lons []float64
	eles []float64
	is3D bool
}

// NewPointList creates an empty list. When is3D is false, elevations are
// reported as NaN.
func NewPointList(capacity int, is3D bool) *PointList {
	pl := &PointList{
		lats: make([]float64, 0, capacity),
		lons: make([]float64, 0, capacity),
		is3D: is3D,
	}
	if is3D {
		pl.eles = make([]float64, 0, capacity)
	}
	return pl
}

// PointListFrom builds a 2D list from points.
func PointListFrom(points ...Point) *PointList {
	pl := NewPointList(len(points), false)
	for _, p := range points {
		pl.Add(p.Lat, p.Lon)
	}
	return pl
}

// Add appends a 2D point. On a 3D list the elevation is recorded as NaN.
func (pl *PointList) Add(lat, lon float64) {
	pl.lats = append(pl.lats, lat)
	pl.lons = append(pl.lons, lon)
	if pl.is3D {
		pl.eles = append(pl.eles, math.NaN())
	}
}

// Add3D appends a point with elevation. On a 2D list the elevation is dropped.
func (pl *PointList) Add3D(lat, lon, ele float64) {
	pl.lats = append(pl.lats, lat)
	pl.lons = append(pl.lons, lon)
	if pl.is3D {
		pl.eles = append(pl.eles, ele)
	}
}

func (pl *PointList) Size() int {
	return len(pl.lats)
}

func (pl *PointList) Lat(i int) float64 {
	return pl.lats[i]
}

func (pl *PointList) Lon(i int) float64 {
	return pl.lons[i]
}

// Ele returns the elevation of the i-th point, or NaN for 2D lists.
func (pl *PointList) Ele(i int) float64 {
	if !pl.is3D {
		_ = pl.lats[i]
		return math.NaN()
	}
	return pl.eles[i]
}

func (pl *PointList) Is3D() bool {
	return pl.is3D
}

// Points returns a copy of the list as 2D points.
func (pl *PointList) Points() []Point {
	points := make([]Point, pl.Size())
	for i := range points {
		points[i] = Point{Lat: pl.lats[i], Lon: pl.lons[i]}
	}
	return points
}

// Bounds returns the tight bounding box of the list.
func (pl *PointList) Bounds() BBox {
	return CalculateBBox(pl)
}

func (pl *PointList) String() string {
	var sb strings.Builder
	for i := 0; i < pl.Size(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		fmt.Fprintf(&sb, "%v,%v", pl.lats[i], pl.lons[i])
		if pl.is3D {
			fmt.Fprintf(&sb, ",%v", pl.eles[i])
		}
		sb.WriteString(")")
	}
	return sb.String()
}
