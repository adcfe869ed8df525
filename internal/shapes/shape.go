// Package shapes implements geometric regions on top of the geo distance
// calculators: containment and intersection against points, boxes, other
// shapes and polylines.
package shapes

import "georoute.onebusaway.org/internal/geo"

// Shape is a region that can be tested against points, boxes and polylines.
type Shape interface {
	// Contains reports whether the point lies inside the shape.
	Contains(lat, lon float64) bool
	// IntersectsBBox reports whether the shape and the box overlap.
	IntersectsBBox(b geo.BBox) bool
	// IntersectsPointList reports whether any part of the polyline touches the shape.
	IntersectsPointList(points geo.PointSequence) bool
	// Bounds returns a box enclosing the shape.
	Bounds() geo.BBox
	Center() geo.Point
	Area() float64
}

var (
	_ Shape = Circle{}
	_ Shape = geo.BBox{}
)
