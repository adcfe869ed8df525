package shapes

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"georoute.onebusaway.org/internal/geo"
	"github.com/cespare/xxhash/v2"
)

// Circle is an immutable region given by a center and a radius in the
// calculator's distance unit (meters for geo.Earth).
//
// The calculator is shared, never owned, and does not take part in Equal or
// Hash. Comparisons run in normalized space wherever distances do not need to
// be added, so most predicates never take a square root.
type Circle struct {
	lat    float64
	lon    float64
	radius float64

	calc       geo.DistanceCalc
	normedDist float64
	bbox       geo.BBox
}

// NewCircle creates a circle measured with geo.Earth.
func NewCircle(lat, lon, radius float64) Circle {
	return NewCircleWithCalc(lat, lon, radius, geo.Earth)
}

// NewCircleWithCalc creates a circle measured with calc. A nil calc falls
// back to geo.Earth. Negative radii are accepted and contain nothing.
func NewCircleWithCalc(lat, lon, radius float64, calc geo.DistanceCalc) Circle {
	if calc == nil {
		calc = geo.Earth
	}
	return Circle{
		lat:        lat,
		lon:        lon,
		radius:     radius,
		calc:       calc,
		normedDist: calc.NormalizedDist(radius),
		bbox:       calc.CreateBBox(lat, lon, radius),
	}
}

func (c Circle) Lat() float64 {
	return c.lat
}

func (c Circle) Lon() float64 {
	return c.lon
}

func (c Circle) Radius() float64 {
	return c.radius
}

// Calc returns the distance calculator the circle was built with.
func (c Circle) Calc() geo.DistanceCalc {
	return c.calc
}

func (c Circle) Center() geo.Point {
	return geo.Point{Lat: c.lat, Lon: c.lon}
}

// Bounds returns the calculator's bounding box of the circle.
func (c Circle) Bounds() geo.BBox {
	return c.bbox
}

// Area returns πr² in squared distance units.
func (c Circle) Area() float64 {
	return math.Pi * c.radius * c.radius
}

// Contains reports whether the point lies within radius of the center.
func (c Circle) Contains(lat, lon float64) bool {
	if c.radius < 0 {
		return false
	}
	return c.normDist(lat, lon) <= c.normedDist
}

func (c Circle) normDist(lat, lon float64) float64 {
	return c.calc.NormalizedDistBetween(c.lat, c.lon, lat, lon)
}

// ContainsBBox reports whether every corner of b is inside the circle.
func (c Circle) ContainsBBox(b geo.BBox) bool {
	for _, corner := range b.Corners() {
		if !c.Contains(corner.Lat, corner.Lon) {
			return false
		}
	}
	return true
}

// ContainsCircle reports whether o lies fully inside c. Real distances are
// used because the radii have to be added.
func (c Circle) ContainsCircle(o Circle) bool {
	if c.radius < 0 || o.radius < 0 {
		return false
	}
	return c.calc.Dist(c.lat, c.lon, o.lat, o.lon)+o.radius <= c.radius
}

// IntersectsBBox clamps the center into the box and tests whether that
// closest point is within the radius.
func (c Circle) IntersectsBBox(b geo.BBox) bool {
	if c.radius < 0 {
		return false
	}
	closestLat := clamp(c.lat, b.MinLat, b.MaxLat)
	closestLon := clamp(c.lon, b.MinLon, b.MaxLon)
	return c.normDist(closestLat, closestLon) <= c.normedDist
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// IntersectsCircle reports whether the two circles overlap or touch.
func (c Circle) IntersectsCircle(o Circle) bool {
	if c.radius < 0 || o.radius < 0 {
		return false
	}
	return c.calc.Dist(c.lat, c.lon, o.lat, o.lon) <= c.radius+o.radius
}

// IntersectsPointList reports whether any point of the polyline is inside the
// circle or any edge passes within the radius. Every point is read once and
// tested directly; an edge is only projected when both of its endpoints are
// outside and the orthogonal foot of the center falls strictly between them.
// An empty sequence never intersects.
func (c Circle) IntersectsPointList(points geo.PointSequence) bool {
	n := points.Size()
	if n == 0 || c.radius < 0 {
		return false
	}

	prevLat, prevLon := points.Lat(0), points.Lon(0)
	if c.normDist(prevLat, prevLon) <= c.normedDist {
		return true
	}

	prefilter := c.canPrefilter()
	for i := 1; i < n; i++ {
		lat, lon := points.Lat(i), points.Lon(i)
		if c.normDist(lat, lon) <= c.normedDist {
			return true
		}

		if !prefilter || c.edgeMayIntersect(prevLat, prevLon, lat, lon) {
			if c.calc.ValidEdgeDistance(c.lat, c.lon, prevLat, prevLon, lat, lon) &&
				c.calc.NormalizedEdgeDistance(c.lat, c.lon, prevLat, prevLon, lat, lon) <= c.normedDist {
				return true
			}
		}
		prevLat, prevLon = lat, lon
	}
	return false
}

// canPrefilter is false when the bounding box wraps past the antimeridian,
// where a plain min/max comparison could reject a real intersection.
func (c Circle) canPrefilter() bool {
	return c.bbox.IsValid() && c.bbox.MinLon >= -180 && c.bbox.MaxLon <= 180
}

func (c Circle) edgeMayIntersect(lat1, lon1, lat2, lon2 float64) bool {
	if c.calc.IsCrossBoundary(lon1, lon2) {
		return true
	}
	edge := geo.NewBBox(math.Min(lon1, lon2), math.Max(lon1, lon2), math.Min(lat1, lat2), math.Max(lat1, lat2))
	return c.bbox.IntersectsBBox(edge)
}

// Equal compares center and radius only.
func (c Circle) Equal(o Circle) bool {
	return c.lat == o.lat && c.lon == o.lon && c.radius == o.radius
}

// Hash is consistent with Equal.
func (c Circle) Hash() uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], hashBits(c.lat))
	binary.LittleEndian.PutUint64(buf[8:], hashBits(c.lon))
	binary.LittleEndian.PutUint64(buf[16:], hashBits(c.radius))
	return xxhash.Sum64(buf[:])
}

// hashBits maps -0 to +0 so that values equal under == hash alike.
func hashBits(v float64) uint64 {
	if v == 0 {
		v = 0
	}
	return math.Float64bits(v)
}

func (c Circle) String() string {
	return "Circle{" + formatDecimal(c.lat) + "," + formatDecimal(c.lon) + " radius:" + formatDecimal(c.radius) + "}"
}

// formatDecimal prints the shortest exact representation and keeps a
// trailing ".0" on integral values, e.g. 1500.0.
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
