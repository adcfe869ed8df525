package geo

import (
	"errors"
	"fmt"
	"strings"
)

// DistanceCalc computes distances, projections and interpolations between
// coordinates. Implementations are stateless and safe for concurrent use.
//
// Normalized distances are a monotonic surrogate of the real distance. They
// are only meant to be compared with each other and must not be added.
type DistanceCalc interface {
	// Dist returns the distance between two points in the calculator's
	// native unit (meters for Earth).
	Dist(fromLat, fromLon, toLat, toLon float64) float64

	// Dist3D returns the distance including the elevation difference.
	Dist3D(fromLat, fromLon, fromEle, toLat, toLon, toEle float64) float64

	// NormalizedDist maps a real distance into normalized space.
	NormalizedDist(dist float64) float64

	// NormalizedDistBetween returns the normalized distance between two points.
	NormalizedDistBetween(fromLat, fromLon, toLat, toLon float64) float64

	// DenormalizedDist is the inverse of NormalizedDist.
	DenormalizedDist(normedDist float64) float64

	// CrossingPointToEdge projects r onto the infinite line through a and b.
	// The projection is not clamped to the segment. If a == b the result is a.
	CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon float64) Point

	// NormalizedEdgeDistance returns the normalized distance from r to its
	// projection on the line through a and b.
	NormalizedEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) float64

	// NormalizedEdgeDistance3D is the 3D analogue of NormalizedEdgeDistance.
	NormalizedEdgeDistance3D(rLat, rLon, rEle, aLat, aLon, aEle, bLat, bLon, bEle float64) float64

	// ValidEdgeDistance reports whether the projection of r falls strictly
	// between a and b. A projection exactly on an endpoint is not valid.
	ValidEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) bool

	// IntermediatePoint returns the point at fraction f of the way from the
	// first to the second point. f outside [0, 1] extrapolates.
	IntermediatePoint(f, lat1, lon1, lat2, lon2 float64) Point

	// CreateBBox returns a box enclosing a circle of the given radius.
	CreateBBox(lat, lon, radius float64) BBox

	// ProjectCoordinate returns the point reached after travelling distance
	// from (lat, lon) along heading, in degrees clockwise from north.
	ProjectCoordinate(lat, lon, distance, heading float64) Point

	// IsCrossBoundary reports whether a segment between the two longitudes
	// crosses the antimeridian.
	IsCrossBoundary(lon1, lon2 float64) bool
}

// ErrUnknownCalc is returned by CalcByName for unsupported names.
var ErrUnknownCalc = errors.New("unknown distance calculator")

// Process-wide calculator singletons.
var (
	Euclidean = EuclideanCalc{}
	Earth     = EarthCalc{}
)

// CalcByName resolves a calculator name (case-insensitive) to its singleton.
// The empty name selects Earth; "plane" is accepted for Euclidean.
func CalcByName(name string) (DistanceCalc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "earth":
		return Earth, nil
	case "euclidean", "plane":
		return Euclidean, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCalc, name)
	}
}

// CalcName returns the configuration name of a known calculator, or its Go
// type for anything else. Wrappers exposing Unwrap are looked through.
func CalcName(calc DistanceCalc) string {
	if w, ok := calc.(interface{ Unwrap() DistanceCalc }); ok {
		return CalcName(w.Unwrap())
	}
	switch calc.(type) {
	case EarthCalc, *EarthCalc:
		return "earth"
	case EuclideanCalc, *EuclideanCalc:
		return "euclidean"
	default:
		return fmt.Sprintf("%T", calc)
	}
}
