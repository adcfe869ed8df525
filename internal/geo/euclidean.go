package geo

import "math"

// EuclideanCalc treats coordinates as flat-plane values. Distances are in the
// same unit as the inputs and the normalized distance is the squared distance.
type EuclideanCalc struct{}

var _ DistanceCalc = EuclideanCalc{}

func (EuclideanCalc) Dist(fromLat, fromLon, toLat, toLon float64) float64 {
	return math.Sqrt(Euclidean.NormalizedDistBetween(fromLat, fromLon, toLat, toLon))
}

func (EuclideanCalc) Dist3D(fromLat, fromLon, fromEle, toLat, toLon, toEle float64) float64 {
	dLat := toLat - fromLat
	dLon := toLon - fromLon
	dEle := toEle - fromEle
	return math.Sqrt(dLat*dLat + dLon*dLon + dEle*dEle)
}

func (EuclideanCalc) NormalizedDist(dist float64) float64 {
	return dist * dist
}

func (EuclideanCalc) NormalizedDistBetween(fromLat, fromLon, toLat, toLon float64) float64 {
	dLat := toLat - fromLat
	dLon := toLon - fromLon
	return dLat*dLat + dLon*dLon
}

func (EuclideanCalc) DenormalizedDist(normedDist float64) float64 {
	return math.Sqrt(normedDist)
}

// projectionFactor returns t such that a + t*(b-a) is the orthogonal foot of r.
// A zero-length segment yields 0.
func (EuclideanCalc) projectionFactor(rLat, rLon, aLat, aLon, bLat, bLon float64) float64 {
	abLat := bLat - aLat
	abLon := bLon - aLon
	norm := abLat*abLat + abLon*abLon
	if norm == 0 {
		return 0
	}
	return ((rLat-aLat)*abLat + (rLon-aLon)*abLon) / norm
}

func (c EuclideanCalc) CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon float64) Point {
	t := c.projectionFactor(rLat, rLon, aLat, aLon, bLat, bLon)
	return Point{
		Lat: aLat + t*(bLat-aLat),
		Lon: aLon + t*(bLon-aLon),
	}
}

func (c EuclideanCalc) NormalizedEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) float64 {
	p := c.CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon)
	return c.NormalizedDistBetween(rLat, rLon, p.Lat, p.Lon)
}

func (EuclideanCalc) NormalizedEdgeDistance3D(rLat, rLon, rEle, aLat, aLon, aEle, bLat, bLon, bEle float64) float64 {
	abLat := bLat - aLat
	abLon := bLon - aLon
	abEle := bEle - aEle
	norm := abLat*abLat + abLon*abLon + abEle*abEle

	var t float64
	if norm != 0 {
		t = ((rLat-aLat)*abLat + (rLon-aLon)*abLon + (rEle-aEle)*abEle) / norm
	}

	dLat := aLat + t*abLat - rLat
	dLon := aLon + t*abLon - rLon
	dEle := aEle + t*abEle - rEle
	return dLat*dLat + dLon*dLon + dEle*dEle
}

func (EuclideanCalc) ValidEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) bool {
	abLat := bLat - aLat
	abLon := bLon - aLon

	// both dot products must be positive, i.e. 0 < t < 1
	arDot := (rLat-aLat)*abLat + (rLon-aLon)*abLon
	rbDot := (bLat-rLat)*abLat + (bLon-rLon)*abLon
	return arDot > 0 && rbDot > 0
}

func (EuclideanCalc) IntermediatePoint(f, lat1, lon1, lat2, lon2 float64) Point {
	return Point{
		Lat: lerp(f, lat1, lat2),
		Lon: lerp(f, lon1, lon2),
	}
}

// lerp is written so that f == 0 and f == 1 return the endpoints exactly.
func lerp(f, from, to float64) float64 {
	return (1-f)*from + f*to
}

func (EuclideanCalc) CreateBBox(lat, lon, radius float64) BBox {
	return NewBBox(lon-radius, lon+radius, lat-radius, lat+radius)
}

func (EuclideanCalc) ProjectCoordinate(lat, lon, distance, heading float64) Point {
	rad := toRadians(heading)
	return Point{
		Lat: lat + distance*math.Cos(rad),
		Lon: lon + distance*math.Sin(rad),
	}
}

// IsCrossBoundary is always false: the plane has no antimeridian.
func (EuclideanCalc) IsCrossBoundary(lon1, lon2 float64) bool {
	return false
}
