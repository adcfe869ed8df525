package geo

import "math"

const (
	// EarthRadius is the mean earth radius in meters.
	EarthRadius = 6371000.0
	// EarthCircumference is the circumference of a great circle in meters.
	EarthCircumference = 2 * math.Pi * EarthRadius
	// MetersPerDegree is the length of one degree of latitude.
	MetersPerDegree = EarthCircumference / 360.0
)

// EarthCalc approximates the earth as a sphere. Distances are in meters and
// the normalized distance is the haversine term sin²(Δφ/2)+cosφ1·cosφ2·sin²(Δλ/2).
//
// Edge projections are done in a locally flattened plane where longitudes are
// scaled by the cosine of the mean latitude of the edge. This is accurate for
// edges up to a few hundred kilometers, which covers road and transit geometry.
type EarthCalc struct{}

var _ DistanceCalc = EarthCalc{}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func (c EarthCalc) Dist(fromLat, fromLon, toLat, toLon float64) float64 {
	return c.DenormalizedDist(c.NormalizedDistBetween(fromLat, fromLon, toLat, toLon))
}

// Dist3D combines the surface distance with the elevation difference in
// meters. A NaN elevation on either side is treated as no difference.
func (c EarthCalc) Dist3D(fromLat, fromLon, fromEle, toLat, toLon, toEle float64) float64 {
	var eleDelta float64
	if !math.IsNaN(fromEle) && !math.IsNaN(toEle) {
		eleDelta = toEle - fromEle
	}
	length := c.Dist(fromLat, fromLon, toLat, toLon)
	return math.Sqrt(eleDelta*eleDelta + length*length)
}

func (EarthCalc) NormalizedDist(dist float64) float64 {
	tmp := math.Sin(dist / 2 / EarthRadius)
	return tmp * tmp
}

func (EarthCalc) NormalizedDistBetween(fromLat, fromLon, toLat, toLon float64) float64 {
	sinDeltaLat := math.Sin(toRadians(toLat-fromLat) / 2)
	sinDeltaLon := math.Sin(toRadians(toLon-fromLon) / 2)
	return sinDeltaLat*sinDeltaLat +
		sinDeltaLon*sinDeltaLon*math.Cos(toRadians(fromLat))*math.Cos(toRadians(toLat))
}

func (EarthCalc) DenormalizedDist(normedDist float64) float64 {
	return EarthRadius * 2 * math.Asin(math.Sqrt(normedDist))
}

// Circumference returns the length of the latitude circle at lat.
func (EarthCalc) Circumference(lat float64) float64 {
	return 2 * math.Pi * EarthRadius * math.Cos(toRadians(lat))
}

func shrinkFactor(aLat, bLat float64) float64 {
	return math.Cos(toRadians((aLat + bLat) / 2))
}

func (EarthCalc) CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon float64) Point {
	if aLat == bLat && aLon == bLon {
		return Point{Lat: aLat, Lon: aLon}
	}

	shrink := shrinkFactor(aLat, bLat)
	aX, bX, rX := aLon*shrink, bLon*shrink, rLon*shrink

	deltaX := bX - aX
	deltaY := bLat - aLat
	if deltaY == 0 {
		return Point{Lat: aLat, Lon: rLon}
	}
	if deltaX == 0 {
		return Point{Lat: rLat, Lon: aLon}
	}

	norm := deltaX*deltaX + deltaY*deltaY
	factor := ((rX-aX)*deltaX + (rLat-aLat)*deltaY) / norm

	cX := aX + factor*deltaX
	cLat := aLat + factor*deltaY
	return Point{Lat: cLat, Lon: cX / shrink}
}

func (c EarthCalc) NormalizedEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) float64 {
	p := c.CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon)
	return c.NormalizedDistBetween(p.Lat, p.Lon, rLat, rLon)
}

// NormalizedEdgeDistance3D converts elevations to degrees so the projection
// happens in a uniform space. Without elevations on all three points it falls
// back to the 2D edge distance.
func (c EarthCalc) NormalizedEdgeDistance3D(rLat, rLon, rEle, aLat, aLon, aEle, bLat, bLon, bEle float64) float64 {
	if math.IsNaN(rEle) || math.IsNaN(aEle) || math.IsNaN(bEle) {
		return c.NormalizedEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon)
	}

	shrink := shrinkFactor(aLat, bLat)
	aX, bX, rX := aLon*shrink, bLon*shrink, rLon*shrink
	aZ, bZ, rZ := aEle/MetersPerDegree, bEle/MetersPerDegree, rEle/MetersPerDegree

	deltaX := bX - aX
	deltaY := bLat - aLat
	deltaZ := bZ - aZ
	norm := deltaX*deltaX + deltaY*deltaY + deltaZ*deltaZ

	var factor float64
	if norm != 0 {
		factor = ((rX-aX)*deltaX + (rLat-aLat)*deltaY + (rZ-aZ)*deltaZ) / norm
	}

	cX := aX + factor*deltaX
	cLat := aLat + factor*deltaY
	cEle := (aZ + factor*deltaZ) * MetersPerDegree
	return c.NormalizedDistBetween(cLat, cX/shrink, rLat, rLon) + c.NormalizedDist(rEle-cEle)
}

func (EarthCalc) ValidEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) bool {
	shrink := shrinkFactor(aLat, bLat)
	aX, bX, rX := aLon*shrink, bLon*shrink, rLon*shrink

	abX := bX - aX
	abY := bLat - aLat
	arDot := (rX-aX)*abX + (rLat-aLat)*abY
	rbDot := (bX-rX)*abX + (bLat-rLat)*abY
	return arDot > 0 && rbDot > 0
}

// IntermediatePoint interpolates along the great circle. The endpoints are
// returned unchanged for f == 0 and f == 1.
func (EarthCalc) IntermediatePoint(f, lat1, lon1, lat2, lon2 float64) Point {
	switch f {
	case 0:
		return Point{Lat: lat1, Lon: lon1}
	case 1:
		return Point{Lat: lat2, Lon: lon2}
	}

	phi1, lambda1 := toRadians(lat1), toRadians(lon1)
	phi2, lambda2 := toRadians(lat2), toRadians(lon2)

	cosPhi1, cosPhi2 := math.Cos(phi1), math.Cos(phi2)
	sinHalfDeltaPhi := math.Sin((phi2 - phi1) / 2)
	sinHalfDeltaLambda := math.Sin((lambda2 - lambda1) / 2)

	a := sinHalfDeltaPhi*sinHalfDeltaPhi + cosPhi1*cosPhi2*sinHalfDeltaLambda*sinHalfDeltaLambda
	angularDistance := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	if angularDistance == 0 {
		return Point{Lat: lat1, Lon: lon1}
	}
	sinDistance := math.Sin(angularDistance)

	wa := math.Sin((1-f)*angularDistance) / sinDistance
	wb := math.Sin(f*angularDistance) / sinDistance

	x := wa*cosPhi1*math.Cos(lambda1) + wb*cosPhi2*math.Cos(lambda2)
	y := wa*cosPhi1*math.Sin(lambda1) + wb*cosPhi2*math.Sin(lambda2)
	z := wa*math.Sin(phi1) + wb*math.Sin(phi2)

	return Point{
		Lat: toDegrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
		Lon: toDegrees(math.Atan2(y, x)),
	}
}

// CreateBBox returns the bounding box of the spherical cap around (lat, lon).
// When the cap reaches a pole the box spans all longitudes. Radii <= 0 yield
// a degenerate or inverted box.
func (EarthCalc) CreateBBox(lat, lon, radius float64) BBox {
	angular := radius / EarthRadius
	dLat := toDegrees(angular)

	minLat, maxLat := lat-dLat, lat+dLat
	if maxLat >= 90 || minLat <= -90 {
		return NewBBox(-180, 180, math.Max(minLat, -90), math.Min(maxLat, 90))
	}

	dLon := toDegrees(math.Asin(math.Min(1, math.Sin(angular)/math.Cos(toRadians(lat)))))
	return NewBBox(lon-dLon, lon+dLon, minLat, maxLat)
}

func (EarthCalc) ProjectCoordinate(lat, lon, distance, heading float64) Point {
	angular := distance / EarthRadius
	phi1 := toRadians(lat)
	lambda1 := toRadians(lon)
	theta := toRadians(heading)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(angular) + math.Cos(phi1)*math.Sin(angular)*math.Cos(theta))
	lambda2 := lambda1 + math.Atan2(
		math.Sin(theta)*math.Sin(angular)*math.Cos(phi1),
		math.Cos(angular)-math.Sin(phi1)*math.Sin(phi2))

	lon2 := toDegrees(lambda2)
	// normalize to [-180, 180)
	lon2 = math.Mod(lon2+540, 360) - 180
	return Point{Lat: toDegrees(phi2), Lon: lon2}
}

// IsCrossBoundary uses a 300 degree jump as the antimeridian signal.
func (EarthCalc) IsCrossBoundary(lon1, lon2 float64) bool {
	return math.Abs(lon1-lon2) > 300
}
