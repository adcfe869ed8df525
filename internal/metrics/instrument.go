package metrics

import (
	"fmt"
	"time"

	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/shapes"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	opDist           = "dist"
	opNormalizedDist = "normalized_dist"
	opEdgeDistance   = "edge_distance"
	opProjection     = "projection"
	opBBox           = "bbox"
)

// instrumentedCalc counts calls per operation family on the wrapped calculator.
type instrumentedCalc struct {
	geo.DistanceCalc

	dist       prometheus.Counter
	normalized prometheus.Counter
	edge       prometheus.Counter
	projection prometheus.Counter
	bbox       prometheus.Counter
}

// InstrumentCalc wraps calc so that every call is counted in DistanceCalls.
func (m *Metrics) InstrumentCalc(calc geo.DistanceCalc) geo.DistanceCalc {
	name := geo.CalcName(calc)
	return &instrumentedCalc{
		DistanceCalc: calc,
		dist:         m.DistanceCalls.WithLabelValues(name, opDist),
		normalized:   m.DistanceCalls.WithLabelValues(name, opNormalizedDist),
		edge:         m.DistanceCalls.WithLabelValues(name, opEdgeDistance),
		projection:   m.DistanceCalls.WithLabelValues(name, opProjection),
		bbox:         m.DistanceCalls.WithLabelValues(name, opBBox),
	}
}

func (c *instrumentedCalc) Unwrap() geo.DistanceCalc {
	return c.DistanceCalc
}

func (c *instrumentedCalc) Dist(fromLat, fromLon, toLat, toLon float64) float64 {
	c.dist.Inc()
	return c.DistanceCalc.Dist(fromLat, fromLon, toLat, toLon)
}

func (c *instrumentedCalc) Dist3D(fromLat, fromLon, fromEle, toLat, toLon, toEle float64) float64 {
	c.dist.Inc()
	return c.DistanceCalc.Dist3D(fromLat, fromLon, fromEle, toLat, toLon, toEle)
}

func (c *instrumentedCalc) NormalizedDistBetween(fromLat, fromLon, toLat, toLon float64) float64 {
	c.normalized.Inc()
	return c.DistanceCalc.NormalizedDistBetween(fromLat, fromLon, toLat, toLon)
}

func (c *instrumentedCalc) NormalizedEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) float64 {
	c.edge.Inc()
	return c.DistanceCalc.NormalizedEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon)
}

func (c *instrumentedCalc) NormalizedEdgeDistance3D(rLat, rLon, rEle, aLat, aLon, aEle, bLat, bLon, bEle float64) float64 {
	c.edge.Inc()
	return c.DistanceCalc.NormalizedEdgeDistance3D(rLat, rLon, rEle, aLat, aLon, aEle, bLat, bLon, bEle)
}

func (c *instrumentedCalc) ValidEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon float64) bool {
	c.edge.Inc()
	return c.DistanceCalc.ValidEdgeDistance(rLat, rLon, aLat, aLon, bLat, bLon)
}

func (c *instrumentedCalc) CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon float64) geo.Point {
	c.projection.Inc()
	return c.DistanceCalc.CrossingPointToEdge(rLat, rLon, aLat, aLon, bLat, bLon)
}

func (c *instrumentedCalc) IntermediatePoint(f, lat1, lon1, lat2, lon2 float64) geo.Point {
	c.projection.Inc()
	return c.DistanceCalc.IntermediatePoint(f, lat1, lon1, lat2, lon2)
}

func (c *instrumentedCalc) ProjectCoordinate(lat, lon, distance, heading float64) geo.Point {
	c.projection.Inc()
	return c.DistanceCalc.ProjectCoordinate(lat, lon, distance, heading)
}

func (c *instrumentedCalc) CreateBBox(lat, lon, radius float64) geo.BBox {
	c.bbox.Inc()
	return c.DistanceCalc.CreateBBox(lat, lon, radius)
}

// instrumentedShape records every predicate evaluation of the wrapped shape.
type instrumentedShape struct {
	shapes.Shape
	kind string
	m    *Metrics
}

// InstrumentShape wraps s so that its predicates are observed under the
// given shape label. An empty label uses the shape's Go type.
func (m *Metrics) InstrumentShape(s shapes.Shape, kind string) shapes.Shape {
	if kind == "" {
		kind = fmt.Sprintf("%T", s)
	}
	return &instrumentedShape{Shape: s, kind: kind, m: m}
}

func (s *instrumentedShape) Contains(lat, lon float64) bool {
	start := time.Now()
	ok := s.Shape.Contains(lat, lon)
	s.m.ObservePredicate(s.kind, "contains", ok, time.Since(start))
	return ok
}

func (s *instrumentedShape) IntersectsBBox(b geo.BBox) bool {
	start := time.Now()
	ok := s.Shape.IntersectsBBox(b)
	s.m.ObservePredicate(s.kind, "intersects_bbox", ok, time.Since(start))
	return ok
}

func (s *instrumentedShape) IntersectsPointList(points geo.PointSequence) bool {
	start := time.Now()
	ok := s.Shape.IntersectsPointList(points)
	s.m.ObservePredicate(s.kind, "intersects_point_list", ok, time.Since(start))
	return ok
}
