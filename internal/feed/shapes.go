package feed

import (
	"log/slog"
	"math"

	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/logging"
	"georoute.onebusaway.org/internal/shapes"
	"github.com/OneBusAway/go-gtfs"
)

// ShapeToPointList copies the points of a GTFS shape in order.
func ShapeToPointList(shape gtfs.Shape) *geo.PointList {
	pl := geo.NewPointList(len(shape.Points), false)
	for _, point := range shape.Points {
		pl.Add(point.Latitude, point.Longitude)
	}
	return pl
}

// ShapesToPointLists converts shapes keyed by shape id. Shapes without
// points are skipped.
func ShapesToPointLists(gtfsShapes []gtfs.Shape) map[string]*geo.PointList {
	out := make(map[string]*geo.PointList, len(gtfsShapes))
	for _, shape := range gtfsShapes {
		if len(shape.Points) == 0 {
			continue
		}
		out[shape.ID] = ShapeToPointList(shape)
	}
	return out
}

// ComputeRegionBounds calculates the geographic boundaries of the GTFS region
// from all shape points. Returns nil if no shape has points.
func ComputeRegionBounds(gtfsShapes []gtfs.Shape) *geo.BBox {
	bounds := geo.NewInverseBBox()
	for _, shape := range gtfsShapes {
		for _, point := range shape.Points {
			bounds.Update(point.Latitude, point.Longitude)
		}
	}
	if !bounds.IsValid() {
		return nil
	}
	return &bounds
}

// IndexShapes inserts every shape of the feed into idx and returns how many
// were added.
func IndexShapes(idx *shapes.Index, static *gtfs.Static) int {
	if static == nil {
		return 0
	}

	lists := ShapesToPointLists(static.Shapes)
	for id, pl := range lists {
		idx.Insert(id, pl)
	}

	logger := slog.Default().With(slog.String("component", "feed_indexer"))
	attrs := []any{slog.Int("indexed", len(lists)), slog.Int("skipped", len(static.Shapes)-len(lists))}
	if region := ComputeRegionBounds(static.Shapes); region != nil {
		attrs = append(attrs, slog.String("region", region.String()))
	}
	logging.LogOperation(logger, "gtfs_shapes_indexed", attrs...)

	return len(lists)
}

// DistanceAlongShape returns how far along the polyline the point closest to
// (lat, lon) lies, measured with calc. Segments whose interior does not face
// the point are measured to their nearer end.
func DistanceAlongShape(calc geo.DistanceCalc, lat, lon float64, points geo.PointSequence) float64 {
	n := points.Size()
	if n < 2 {
		return 0
	}

	var traveled, best float64
	minDistance := math.Inf(1)

	for i := 0; i < n-1; i++ {
		aLat, aLon := points.Lat(i), points.Lon(i)
		bLat, bLon := points.Lat(i+1), points.Lon(i+1)
		segment := calc.Dist(aLat, aLon, bLat, bLon)

		var normed, along float64
		if calc.ValidEdgeDistance(lat, lon, aLat, aLon, bLat, bLon) {
			normed = calc.NormalizedEdgeDistance(lat, lon, aLat, aLon, bLat, bLon)
			foot := calc.CrossingPointToEdge(lat, lon, aLat, aLon, bLat, bLon)
			along = math.Min(calc.Dist(aLat, aLon, foot.Lat, foot.Lon), segment)
		} else {
			toA := calc.NormalizedDistBetween(lat, lon, aLat, aLon)
			toB := calc.NormalizedDistBetween(lat, lon, bLat, bLon)
			normed = toA
			if toB < toA {
				normed, along = toB, segment
			}
		}

		if normed < minDistance {
			minDistance = normed
			best = traveled + along
		}
		traveled += segment
	}

	return best
}
