package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"georoute.onebusaway.org/internal/export"
	"georoute.onebusaway.org/internal/feed"
	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/logging"
	"georoute.onebusaway.org/internal/shapes"
	"github.com/twpayne/go-kml"
)

// Query describes one circle evaluation.
type Query struct {
	Lat, Lon, Radius float64

	// Polyline is tested against the circle and the stored fences when set.
	Polyline *geo.PointList

	// FenceID stores the circle under this id before the fence lookups run.
	FenceID string
}

// Report is the outcome of Evaluate.
type Report struct {
	Circle shapes.Circle
	Bounds geo.BBox

	// Polyline results, only meaningful when the query carried a polyline.
	HasPolyline        bool
	PolylineIntersects bool
	PolylineInBounds   bool
	DistanceAlong      float64

	// IndexedShapes lists the ids of indexed polylines touching the circle.
	IndexedShapes []string

	// ContainingFences lists stored fences containing the circle's center.
	ContainingFences []string
	// CrossedFences lists stored fences touched by the polyline.
	CrossedFences []string
}

// Evaluate runs every predicate of the circle described by q against the
// polyline, the shape index and the fence store.
func (app *Application) Evaluate(ctx context.Context, q Query) (*Report, error) {
	circle := shapes.NewCircleWithCalc(q.Lat, q.Lon, q.Radius, app.Calc)
	var shape shapes.Shape = circle
	if app.Metrics != nil {
		shape = app.Metrics.InstrumentShape(circle, "circle")
	}

	report := &Report{Circle: circle, Bounds: circle.Bounds()}

	if q.Polyline != nil && q.Polyline.Size() > 0 {
		report.HasPolyline = true
		report.PolylineIntersects = shape.IntersectsPointList(q.Polyline)
		report.PolylineInBounds = shape.IntersectsBBox(q.Polyline.Bounds())
		report.DistanceAlong = feed.DistanceAlongShape(app.Calc, q.Lat, q.Lon, q.Polyline)
	}

	if app.Index != nil {
		report.IndexedShapes = app.Index.Query(shape)
	}

	if app.Fences != nil {
		if q.FenceID != "" {
			if err := app.Fences.PutFence(ctx, q.FenceID, circle); err != nil {
				return nil, fmt.Errorf("failed to store fence: %w", err)
			}
		}

		ids, err := app.Fences.FencesContaining(ctx, q.Lat, q.Lon)
		if err != nil {
			return nil, fmt.Errorf("failed to query fences: %w", err)
		}
		report.ContainingFences = ids

		if report.HasPolyline {
			ids, err := app.Fences.FencesIntersecting(ctx, q.Polyline)
			if err != nil {
				return nil, fmt.Errorf("failed to query fences: %w", err)
			}
			report.CrossedFences = ids
		}
	}

	logging.LogOperation(app.Logger, "circle_evaluated",
		slog.String("circle", circle.String()),
		slog.Bool("polyline_intersects", report.PolylineIntersects),
		slog.Int("indexed_shapes", len(report.IndexedShapes)),
		slog.Int("containing_fences", len(report.ContainingFences)))

	return report, nil
}

// WriteKML renders the report's circle, its bounds, the polyline and every
// indexed shape it touched.
func (app *Application) WriteKML(w io.Writer, q Query, report *Report) error {
	placemarks := []kml.Element{
		export.CirclePlacemark(report.Circle.String(), report.Circle, export.DefaultSegments),
		export.BBoxPlacemark("bounds", report.Bounds),
	}
	if report.HasPolyline {
		placemarks = append(placemarks, export.PolylinePlacemark("polyline", q.Polyline))
	}
	if app.Index != nil {
		for _, id := range report.IndexedShapes {
			if points, ok := app.Index.Get(id); ok {
				placemarks = append(placemarks, export.PolylinePlacemark(id, points))
			}
		}
	}
	return export.WriteDocument(w, "georoute", placemarks...)
}
