// Package export renders shapes and polylines as KML documents.
package export

import (
	"image/color"
	"io"
	"math"

	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/shapes"
	"github.com/twpayne/go-kml"
)

// DefaultSegments is the number of ring edges used to draw a circle.
const DefaultSegments = 64

const (
	fenceStyleID = "fence"
	routeStyleID = "route"
)

// CircleRing approximates the circle's outline with segments edges. The ring
// is closed: the last coordinate repeats the first.
func CircleRing(c shapes.Circle, segments int) []kml.Coordinate {
	if segments < 3 {
		segments = DefaultSegments
	}
	calc := c.Calc()
	ring := make([]kml.Coordinate, 0, segments+1)
	for i := 0; i < segments; i++ {
		heading := 360 * float64(i) / float64(segments)
		p := calc.ProjectCoordinate(c.Lat(), c.Lon(), c.Radius(), heading)
		ring = append(ring, kml.Coordinate{Lon: p.Lon, Lat: p.Lat})
	}
	return append(ring, ring[0])
}

// CirclePlacemark draws c as a polygon.
func CirclePlacemark(name string, c shapes.Circle, segments int) kml.Element {
	return kml.Placemark(
		kml.Name(name),
		kml.Description(c.String()),
		kml.StyleURL("#"+fenceStyleID),
		kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(
					kml.Coordinates(CircleRing(c, segments)...),
				),
			),
		),
	)
}

// BBoxPlacemark draws b as a closed rectangle.
func BBoxPlacemark(name string, b geo.BBox) kml.Element {
	corners := b.Corners()
	ring := []kml.Coordinate{
		{Lon: corners[0].Lon, Lat: corners[0].Lat},
		{Lon: corners[1].Lon, Lat: corners[1].Lat},
		{Lon: corners[3].Lon, Lat: corners[3].Lat},
		{Lon: corners[2].Lon, Lat: corners[2].Lat},
		{Lon: corners[0].Lon, Lat: corners[0].Lat},
	}
	return kml.Placemark(
		kml.Name(name),
		kml.Description(b.String()),
		kml.StyleURL("#"+fenceStyleID),
		kml.Polygon(
			kml.OuterBoundaryIs(
				kml.LinearRing(kml.Coordinates(ring...)),
			),
		),
	)
}

// PolylinePlacemark draws points as a line string. 3D lists keep their
// elevation as altitude.
func PolylinePlacemark(name string, points geo.PointSequence) kml.Element {
	coords := make([]kml.Coordinate, 0, points.Size())
	pl, ok := points.(*geo.PointList)
	withEle := ok && pl.Is3D()
	for i := 0; i < points.Size(); i++ {
		coord := kml.Coordinate{Lon: points.Lon(i), Lat: points.Lat(i)}
		if withEle && !math.IsNaN(pl.Ele(i)) {
			coord.Alt = pl.Ele(i)
		}
		coords = append(coords, coord)
	}
	return kml.Placemark(
		kml.Name(name),
		kml.StyleURL("#"+routeStyleID),
		kml.LineString(
			kml.Tessellate(true),
			kml.Coordinates(coords...),
		),
	)
}

// WriteDocument writes a complete KML document holding the placemarks.
func WriteDocument(w io.Writer, name string, placemarks ...kml.Element) error {
	children := []kml.Element{
		kml.Name(name),
		kml.SharedStyle(fenceStyleID,
			kml.LineStyle(kml.Color(color.RGBA{R: 200, G: 30, B: 30, A: 255}), kml.Width(2)),
			kml.PolyStyle(kml.Color(color.RGBA{R: 200, G: 30, B: 30, A: 64})),
		),
		kml.SharedStyle(routeStyleID,
			kml.LineStyle(kml.Color(color.RGBA{R: 30, G: 90, B: 200, A: 255}), kml.Width(3)),
		),
	}
	children = append(children, placemarks...)
	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}
