package geo

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-polyline"
)

// ErrEmptyPolyline is returned when an encoded polyline holds no points.
var ErrEmptyPolyline = errors.New("polyline has no points")

// EncodePolyline encodes the sequence with the Google polyline algorithm
// (five decimal places, latitude first).
func EncodePolyline(points PointSequence) string {
	coords := make([][]float64, points.Size())
	for i := range coords {
		coords[i] = []float64{points.Lat(i), points.Lon(i)}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline decodes a Google encoded polyline into a 2D PointList.
func DecodePolyline(encoded string) (*PointList, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("failed to decode polyline: %d trailing bytes", len(rest))
	}
	if len(coords) == 0 {
		return nil, ErrEmptyPolyline
	}

	pl := NewPointList(len(coords), false)
	for _, c := range coords {
		pl.Add(c[0], c[1])
	}
	return pl, nil
}
