package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/logging"
	"georoute.onebusaway.org/internal/shapes"
)

// Fence is a stored circle.
type Fence struct {
	ID        string
	Circle    shapes.Circle
	UpdatedAt time.Time
}

// wrapClause keeps fences whose box runs past the antimeridian, which a
// plain min/max comparison would miss.
const wrapClause = `min_lon < -180 OR max_lon > 180`

// PutFence inserts or replaces the fence stored under id.
func (c *Client) PutFence(ctx context.Context, id string, circle shapes.Circle) error {
	if id == "" {
		return errors.New("fence id must not be empty")
	}

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "put_fence")

	// The box must match the circle scanFence rebuilds with the store's calc.
	b := c.config.Calc.CreateBBox(circle.Lat(), circle.Lon(), circle.Radius())
	_, err = tx.ExecContext(ctx, `
		INSERT INTO fences (id, lat, lon, radius, min_lat, max_lat, min_lon, max_lon, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			lat = excluded.lat,
			lon = excluded.lon,
			radius = excluded.radius,
			min_lat = excluded.min_lat,
			max_lat = excluded.max_lat,
			min_lon = excluded.min_lon,
			max_lon = excluded.max_lon,
			updated_at = excluded.updated_at`,
		id, circle.Lat(), circle.Lon(), circle.Radius(),
		b.MinLat, b.MaxLat, b.MinLon, b.MaxLon, c.config.Clock.Now().Unix())
	if err != nil {
		return fmt.Errorf("error storing fence %q: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing fence %q: %w", id, err)
	}

	logging.LogOperation(logging.FromContext(ctx), "fence_stored",
		slog.String("fence_id", id),
		slog.String("circle", circle.String()))
	return nil
}

// Fence loads the fence stored under id.
func (c *Client) Fence(ctx context.Context, id string) (Fence, error) {
	row := c.DB.QueryRowContext(ctx, `SELECT id, lat, lon, radius, updated_at FROM fences WHERE id = ?`, id)
	f, err := c.scanFence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Fence{}, fmt.Errorf("%w: %s", ErrFenceNotFound, id)
	}
	if err != nil {
		return Fence{}, fmt.Errorf("error loading fence %q: %w", id, err)
	}
	return f, nil
}

// DeleteFence removes the fence stored under id.
func (c *Client) DeleteFence(ctx context.Context, id string) error {
	res, err := c.DB.ExecContext(ctx, `DELETE FROM fences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting fence %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting fence %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrFenceNotFound, id)
	}
	return nil
}

// ListFences returns all fences ordered by id.
func (c *Client) ListFences(ctx context.Context) ([]Fence, error) {
	return c.queryFences(ctx, `SELECT id, lat, lon, radius, updated_at FROM fences ORDER BY id`)
}

// FencesContaining returns the ids of all fences containing the point,
// ordered by id.
func (c *Client) FencesContaining(ctx context.Context, lat, lon float64) ([]string, error) {
	candidates, err := c.queryFences(ctx, `
		SELECT id, lat, lon, radius, updated_at FROM fences
		WHERE (min_lat <= ? AND max_lat >= ? AND min_lon <= ? AND max_lon >= ?) OR `+wrapClause+`
		ORDER BY id`,
		lat, lat, lon, lon)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, f := range candidates {
		if f.Circle.Contains(lat, lon) {
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}

// FencesIntersecting returns the ids of all fences touched by the polyline,
// ordered by id.
func (c *Client) FencesIntersecting(ctx context.Context, points geo.PointSequence) ([]string, error) {
	b := geo.CalculateBBox(points)
	if !b.IsValid() {
		return nil, nil
	}

	candidates, err := c.queryFences(ctx, `
		SELECT id, lat, lon, radius, updated_at FROM fences
		WHERE (min_lat <= ? AND max_lat >= ? AND min_lon <= ? AND max_lon >= ?) OR `+wrapClause+`
		ORDER BY id`,
		b.MaxLat, b.MinLat, b.MaxLon, b.MinLon)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, f := range candidates {
		if f.Circle.IntersectsPointList(points) {
			ids = append(ids, f.ID)
		}
	}
	return ids, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (c *Client) scanFence(row rowScanner) (Fence, error) {
	var (
		id               string
		lat, lon, radius float64
		updatedAt        int64
	)
	if err := row.Scan(&id, &lat, &lon, &radius, &updatedAt); err != nil {
		return Fence{}, err
	}
	return Fence{
		ID:        id,
		Circle:    shapes.NewCircleWithCalc(lat, lon, radius, c.config.Calc),
		UpdatedAt: time.Unix(updatedAt, 0).UTC(),
	}, nil
}

func (c *Client) queryFences(ctx context.Context, query string, args ...any) ([]Fence, error) {
	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying fences: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "fence_rows")

	var fences []Fence
	for rows.Next() {
		f, err := c.scanFence(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning fence: %w", err)
		}
		fences = append(fences, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fences: %w", err)
	}
	return fences, nil
}
