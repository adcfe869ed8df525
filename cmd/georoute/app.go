package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"georoute.onebusaway.org/internal/app"
	"georoute.onebusaway.org/internal/appconf"
	"georoute.onebusaway.org/internal/feed"
	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/logging"
	"georoute.onebusaway.org/internal/metrics"
	"georoute.onebusaway.org/internal/shapes"
	"georoute.onebusaway.org/internal/store"
)

// BuildApplication wires the calculator, metrics, fence store and shape
// index described by cfg.
func BuildApplication(cfg appconf.Config) (*app.Application, error) {
	logger := logging.NewLogger(os.Stdout, cfg.Verbose)

	calc, err := cfg.DistanceCalc()
	if err != nil {
		return nil, fmt.Errorf("invalid distance calculator: %w", err)
	}

	m := metrics.NewWithLogger(logger)
	calc = m.InstrumentCalc(calc)

	dbPath := cfg.FenceDBPath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	storeCfg := store.NewConfig(dbPath, cfg.Env, cfg.Verbose)
	storeCfg.Calc = calc
	fences, err := store.NewClient(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open fence store: %w", err)
	}
	m.StartDBStatsCollector(fences.DB, 10*time.Second)

	coreApp := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Calc:    calc,
		Index:   shapes.NewIndex(),
		Fences:  fences,
		Metrics: m,
	}

	if cfg.GTFSPath != "" {
		static, err := feed.LoadStatic(cfg.GTFSPath)
		if err != nil {
			_ = coreApp.Close()
			return nil, fmt.Errorf("failed to load GTFS feed: %w", err)
		}
		n := feed.IndexShapes(coreApp.Index, static)
		logging.LogOperation(logger, "shape_index_ready", slog.Int("shapes", n))
	}

	return coreApp, nil
}

// ParsePoints parses "lat,lon;lat,lon;..." into a point list. An optional
// third value per point is read as elevation.
func ParsePoints(input string) (*geo.PointList, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return geo.NewPointList(0, false), nil
	}

	parts := strings.Split(input, ";")
	width := len(strings.Split(parts[0], ","))
	pl := geo.NewPointList(len(parts), width == 3)

	for i, part := range parts {
		fields := strings.Split(part, ",")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("point %d: expected lat,lon[,ele], got %q", i, strings.TrimSpace(part))
		}
		if len(fields) != width {
			return nil, fmt.Errorf("point %d: has %d values but point 0 has %d", i, len(fields), width)
		}

		values := make([]float64, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			values[j] = v
		}

		if len(values) == 3 {
			pl.Add3D(values[0], values[1], values[2])
		} else {
			pl.Add(values[0], values[1])
		}
	}
	return pl, nil
}
