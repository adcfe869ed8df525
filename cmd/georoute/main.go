package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"georoute.onebusaway.org/internal/app"
	"georoute.onebusaway.org/internal/appconf"
	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/logging"
	"github.com/davecgh/go-spew/spew"
)

type options struct {
	base app.Query

	configPath string
	polyline   string
	points     string
	dump       bool
}

func parseFlags(args []string) (appconf.Config, options, error) {
	var cfg appconf.Config
	var opts options
	var env string

	fs := flag.NewFlagSet("georoute", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to a JSON config file; replaces the config flags")
	fs.StringVar(&env, "env", "development", "Environment (development|test|production)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	fs.StringVar(&cfg.Calc, "calc", "earth", "Distance calculator (earth|euclidean)")
	fs.StringVar(&cfg.FenceDBPath, "fence-db", ":memory:", "Path to the fence SQLite database")
	fs.StringVar(&cfg.GTFSPath, "gtfs", "", "GTFS zip (or .zip.gz) whose shapes are indexed")
	fs.StringVar(&cfg.KMLOutput, "kml", "", "Write a KML rendering of the result to this file")
	fs.BoolVar(&cfg.MetricsDump, "metrics", false, "Log the gathered metrics on exit")

	fs.Float64Var(&opts.base.Lat, "lat", 0, "Circle center latitude")
	fs.Float64Var(&opts.base.Lon, "lon", 0, "Circle center longitude")
	fs.Float64Var(&opts.base.Radius, "radius", 0, "Circle radius in calculator units (meters for earth)")
	fs.StringVar(&opts.base.FenceID, "fence-id", "", "Store the circle as a fence under this id")
	fs.StringVar(&opts.polyline, "polyline", "", "Encoded polyline to test against the circle")
	fs.StringVar(&opts.points, "points", "", "Polyline as lat,lon;lat,lon;...")
	fs.BoolVar(&opts.dump, "dump", false, "Dump the full evaluation report")

	if err := fs.Parse(args); err != nil {
		return cfg, opts, err
	}
	cfg.Env = appconf.EnvFlagToEnvironment(env)

	if opts.configPath != "" {
		jsonConfig, err := appconf.LoadFromFile(opts.configPath)
		if err != nil {
			return cfg, opts, err
		}
		cfg = jsonConfig.ToAppConfig()
	}

	if opts.polyline != "" && opts.points != "" {
		return cfg, opts, errors.New("-polyline and -points are mutually exclusive")
	}
	return cfg, opts, nil
}

func (o options) query() (app.Query, error) {
	q := o.base
	switch {
	case o.polyline != "":
		pl, err := geo.DecodePolyline(o.polyline)
		if err != nil {
			return q, fmt.Errorf("invalid -polyline: %w", err)
		}
		q.Polyline = pl
	case o.points != "":
		pl, err := ParsePoints(o.points)
		if err != nil {
			return q, fmt.Errorf("invalid -points: %w", err)
		}
		q.Polyline = pl
	}
	return q, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg, opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	q, err := opts.query()
	if err != nil {
		return err
	}

	coreApp, err := BuildApplication(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := coreApp.Close(); err != nil {
			logging.LogError(coreApp.Logger, "failed to close application", err)
		}
	}()

	report, err := coreApp.Evaluate(ctx, q)
	if err != nil {
		return err
	}

	printReport(stdout, report)
	if opts.dump {
		_, _ = fmt.Fprint(stdout, spew.Sdump(report))
	}

	if cfg.KMLOutput != "" {
		if err := writeKMLFile(coreApp, cfg.KMLOutput, q, report); err != nil {
			return err
		}
	}

	if cfg.MetricsDump {
		logMetrics(coreApp)
	}
	return nil
}

func printReport(w io.Writer, r *app.Report) {
	_, _ = fmt.Fprintf(w, "circle: %s\n", r.Circle)
	_, _ = fmt.Fprintf(w, "bounds: %s\n", r.Bounds)
	if r.HasPolyline {
		_, _ = fmt.Fprintf(w, "polyline intersects: %t\n", r.PolylineIntersects)
		_, _ = fmt.Fprintf(w, "distance along polyline: %.1f\n", r.DistanceAlong)
	}
	_, _ = fmt.Fprintf(w, "indexed shapes: %v\n", r.IndexedShapes)
	_, _ = fmt.Fprintf(w, "containing fences: %v\n", r.ContainingFences)
	if r.HasPolyline {
		_, _ = fmt.Fprintf(w, "crossed fences: %v\n", r.CrossedFences)
	}
}

func writeKMLFile(coreApp *app.Application, path string, q app.Query, report *app.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create KML file: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, coreApp.Logger, "kml_file")

	if err := coreApp.WriteKML(f, q, report); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	logging.LogOperation(coreApp.Logger, "kml_written", slog.String("path", path))
	return nil
}

func logMetrics(coreApp *app.Application) {
	families, err := coreApp.Metrics.Registry.Gather()
	if err != nil {
		logging.LogError(coreApp.Logger, "failed to gather metrics", err)
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			attrs := []any{slog.String("metric", family.GetName())}
			for _, label := range metric.GetLabel() {
				attrs = append(attrs, slog.String(label.GetName(), label.GetValue()))
			}
			switch {
			case metric.GetCounter() != nil:
				attrs = append(attrs, slog.Float64("value", metric.GetCounter().GetValue()))
			case metric.GetGauge() != nil:
				attrs = append(attrs, slog.Float64("value", metric.GetGauge().GetValue()))
			case metric.GetHistogram() != nil:
				attrs = append(attrs,
					slog.Uint64("count", metric.GetHistogram().GetSampleCount()),
					slog.Float64("sum", metric.GetHistogram().GetSampleSum()))
			}
			logging.LogOperation(coreApp.Logger, "metric", attrs...)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logging.LogError(slog.Default(), "georoute failed", err)
		stop()
		os.Exit(1)
	}
}
