package app

import (
	"errors"
	"log/slog"

	"georoute.onebusaway.org/internal/appconf"
	"georoute.onebusaway.org/internal/geo"
	"georoute.onebusaway.org/internal/metrics"
	"georoute.onebusaway.org/internal/shapes"
	"georoute.onebusaway.org/internal/store"
)

// Application holds the dependencies shared by the georoute commands.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Calc    geo.DistanceCalc
	Index   *shapes.Index
	Fences  *store.Client
	Metrics *metrics.Metrics
}

// Close stops background collectors and closes the fence store.
func (app *Application) Close() error {
	var errs []error
	if app.Metrics != nil {
		app.Metrics.Shutdown()
	}
	if app.Fences != nil {
		if err := app.Fences.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
