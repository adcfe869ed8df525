package appconf

import (
	"strings"

	"georoute.onebusaway.org/internal/geo"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag value to an Environment. Unknown
// values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds the application-wide settings.
type Config struct {
	Env     Environment
	Verbose bool

	// Calc names the distance calculator: "earth" or "euclidean".
	Calc string

	// FenceDBPath is the sqlite file holding stored fences. ":memory:" keeps
	// them for the lifetime of the process.
	FenceDBPath string

	// GTFSPath optionally points at a GTFS zip whose shapes are indexed.
	GTFSPath string

	// KMLOutput, when set, receives a KML document of the evaluated shapes.
	KMLOutput string

	// MetricsDump logs the gathered metrics on exit.
	MetricsDump bool
}

// DistanceCalc resolves the configured calculator name.
func (c Config) DistanceCalc() (geo.DistanceCalc, error) {
	return geo.CalcByName(c.Calc)
}
