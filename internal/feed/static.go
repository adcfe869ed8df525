// Package feed turns GTFS static feeds into polylines for the shape index.
package feed

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"georoute.onebusaway.org/internal/logging"
	"github.com/OneBusAway/go-gtfs"
	"github.com/klauspost/compress/gzip"
)

const maxStaticSize = 200 * 1024 * 1024

func rawStaticData(path string) ([]byte, error) {
	logger := slog.Default().With(slog.String("component", "feed_loader"))

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading local GTFS file: %w", err)
	}
	defer logging.SafeCloseWithLogging(f, logger, "gtfs_file")

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("error opening gzip stream: %w", err)
		}
		defer logging.SafeCloseWithLogging(gz, logger, "gtfs_gzip_reader")
		r = gz
	}

	b, err := io.ReadAll(io.LimitReader(r, maxStaticSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading GTFS data: %w", err)
	}
	if int64(len(b)) > maxStaticSize {
		return nil, fmt.Errorf("static GTFS data exceeds size limit of %d bytes", maxStaticSize)
	}
	return b, nil
}

// LoadStatic reads and parses a GTFS zip from path. Paths ending in ".gz"
// are decompressed first.
func LoadStatic(path string) (*gtfs.Static, error) {
	b, err := rawStaticData(path)
	if err != nil {
		return nil, err
	}

	staticData, err := gtfs.ParseStatic(b, gtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("error parsing GTFS data: %w", err)
	}

	logging.LogOperation(slog.Default().With(slog.String("component", "feed_loader")),
		"gtfs_static_loaded",
		slog.String("path", path),
		slog.Int("shapes", len(staticData.Shapes)),
		slog.Int("bytes", len(b)))

	return staticData, nil
}
