// Command wildstream streams the USGS wildland fire GeoJSON exports:
// count, query, match or browse features without ever loading the whole
// file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"
	"golang.org/x/term"

	"github.com/mkor/wildstream/geo"
	"github.com/mkor/wildstream/geojson"
	"github.com/mkor/wildstream/index"
	"github.com/mkor/wildstream/log"
	"github.com/mkor/wildstream/wildfire"
)

type options struct {
	dataset   string
	query     string
	match     bool
	catalog   string
	dedupe    bool
	indexPath string
	view      bool
	near      string
	verbose   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.query, "query", "", "gojq program to run against each feature")
	flag.BoolVar(&opts.match, "match", false, "report features matching the named-fire catalog")
	flag.StringVar(&opts.catalog, "catalog", "", "YAML catalog of named fires (default: built-in large CA fires)")
	flag.BoolVar(&opts.dedupe, "dedupe", false, "skip byte-identical repeated features")
	flag.StringVar(&opts.indexPath, "index", "", "build a feature offset index into this file")
	flag.BoolVar(&opts.view, "view", false, "browse features interactively")
	flag.StringVar(&opts.near, "near", "", "lat,lon point to measure against each feature perimeter")
	flag.BoolVar(&opts.verbose, "v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: wildstream [flags] <dataset.json[.gz|.zst|.lz4]>")
	}
	opts.dataset = flag.Arg(0)

	if opts.verbose {
		log.SetLevel(log.LevelDebug)
	}

	if err := run(opts); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}
}

func run(opts options) (err error) {
	ctx, cancelCtx := context.WithCancel(context.Background())

	cleanupOsSignals := setupOsSignals(ctx, cancelCtx)
	defer cleanupOsSignals()

	datasetPath, cleanupDataset, err := materializeDataset(opts.dataset)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cleanupDataset(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	reader, err := geojson.Open(datasetPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := reader.Close(); cerr != nil {
			err = multierror.Append(err, cerr).ErrorOrNil()
		}
	}()

	header, err := reader.Header()
	if err != nil {
		return err
	}
	log.Infof("opened %q, header has %d keys", opts.dataset, len(header))
	for key := range header {
		log.Debugf("header key %q", key)
	}

	if opts.view {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("-view needs a terminal on stdout")
		}
		return NewApplication(reader).Run(ctx, cancelCtx)
	}

	if opts.indexPath != "" {
		ix, err := index.Open(opts.indexPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := ix.Close(); cerr != nil {
				err = multierror.Append(err, cerr).ErrorOrNil()
			}
		}()

		n, err := ix.Build(reader)
		if err != nil {
			return err
		}
		log.Infof("indexed %d features into %q", n, opts.indexPath)
		return nil
	}

	return drain(ctx, reader, opts)
}

// drain reads every feature once, applying whichever of the optional
// passes were requested. Progress is reported every thousand features.
func drain(ctx context.Context, reader *geojson.Reader, opts options) error {
	var matcher *wildfire.Matcher
	if opts.match {
		catalog := wildfire.DefaultCatalog()
		if opts.catalog != "" {
			var err error
			if catalog, err = wildfire.LoadCatalog(opts.catalog); err != nil {
				return err
			}
		}
		matcher = wildfire.NewMatcher(catalog)
	}

	var query *FeatureQuery
	if opts.query != "" {
		var err error
		if query, err = CompileQuery(opts.query); err != nil {
			return err
		}
	}

	var nearPoint *[2]float64
	var transform geo.Transformer
	if opts.near != "" {
		point, err := parsePoint(opts.near)
		if err != nil {
			return err
		}
		nearPoint = &point
		transform = geo.NewAlbersToWGS84()
	}

	var deduper *wildfire.Deduper
	if opts.dedupe {
		deduper = wildfire.NewDeduper()
	}

	out := json.NewEncoder(os.Stdout)
	total, skipped, matched := 0, 0, 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, ok, err := reader.NextRaw()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		total++
		if total%1000 == 0 {
			log.Infof("loaded %d features", total)
		}

		if deduper != nil && deduper.Seen(raw) {
			skipped++
			continue
		}

		if matcher != nil {
			for _, m := range matcher.Match(raw) {
				matched++
				log.Infof("possible %q fire of %d (%d acres): %s",
					m.Name, m.Record.Year, m.Record.Acres,
					gjson.GetBytes(raw, "attributes.Listed_Fire_Names").String())
				if nearPoint != nil {
					reportDistance(raw, *nearPoint, transform)
				}
			}
		} else if nearPoint != nil {
			reportDistance(raw, *nearPoint, transform)
		}

		if query != nil {
			var feat geojson.Feature
			if err := json.Unmarshal(raw, &feat); err != nil {
				return err
			}
			results, err := query.Run(feat)
			if err != nil {
				return err
			}
			for _, result := range results {
				if err := out.Encode(result); err != nil {
					return err
				}
			}
		}
	}

	log.Infof("loaded a total of %d features", total)
	if deduper != nil {
		log.Infof("skipped %d duplicate features", skipped)
	}
	if matcher != nil {
		log.Infof("found %d possible catalog fires", matched)
	}
	return nil
}

// reportDistance measures from the point to the feature's largest
// perimeter ring, reprojecting the ring out of the dataset's Albers
// coordinates first.
func reportDistance(raw []byte, point [2]float64, transform geo.Transformer) {
	ring := largestRing(raw)
	if len(ring) == 0 {
		log.Debugf("feature has no perimeter ring")
		return
	}

	geographic, err := transform.Transform(ring)
	if err != nil {
		log.Warnf("failed to reproject ring: %v", err)
		return
	}

	distance, err := geo.DistanceToRing(point[0], point[1], geographic)
	if err != nil {
		log.Warnf("failed to measure ring distance: %v", err)
		return
	}
	log.Infof("perimeter is %.1f km from %.4f,%.4f", distance/1000, point[0], point[1])
}

// largestRing pulls the first (largest, per the export's convention) ring
// of the feature geometry as projected coordinate pairs.
func largestRing(raw []byte) [][2]float64 {
	result := gjson.GetBytes(raw, "geometry.rings.0")
	if !result.Exists() {
		return nil
	}
	var ring [][2]float64
	result.ForEach(func(_, point gjson.Result) bool {
		coords := point.Array()
		if len(coords) >= 2 {
			ring = append(ring, [2]float64{coords[0].Float(), coords[1].Float()})
		}
		return true
	})
	return ring
}

func parsePoint(s string) ([2]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("expected lat,lon but got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("bad latitude in %q: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("bad longitude in %q: %w", s, err)
	}
	return [2]float64{lat, lon}, nil
}

func setupOsSignals(ctx context.Context, cancelCtx context.CancelFunc) (cleanup func()) {
	// Catch ctrl+c and close the context instead of exiting immediately,
	// so temporary files get cleaned up.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)

	cleanup = func() {
		signal.Stop(signalChan)
		cancelCtx()
	}

	go func() {
		select {
		case <-signalChan:
			log.Infof("interrupted")
			cancelCtx()
		case <-ctx.Done():
		}
	}()

	return cleanup
}
