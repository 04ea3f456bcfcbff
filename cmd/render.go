package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/npidgeon/Heatmap/internal/boundary"
	"github.com/npidgeon/Heatmap/internal/config"
	"github.com/npidgeon/Heatmap/internal/jitter"
	"github.com/npidgeon/Heatmap/internal/points"
	"github.com/npidgeon/Heatmap/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate the anonymized heatmap",
	Long: `Loads the US nation boundary shapefile (downloading it from the Census
Bureau on first run), reads the coordinate CSV from a local path or S3,
drops rows outside the boundary, jitters the remainder within the privacy
radius, and writes the heatmap HTML.

The jittered coordinates are embedded in plain form in the output file;
the anonymization is the spatial offset, not encryption.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if v, _ := cmd.Flags().GetString("csv"); v != "" {
			cfg.Source.CSVPath = v
		}
		if v, _ := cmd.Flags().GetString("out"); v != "" {
			cfg.Map.OutputPath = v
		}
		if v, _ := cmd.Flags().GetString("lat-col"); v != "" {
			cfg.Source.LatColumn = v
		}
		if v, _ := cmd.Flags().GetString("long-col"); v != "" {
			cfg.Source.LongColumn = v
		}
		if cmd.Flags().Changed("radius") {
			cfg.Privacy.RadiusMeters, _ = cmd.Flags().GetFloat64("radius")
		}

		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		return runRender(ctx, cfg, rand.New(rand.NewSource(seed)))
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("csv", "", "local CSV path (overrides S3 source)")
	renderCmd.Flags().String("out", "", "output HTML path")
	renderCmd.Flags().String("lat-col", "", "latitude column name")
	renderCmd.Flags().String("long-col", "", "longitude column name")
	renderCmd.Flags().Float64("radius", 0, "privacy radius in meters (0 disables jitter)")
	renderCmd.Flags().Int64("seed", 0, "random seed for reproducible jitter (0 = time-based)")
}

// runRender is the full pipeline: boundary -> load -> filter -> jitter ->
// render. The random source is injected so runs can be reproduced.
func runRender(ctx context.Context, cfg *config.Config, rng *rand.Rand) error {
	log := zap.L().With(zap.String("command", "render"))

	shpPath := cfg.Boundary.ShapefilePath
	if _, err := os.Stat(shpPath); err != nil {
		fetched, fetchErr := boundary.Fetch(ctx, cfg.Boundary.DownloadURL, cfg.Boundary.CacheDir)
		if fetchErr != nil {
			return eris.Wrap(fetchErr, "render: fetch boundary shapefile")
		}
		shpPath = fetched
	}

	b, err := boundary.Load(shpPath, cfg.Boundary.MarginMeters)
	if err != nil {
		return eris.Wrap(err, "render: load boundary")
	}

	src, err := sourceFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	res, err := points.Load(ctx, src, cfg.Source.LatColumn, cfg.Source.LongColumn)
	if err != nil {
		return eris.Wrap(err, "render: load points")
	}

	kept := filterWithin(res.Points, b.Contains)
	if discarded := len(res.Points) - len(kept); discarded > 0 {
		log.Info("discarded records outside the boundary", zap.Int("discarded", discarded))
	}

	j := jitter.New(cfg.Privacy.RadiusMeters, rng)
	j.Bounds = b.Contains
	anonymized := j.Apply(kept)

	opts := render.Options{
		Outline:    b.Largest(),
		HeatRadius: cfg.Map.HeatRadius,
		HeatBlur:   cfg.Map.HeatBlur,
	}
	if err := render.WriteFile(cfg.Map.OutputPath, anonymized, opts); err != nil {
		return eris.Wrap(err, "render: write heatmap")
	}

	return nil
}

// sourceFromConfig picks the local file when configured, otherwise S3.
func sourceFromConfig(ctx context.Context, cfg *config.Config) (points.Source, error) {
	if cfg.Source.CSVPath != "" {
		return points.FileSource{Path: cfg.Source.CSVPath}, nil
	}
	return points.NewS3Source(ctx, cfg.AWS, cfg.S3)
}

// filterWithin keeps the coordinates for which contains returns true,
// preserving order.
func filterWithin(pts []points.Coordinate, contains func(lat, lng float64) bool) []points.Coordinate {
	kept := make([]points.Coordinate, 0, len(pts))
	for _, p := range pts {
		if contains(p.Lat, p.Lng) {
			kept = append(kept, p)
		}
	}
	return kept
}
