// Package render writes the heatmap as a self-contained HTML document.
package render

import (
	"encoding/json"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/npidgeon/Heatmap/internal/points"
)

// Options configures the heat layer and the base-map overlay.
type Options struct {
	// Outline is drawn under the heat layer as a GeoJSON overlay. Nil skips
	// the overlay.
	Outline geom.T

	// HeatRadius and HeatBlur are the leaflet.heat layer parameters.
	// Zero values fall back to the original defaults (8, 5).
	HeatRadius int
	HeatBlur   int
}

type templateData struct {
	Points     template.JS
	Outline    template.JS
	HeatRadius int
	HeatBlur   int
}

// Render writes the heatmap document for the given point set. An empty point
// set still renders a valid map with the boundary outline and no heat layer.
func Render(w io.Writer, pts []points.Coordinate, opts Options) error {
	heat := make([][2]float64, 0, len(pts))
	for _, p := range pts {
		heat = append(heat, [2]float64{p.Lat, p.Lng})
	}

	heatJSON, err := json.Marshal(heat)
	if err != nil {
		return eris.Wrap(err, "render: marshal points")
	}

	outlineJSON := []byte("null")
	if opts.Outline != nil {
		outlineJSON, err = geojson.Marshal(opts.Outline)
		if err != nil {
			return eris.Wrap(err, "render: marshal outline")
		}
	}

	data := templateData{
		Points:     template.JS(heatJSON),
		Outline:    template.JS(outlineJSON),
		HeatRadius: opts.HeatRadius,
		HeatBlur:   opts.HeatBlur,
	}
	if data.HeatRadius == 0 {
		data.HeatRadius = 8
	}
	if data.HeatBlur == 0 {
		data.HeatBlur = 5
	}

	tmpl, err := template.New("heatmap").Parse(heatmapHTML)
	if err != nil {
		return eris.Wrap(err, "render: parse template")
	}
	if err := tmpl.Execute(w, data); err != nil {
		return eris.Wrap(err, "render: execute template")
	}

	return nil
}

// WriteFile renders the heatmap to the given path, creating parent
// directories as needed.
func WriteFile(path string, pts []points.Coordinate, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "render: create output dir")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "render: create output file")
	}
	defer f.Close() //nolint:errcheck

	if err := Render(f, pts, opts); err != nil {
		return err
	}

	zap.L().Info("heatmap saved",
		zap.String("path", path),
		zap.Int("points", len(pts)),
	)

	return nil
}
