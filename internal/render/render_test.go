package render

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/npidgeon/Heatmap/internal/points"
)

var heatPointsRe = regexp.MustCompile(`const heatPoints = (\[[^;]*\]);`)

func extractHeatPoints(t *testing.T, html string) [][]float64 {
	t.Helper()
	m := heatPointsRe.FindStringSubmatch(html)
	require.Len(t, m, 2, "heatPoints assignment not found in output")

	var pts [][]float64
	require.NoError(t, json.Unmarshal([]byte(m[1]), &pts))
	return pts
}

func TestRender_EmbedsExactPoints(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []points.Coordinate{{Lat: 40.0, Lng: -75.0}}, Options{})
	require.NoError(t, err)

	pts := extractHeatPoints(t, buf.String())
	require.Len(t, pts, 1)
	require.Len(t, pts[0], 2)
	assert.Equal(t, 40.0, pts[0][0])
	assert.Equal(t, -75.0, pts[0][1])
}

func TestRender_EmptyPointSet(t *testing.T) {
	outline := geom.NewPolygon(geom.XY)
	require.NoError(t, outline.Push(geom.NewLinearRingFlat(geom.XY, []float64{
		-125, 24, -125, 50, -66, 50, -66, 24, -125, 24,
	})))

	var buf bytes.Buffer
	err := Render(&buf, nil, Options{Outline: outline})
	require.NoError(t, err)

	html := buf.String()
	assert.Empty(t, extractHeatPoints(t, html))
	// Boundary layer still present.
	assert.Contains(t, html, `"type":"Polygon"`)
}

func TestRender_NoOutline(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []points.Coordinate{{Lat: 40, Lng: -75}}, Options{})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "const boundaryOutline = null;")
}

func TestRender_HeatDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, Options{}))

	html := buf.String()
	assert.Contains(t, html, "radius: 8")
	assert.Contains(t, html, "blur: 5")
}

func TestRender_HeatOverrides(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil, Options{HeatRadius: 12, HeatBlur: 9}))

	html := buf.String()
	assert.Contains(t, html, "radius: 12")
	assert.Contains(t, html, "blur: 9")
}

func TestRender_MultiplePointsInOrder(t *testing.T) {
	in := []points.Coordinate{
		{Lat: 40.0, Lng: -75.0},
		{Lat: 34.05, Lng: -118.24},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, in, Options{}))

	pts := extractHeatPoints(t, buf.String())
	require.Len(t, pts, 2)
	assert.Equal(t, 40.0, pts[0][0])
	assert.InDelta(t, -118.24, pts[1][1], 1e-9)
}

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "public", "anonymous_heatmap.html")

	err := WriteFile(path, []points.Coordinate{{Lat: 40, Lng: -75}}, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "leaflet-heat.js")
}
