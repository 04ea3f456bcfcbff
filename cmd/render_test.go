//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npidgeon/Heatmap/internal/config"
	"github.com/npidgeon/Heatmap/internal/jitter"
	"github.com/npidgeon/Heatmap/internal/points"
)

// writeNationShapefile writes a one-record polygon shapefile covering the
// continental-US bounding box plus a small second part.
func writeNationShapefile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "nation.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	poly := &shp.Polygon{
		Box:       shp.Box{MinX: -160, MinY: 18, MaxX: -66, MaxY: 50},
		NumParts:  2,
		NumPoints: 10,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			{X: -125, Y: 24},
			{X: -125, Y: 50},
			{X: -66, Y: 50},
			{X: -66, Y: 24},
			{X: -125, Y: 24},
			{X: -160, Y: 18},
			{X: -160, Y: 23},
			{X: -154, Y: 23},
			{X: -154, Y: 18},
			{X: -160, Y: 18},
		},
	}
	w.SetFields([]shp.Field{shp.StringField("NAME", 25)})
	w.Write(poly)
	require.NoError(t, w.WriteAttribute(0, 0, "United States"))
	w.Close()

	return path
}

func testConfig(t *testing.T, dir, csv string, radius float64) *config.Config {
	t.Helper()
	csvPath := filepath.Join(dir, "members.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	return &config.Config{
		Source: config.SourceConfig{
			CSVPath:    csvPath,
			LatColumn:  "lat",
			LongColumn: "long",
		},
		Privacy: config.PrivacyConfig{RadiusMeters: radius},
		Boundary: config.BoundaryConfig{
			ShapefilePath: writeNationShapefile(t, dir),
			MarginMeters:  5000,
		},
		Map: config.MapConfig{
			OutputPath: filepath.Join(dir, "public", "anonymous_heatmap.html"),
			HeatRadius: 8,
			HeatBlur:   5,
		},
	}
}

var heatPointsRe = regexp.MustCompile(`const heatPoints = (\[[^;]*\]);`)

func readHeatPoints(t *testing.T, path string) [][]float64 {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	m := heatPointsRe.FindStringSubmatch(string(data))
	require.Len(t, m, 2)

	var pts [][]float64
	require.NoError(t, json.Unmarshal([]byte(m[1]), &pts))
	return pts
}

func TestRunRender_ZeroRadiusExactPassthrough(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir, "lat,long\n40.0,-75.0\n", 0)

	err := runRender(context.Background(), c, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	pts := readHeatPoints(t, c.Map.OutputPath)
	require.Len(t, pts, 1)
	assert.Equal(t, 40.0, pts[0][0])
	assert.Equal(t, -75.0, pts[0][1])
}

func TestRunRender_AllRowsInvalid(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir, "lat,long\nabc,def\n,\n", 500)

	err := runRender(context.Background(), c, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	// Map renders with the boundary layer and no heat points.
	assert.Empty(t, readHeatPoints(t, c.Map.OutputPath))

	data, err := os.ReadFile(c.Map.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"Polygon"`)
}

func TestRunRender_JitterStaysWithinRadius(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir, "lat,long\n40.0,-75.0\n34.05,-118.24\n", 500)

	err := runRender(context.Background(), c, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	pts := readHeatPoints(t, c.Map.OutputPath)
	require.Len(t, pts, 2)

	orig := []points.Coordinate{{Lat: 40.0, Lng: -75.0}, {Lat: 34.05, Lng: -118.24}}
	for i, p := range pts {
		d := jitter.Distance(orig[i].Lat, orig[i].Lng, p[0], p[1])
		assert.LessOrEqual(t, d, 500*1.000001)
	}
}

func TestRunRender_SeededRunsAreIdentical(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	csv := "lat,long\n40.0,-75.0\n41.88,-87.63\n"

	cA := testConfig(t, dirA, csv, 500)
	cB := testConfig(t, dirB, csv, 500)

	require.NoError(t, runRender(context.Background(), cA, rand.New(rand.NewSource(7))))
	require.NoError(t, runRender(context.Background(), cB, rand.New(rand.NewSource(7))))

	assert.Equal(t, readHeatPoints(t, cA.Map.OutputPath), readHeatPoints(t, cB.Map.OutputPath))
}

func TestRunRender_DiscardsPointsOutsideBoundary(t *testing.T) {
	dir := t.TempDir()
	// London is outside the nation polygon and must not reach the output.
	c := testConfig(t, dir, "lat,long\n40.0,-75.0\n51.5,-0.12\n", 0)

	err := runRender(context.Background(), c, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	pts := readHeatPoints(t, c.Map.OutputPath)
	require.Len(t, pts, 1)
	assert.Equal(t, 40.0, pts[0][0])
}

func TestRunRender_MissingShapefileAndNoURL(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(t, dir, "lat,long\n40.0,-75.0\n", 0)
	c.Boundary.ShapefilePath = filepath.Join(dir, "missing.shp")
	c.Boundary.DownloadURL = "http://127.0.0.1:0/nope.zip"
	c.Boundary.CacheDir = dir

	err := runRender(context.Background(), c, rand.New(rand.NewSource(1)))
	require.Error(t, err)
}

func TestSourceFromConfig(t *testing.T) {
	c := &config.Config{Source: config.SourceConfig{CSVPath: "x.csv"}}
	src, err := sourceFromConfig(context.Background(), c)
	require.NoError(t, err)
	assert.IsType(t, points.FileSource{}, src)

	// No CSV path and no AWS credentials: S3 source construction fails.
	c = &config.Config{}
	_, err = sourceFromConfig(context.Background(), c)
	require.Error(t, err)
}

func TestFilterWithin(t *testing.T) {
	pts := []points.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}
	kept := filterWithin(pts, func(lat, _ float64) bool { return lat != 2 })

	require.Len(t, kept, 2)
	assert.Equal(t, 1.0, kept[0].Lat)
	assert.Equal(t, 3.0, kept[1].Lat)
}

func TestRenderCmd_Metadata(t *testing.T) {
	assert.Equal(t, "render", renderCmd.Use)
	assert.NotEmpty(t, renderCmd.Short)

	for _, name := range []string{"csv", "out", "lat-col", "long-col", "radius", "seed"} {
		require.NotNil(t, renderCmd.Flags().Lookup(name), "flag %s", name)
	}
}
