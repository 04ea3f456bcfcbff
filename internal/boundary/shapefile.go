// Package boundary loads the US nation shapefile and answers point-in-boundary
// queries for the jitter and pre-filter stages.
package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// readNationGeometry reads the first polygon record of a shapefile and
// converts it to a geom.MultiPolygon. The Census nation file carries a single
// record whose parts are the continental US plus AK, HI, and territories.
func readNationGeometry(shpPath string) (*geom.MultiPolygon, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			continue
		}
		return mp, nil
	}

	return nil, eris.Errorf("boundary: no polygon record in %s", shpPath)
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon,
// one polygon per part.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, 2*(end-start))
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}

		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// ShapefileInfo describes a shapefile's attribute table for the columns
// diagnostic command.
type ShapefileInfo struct {
	Fields   []string
	FirstRow []string
}

// Inspect returns the field names of a shapefile and the attribute values of
// its first record, for picking lat/long column configuration.
func Inspect(shpPath string) (*ShapefileInfo, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	info := &ShapefileInfo{Fields: make([]string, 0, len(fields))}
	for _, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		info.Fields = append(info.Fields, name)
	}

	if reader.Next() {
		info.FirstRow = make([]string, 0, len(fields))
		for i := range fields {
			val := strings.TrimRight(reader.Attribute(i), "\x00")
			info.FirstRow = append(info.FirstRow, strings.TrimSpace(val))
		}
	}

	return info, nil
}
