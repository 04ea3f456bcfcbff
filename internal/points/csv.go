package points

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Coordinate is one latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// ParseResult is the parsed point set plus the count of rows dropped for
// missing or non-numeric coordinates.
type ParseResult struct {
	Points  []Coordinate
	Dropped int
}

// ParseCSV reads the coordinate table. The first row must be a header
// containing latCol and longCol. Rows whose coordinate fields are missing,
// non-numeric, or outside valid lat/long ranges are dropped, not fatal.
func ParseCSV(r io.Reader, latCol, longCol string) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("points: empty csv")
	}
	if err != nil {
		return nil, eris.Wrap(err, "points: read header")
	}

	latIdx, lngIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case latCol:
			latIdx = i
		case longCol:
			lngIdx = i
		}
	}
	if latIdx < 0 {
		return nil, eris.Errorf("points: column %q not found in header", latCol)
	}
	if lngIdx < 0 {
		return nil, eris.Errorf("points: column %q not found in header", longCol)
	}

	res := &ParseResult{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "points: read row")
		}

		if latIdx >= len(record) || lngIdx >= len(record) {
			res.Dropped++
			continue
		}

		lat, latErr := strconv.ParseFloat(strings.TrimSpace(record[latIdx]), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(record[lngIdx]), 64)
		if latErr != nil || lngErr != nil {
			res.Dropped++
			continue
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			res.Dropped++
			continue
		}

		res.Points = append(res.Points, Coordinate{Lat: lat, Lng: lng})
	}

	return res, nil
}

// Load opens the source and parses it in one pass.
func Load(ctx context.Context, src Source, latCol, longCol string) (*ParseResult, error) {
	body, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	res, err := ParseCSV(body, latCol, longCol)
	if err != nil {
		return nil, err
	}

	zap.L().Info("loaded source records",
		zap.Int("points", len(res.Points)),
		zap.Int("dropped", res.Dropped),
	)

	return res, nil
}
