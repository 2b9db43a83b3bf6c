package terrain

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Grid is an in-memory elevation raster with bilinear interpolation between
// cell centers. Rows are stored north to south, as read from an ESRI ASCII
// grid. Grid is immutable after construction and safe for concurrent reads.
type Grid struct {
	cols, rows int
	west       float64 // longitude of the west edge
	south      float64 // latitude of the south edge
	cellSize   float64 // degrees per cell
	noData     float64
	values     []float64 // row-major, northmost row first
}

// NewGrid builds a grid from row-major values (northmost row first).
func NewGrid(cols, rows int, west, south, cellSize, noData float64, values []float64) (*Grid, error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("grid must be at least 2x2, got %dx%d", cols, rows)
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("invalid cell size %f", cellSize)
	}
	if len(values) != cols*rows {
		return nil, fmt.Errorf("expected %d values, got %d", cols*rows, len(values))
	}

	return &Grid{
		cols:     cols,
		rows:     rows,
		west:     west,
		south:    south,
		cellSize: cellSize,
		noData:   noData,
		values:   values,
	}, nil
}

// ElevationAt implements ElevationModel with bilinear interpolation of the
// four surrounding cells. Coordinates outside the raster, and cells holding
// the no-data marker, report ok=false.
func (g *Grid) ElevationAt(latitude, longitude float64) (float64, bool) {
	// fractional cell coordinates, x east from the west edge, y south from
	// the north edge, measured between cell centers
	x := (longitude-g.west)/g.cellSize - 0.5
	y := (g.south+float64(g.rows)*g.cellSize-latitude)/g.cellSize - 0.5

	if x < -0.5 || y < -0.5 || x > float64(g.cols)-0.5 || y > float64(g.rows)-0.5 {
		return 0, false
	}

	x0 := clamp(int(math.Floor(x)), 0, g.cols-2)
	y0 := clamp(int(math.Floor(y)), 0, g.rows-2)

	fx := clampF(x-float64(x0), 0, 1)
	fy := clampF(y-float64(y0), 0, 1)

	v00 := g.at(x0, y0)
	v10 := g.at(x0+1, y0)
	v01 := g.at(x0, y0+1)
	v11 := g.at(x0+1, y0+1)
	for _, v := range []float64{v00, v10, v01, v11} {
		if v == g.noData {
			return 0, false
		}
	}

	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy, true
}

func (g *Grid) at(x, y int) float64 {
	return g.values[y*g.cols+x]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// ReadASCIIGrid parses an ESRI ASCII grid (.asc): a six-line header
// (ncols, nrows, xllcorner, yllcorner, cellsize, NODATA_value) followed by
// whitespace-separated elevation values, northmost row first.
func ReadASCIIGrid(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	header := map[string]float64{"nodata_value": math.Inf(-1)}
	var values []float64

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 2 {
			if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
				v, err := strconv.ParseFloat(fields[1], 64)
				if err != nil {
					return nil, fmt.Errorf("parsing header %q: %w", line, err)
				}
				header[strings.ToLower(fields[0])] = v
				continue
			}
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing elevation %q: %w", f, err)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}

	for _, key := range []string{"ncols", "nrows", "xllcorner", "yllcorner", "cellsize"} {
		if _, ok := header[key]; !ok {
			return nil, fmt.Errorf("grid header is missing %s", key)
		}
	}

	return NewGrid(
		int(header["ncols"]),
		int(header["nrows"]),
		header["xllcorner"],
		header["yllcorner"],
		header["cellsize"],
		header["nodata_value"],
		values,
	)
}

// LoadASCIIGrid reads an ESRI ASCII grid from disk.
func LoadASCIIGrid(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening grid file: %w", err)
	}
	defer f.Close()

	g, err := ReadASCIIGrid(f)
	if err != nil {
		return nil, fmt.Errorf("reading grid file %s: %w", path, err)
	}
	return g, nil
}
