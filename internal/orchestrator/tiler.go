// Package orchestrator implements the tile orchestrator (spec.md §4.I):
// splitting a full elevation grid into an N x N tile grid, sharing a single
// global_min_elev and bbox discretisation across every tile so adjacent
// tiles stitch seamlessly, then packaging the resulting STLs into one ZIP.
package orchestrator

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/paulreginaphoto/swisstl/internal/generator"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/stlio"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
	"github.com/paulreginaphoto/swisstl/internal/worker"
)

// tilePoolWorkers bounds how many tiles generate concurrently: tiles are
// independent once the shared elevation grid and global_min_elev are fixed,
// unlike the strictly sequential fetch-then-generate order within a single
// tile (spec.md §5).
const tilePoolWorkers = 4

// GenerateTiled slices elevation into gridSplit x gridSplit tiles, runs the
// generator once per tile sharing a single global_min_elev reference, and
// packages the resulting STLs into a ZIP at outputDir/jobID.zip. A failure
// in any tile fails the whole job; no partial ZIP is emitted (spec.md
// §4.I).
//
// Buildings and roads from opts are filtered to each tile's projected
// sub-bbox here; the clip polygon is passed to every tile unchanged. Slicing
// already-projected data by an axis-aligned bbox is a pure geometric
// operation the core can perform directly — re-invoking the building/road
// fetchers per tile's reprojected WGS84 bbox is the job surface's concern,
// not the core's (see DESIGN.md).
func GenerateTiled(elevation terrain.Grid, jobID string, gridSplit int, opts generator.Options, outputDir string) (string, error) {
	if gridSplit < 2 {
		return "", fmt.Errorf("grid_split must be >= 2, got %d", gridSplit)
	}
	if opts.ProjectedBBox == nil {
		return "", fmt.Errorf("tiled generation requires a projected_bbox")
	}

	full := elevation.Normalize()
	globalMinElev, _ := full.Min()

	rows, cols := full.Rows, full.Cols
	tileRows := rows / gridSplit
	tileCols := cols / gridSplit
	if tileRows < 1 || tileCols < 1 {
		return "", fmt.Errorf("grid too small to split into %dx%d tiles", gridSplit, gridSplit)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	bbox := *opts.ProjectedBBox
	gen := &tileGenerator{
		full: full, bbox: bbox, gridSplit: gridSplit,
		tileRows: tileRows, tileCols: tileCols,
		globalMinElev: globalMinElev, opts: opts,
		jobID: jobID, outputDir: outputDir,
	}

	tasks := make([]worker.Task, 0, gridSplit*gridSplit)
	for r := 0; r < gridSplit; r++ {
		for c := 0; c < gridSplit; c++ {
			tasks = append(tasks, worker.Task{Row: r, Col: c})
		}
	}

	tracker := worker.NewProgress(len(tasks), false)
	pool := worker.New(worker.Config{
		Workers:   tilePoolWorkers,
		Generator: gen,
		OnProgress: func(completed, total, failed int) {
			tracker.Update(completed, total, failed)
			if opts.Progress != nil {
				opts.Progress(100*completed/total, tracker.Summary())
			}
		},
	})
	results := pool.Run(context.Background(), tasks)
	tracker.Done()

	files := make([]tileFile, 0, len(results))
	defer func() {
		for _, t := range files {
			os.Remove(t.path)
		}
	}()

	for _, res := range results {
		if res.Err != nil {
			return "", fmt.Errorf("tile (%d,%d): %w", res.Task.Row, res.Task.Col, res.Err)
		}
		files = append(files, tileFile{row: res.Task.Row, col: res.Task.Col, path: res.Path})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].row != files[j].row {
			return files[i].row < files[j].row
		}
		return files[i].col < files[j].col
	})

	zipPath := filepath.Join(outputDir, jobID+".zip")
	if err := packageZip(zipPath, files); err != nil {
		return "", fmt.Errorf("packaging tiles: %w", err)
	}
	return zipPath, nil
}

// tileGenerator adapts one tile's slice-and-generate work to
// worker.Generator, so the pool can run independent tiles concurrently.
type tileGenerator struct {
	full               terrain.Grid
	bbox               geo.ProjectedBBox
	gridSplit          int
	tileRows, tileCols int
	globalMinElev      float64
	opts               generator.Options
	jobID, outputDir   string
}

func (g *tileGenerator) GenerateTile(_ context.Context, r, c int) (string, error) {
	rows, cols := g.full.Rows, g.full.Cols

	rowStart := r * g.tileRows
	rowEnd := rowStart + g.tileRows
	if r == g.gridSplit-1 {
		rowEnd = rows
	} else {
		rowEnd++ // overlap one row with the next tile so the shared edge's vertices coincide exactly
	}
	colStart := c * g.tileCols
	colEnd := colStart + g.tileCols
	if c == g.gridSplit-1 {
		colEnd = cols
	} else {
		colEnd++ // overlap one column with the next tile so the shared edge's vertices coincide exactly
	}

	subGrid := sliceGrid(g.full, rowStart, rowEnd, colStart, colEnd)
	subBBox := sliceBBox(g.bbox, rows, cols, rowStart, rowEnd, colStart, colEnd)

	subOpts := g.opts
	subOpts.ProjectedBBox = &subBBox
	subOpts.ModelWidthMM = g.opts.ModelWidthMM * subBBox.Width() / g.bbox.Width()
	minElev := g.globalMinElev
	subOpts.GlobalMinElev = &minElev
	subOpts.Buildings = filterBuildings(g.opts.Buildings, subBBox)
	subOpts.RoadPolygons = filterRoads(g.opts.RoadPolygons, subBBox)

	tileJobID := fmt.Sprintf("%s_R%d_C%d", g.jobID, r, c)
	soup, _, err := generator.GenerateSTL(subGrid, tileJobID, subOpts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(g.outputDir, fmt.Sprintf("%s_tile_R%d_C%d.stl", g.jobID, r, c))
	if err := stlio.WriteBinaryFile(path, soup); err != nil {
		return "", err
	}
	return path, nil
}

func sliceGrid(g terrain.Grid, r0, r1, c0, c1 int) terrain.Grid {
	out := terrain.NewGrid(r1-r0, c1-c0)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			out.Set(r-r0, c-c0, g.At(r, c))
		}
	}
	return out
}

// sliceBBox computes the sub-bbox for a tile using the same
// i/(n-1)-fraction linspace formula the elevation grid's vertex sampling
// uses, so adjacent tiles' shared-edge vertices map to identical projected
// coordinates (spec.md §5 ordering guarantee, scenario S6).
func sliceBBox(full geo.ProjectedBBox, rows, cols, r0, r1, c0, c1 int) geo.ProjectedBBox {
	eAt := func(c int) float64 { return full.MinE + float64(c)/float64(cols-1)*full.Width() }
	nAt := func(r int) float64 { return full.MaxN - float64(r)/float64(rows-1)*full.Height() }

	return geo.ProjectedBBox{
		MinE: eAt(c0),
		MaxE: eAt(c1 - 1),
		MinN: nAt(r1 - 1),
		MaxN: nAt(r0),
	}
}

// tileFile records one tile's temporary STL path before ZIP packaging.
type tileFile struct {
	row, col int
	path     string
}

func packageZip(zipPath string, files []tileFile) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, f := range files {
		name := fmt.Sprintf("tile_R%d_C%d.stl", f.row, f.col)
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		in, err := os.Open(f.path)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(w, in)
		in.Close()
		if copyErr != nil {
			return copyErr
		}
	}
	return zw.Close()
}
