package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paulreginaphoto/swisstl/internal/generator"
	"github.com/paulreginaphoto/swisstl/internal/geo"
	"github.com/paulreginaphoto/swisstl/internal/stlio"
	"github.com/paulreginaphoto/swisstl/internal/terrain"
)

// elevationInput is the on-disk shape an elevation grid is read from: a
// dense row-major JSON array plus its projected bbox. Terrain/building/road
// fetching is an out-of-scope collaborator (spec.md §1); this lets the core
// be driven directly from already-fetched data.
type elevationInput struct {
	Rows          int       `json:"rows"`
	Cols          int       `json:"cols"`
	Values        []float32 `json:"values"`
	ProjectedBBox struct {
		MinE, MinN, MaxE, MaxN float64
	} `json:"projected_bbox"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble a single STL from a pre-fetched elevation grid",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().String("elevation", "", "path to a JSON elevation grid (rows, cols, values, projected_bbox)")
	generateCmd.Flags().Float64("model-width-mm", 200, "target model width in mm, in [50,500]")
	generateCmd.Flags().Float64("z-exaggeration", 1.5, "vertical exaggeration factor, in [0.5,5]")
	generateCmd.Flags().Float64("base-height-mm", 3, "base plate thickness in mm, in [0.5,20]")
	generateCmd.Flags().String("out", "model.stl", "output STL path")
	_ = generateCmd.MarkFlagRequired("elevation")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	elevationPath, _ := cmd.Flags().GetString("elevation")
	modelWidthMM, _ := cmd.Flags().GetFloat64("model-width-mm")
	zExaggeration, _ := cmd.Flags().GetFloat64("z-exaggeration")
	baseHeightMM, _ := cmd.Flags().GetFloat64("base-height-mm")
	outPath, _ := cmd.Flags().GetString("out")

	raw, err := os.ReadFile(elevationPath)
	if err != nil {
		return fmt.Errorf("reading elevation input: %w", err)
	}
	var in elevationInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parsing elevation input: %w", err)
	}

	grid := terrain.Grid{Rows: in.Rows, Cols: in.Cols, Values: in.Values}
	bbox := geo.ProjectedBBox{MinE: in.ProjectedBBox.MinE, MinN: in.ProjectedBBox.MinN, MaxE: in.ProjectedBBox.MaxE, MaxN: in.ProjectedBBox.MaxN}

	opts := generator.Options{
		ModelWidthMM:  modelWidthMM,
		ZExaggeration: zExaggeration,
		BaseHeightMM:  baseHeightMM,
		ProjectedBBox: &bbox,
		Progress: func(percent int, message string) {
			if viper.GetBool("verbose") {
				logger.Info("progress", "percent", percent, "message", message)
			}
		},
	}

	soup, integrity, err := generator.GenerateSTL(grid, "cli", opts)
	if err != nil {
		return fmt.Errorf("generating STL: %w", err)
	}
	logger.Info("mesh assembled", "faces", integrity.FaceCount, "boundary_edges", integrity.BoundaryEdges, "watertight", integrity.Watertight)

	if err := stlio.WriteBinaryFile(outPath, soup); err != nil {
		return fmt.Errorf("writing STL: %w", err)
	}
	logger.Info("wrote STL", "path", outPath)
	return nil
}
