// Package boardscan classifies a grid of sampled board tile colors into the
// five tile categories (red, green, blue, yellow, white).
//
// The input is a row-major sequence of RGB samples, one per physical tile,
// produced by an external image-sampling step. Each sample is converted to
// CIE L*a*b*, clustered around seed centers derived from curated reference
// swatches, and labeled with the category of its nearest converged center.
//
// Usage as a library:
//
//	samples, width, _ := boardscan.SampleImageFile("board.png")
//	result, _ := boardscan.Classify(samples, width, boardscan.DefaultOptions())
//	for _, row := range result.Grid {
//		fmt.Println(row)
//	}
package boardscan

import (
	"fmt"
	"image"

	"boardscan/internal/cluster"
	"boardscan/internal/colorspace"
	"boardscan/internal/imaging"
	"boardscan/internal/seeds"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidInput marks malformed caller input: empty sample sets, a grid
// width that does not divide the sample count, and similar precondition
// violations. Check with errors.Is.
var ErrInvalidInput = colorspace.ErrInvalidInput

// ErrConfig marks missing or malformed seed swatch configuration.
// Check with errors.Is.
var ErrConfig = seeds.ErrConfig

// Tag identifies one of the five tile categories.
type Tag byte

// The five tags, in canonical order. The order matters: when a sample is
// exactly equidistant from two centers, the earlier tag wins.
const (
	Red    Tag = 'R'
	Green  Tag = 'G'
	Blue   Tag = 'B'
	Yellow Tag = 'Y'
	White  Tag = 'W'
)

// Tags lists the categories in canonical (tie-break) order, matching the
// seed center order.
var Tags = [5]Tag{Red, Green, Blue, Yellow, White}

func (t Tag) String() string { return string(t) }

// Grid is the classified board: rows of tags in the same positions as the
// input samples.
type Grid [][]Tag

// Row returns row y as a compact string like "RGWYB".
func (g Grid) Row(y int) string {
	b := make([]byte, len(g[y]))
	for x, t := range g[y] {
		b[x] = byte(t)
	}
	return string(b)
}

// Options configures classification.
type Options struct {
	// DeltaThreshold is the convergence threshold for the default stopping
	// policy: iteration ends once the summed squared center movement per
	// iteration drops below it. Zero means the package default. Ignored
	// when Progress is set.
	DeltaThreshold float64

	// MaxIterations caps the refinement loop regardless of the stopping
	// policy. Zero means the package default.
	MaxIterations int

	// Progress, when non-nil, replaces the default stopping policy. It is
	// called synchronously after each iteration's center update with the
	// iteration's delta; returning true stops clustering. It must not
	// block: the whole pipeline waits on it.
	Progress func(delta float64) bool

	// Swatches optionally overrides the built-in reference swatch tables
	// used to derive seed centers. Keys are category names ("red",
	// "green", "blue", "yellow", "white"); values are lists of #rrggbb
	// colors. Categories not present keep their built-in swatches.
	Swatches map[string][]string
}

// DefaultOptions returns Options with the package defaults filled in.
func DefaultOptions() Options {
	return Options{
		DeltaThreshold: cluster.DefaultDeltaThreshold,
		MaxIterations:  cluster.DefaultMaxIterations,
	}
}

// Result is the outcome of classifying one board.
type Result struct {
	// Grid holds one tag per input sample, reshaped to the board's rows.
	Grid Grid

	// Centers are the converged cluster centers expressed back in RGB for
	// display, in Tags order, clamped to the displayable range.
	Centers [5]colorful.Color

	// Iterations is the number of refinement iterations run.
	Iterations int

	// Converged is false when clustering stopped at MaxIterations instead
	// of the stopping policy.
	Converged bool
}

// Classify labels each RGB sample (components in [0, 1], row-major, width
// columns per row) with its tile category.
func Classify(samples []colorful.Color, width int, opts Options) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples: %w", ErrInvalidInput)
	}
	if width <= 0 || len(samples)%width != 0 {
		return nil, fmt.Errorf("grid width %d does not divide %d samples: %w",
			width, len(samples), ErrInvalidInput)
	}

	var seedCenters []colorspace.Point
	if opts.Swatches != nil {
		var err error
		seedCenters, err = seeds.Load(opts.Swatches)
		if err != nil {
			return nil, fmt.Errorf("loading seed centers: %w", err)
		}
	} else {
		seedCenters = seeds.Default()
	}

	points := make([]colorspace.Point, len(samples))
	for i, s := range samples {
		points[i] = colorspace.RGBToLab(s.R, s.G, s.B)
	}

	stop := opts.Progress
	if stop == nil && opts.DeltaThreshold != 0 {
		threshold := opts.DeltaThreshold
		stop = func(delta float64) bool { return delta < threshold }
	}

	res, err := cluster.Run(points, cluster.Config{
		Centers:       seedCenters,
		Stop:          stop,
		MaxIterations: opts.MaxIterations,
	})
	if err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}

	labels := make([]Tag, len(res.Labels))
	for i, lbl := range res.Labels {
		labels[i] = Tags[lbl]
	}
	grid, err := Reshape(labels, width)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Grid:       grid,
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}
	for i, c := range res.Centers {
		r, g, b := colorspace.LabToRGB(c)
		out.Centers[i] = colorful.Color{R: r, G: g, B: b}.Clamped()
	}
	return out, nil
}

// ClassifyImage samples an already-downscaled board image (one pixel per
// tile) and classifies it.
func ClassifyImage(img image.Image, opts Options) (*Result, error) {
	samples, width, err := imaging.SampleGrid(img)
	if err != nil {
		return nil, fmt.Errorf("sampling image: %w", err)
	}
	return Classify(samples, width, opts)
}

// ClassifyFile loads a board image from disk (PNG, JPEG, or WEBP),
// samples it, and classifies it.
func ClassifyFile(path string, opts Options) (*Result, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return ClassifyImage(img, opts)
}

// SampleImageFile loads an image and returns its row-major normalized RGB
// samples and grid width, for callers that want to run their own
// classification options per sample set.
func SampleImageFile(path string) ([]colorful.Color, int, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, 0, fmt.Errorf("loading image: %w", err)
	}
	return imaging.SampleGrid(img)
}

// Reshape cuts a flat row-major label sequence into rows of the given
// width. The width must be positive and evenly divide the label count.
func Reshape(labels []Tag, width int) (Grid, error) {
	if width <= 0 || len(labels)%width != 0 {
		return nil, fmt.Errorf("grid width %d does not divide %d labels: %w",
			width, len(labels), ErrInvalidInput)
	}
	grid := make(Grid, 0, len(labels)/width)
	for i := 0; i < len(labels); i += width {
		grid = append(grid, labels[i:i+width:i+width])
	}
	return grid, nil
}
