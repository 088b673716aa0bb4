// Package seeds produces the initial cluster centers from curated reference
// swatches: small hand-picked tables of hex colors sampled from prior board
// photographs, one table per category. Each category's swatches are averaged
// in RGB and the mean is converted to L*a*b* once; the result seeds the
// clustering engine.
package seeds

import (
	"errors"
	"fmt"
	"sync"

	"boardscan/internal/colorspace"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrConfig marks missing or malformed seed swatch data. Check with
// errors.Is.
var ErrConfig = errors.New("invalid seed configuration")

// Names lists the swatch table keys in canonical category order. This order
// is load-bearing: it fixes both the center order handed to the clustering
// engine and therefore the tie-break preference between equidistant centers.
var Names = [5]string{"red", "green", "blue", "yellow", "white"}

// defaultSwatches are the curated reference colors, picked by hand from
// photographs of real boards under typical lighting. Board tiles photograph
// darker and less saturated than their nominal colors, which is why none of
// these are pure primaries.
var defaultSwatches = map[string][]string{
	"red": {
		"#b8383b", "#c24a41", "#a93232", "#d0554a", "#9e2f33",
	},
	"green": {
		"#3f8f4a", "#4d9c53", "#35803f", "#5aa55e", "#468a49",
	},
	"blue": {
		"#3658a8", "#2f4d96", "#4263b5", "#28458c", "#3b5dad",
	},
	"yellow": {
		"#d9c24b", "#e0cc55", "#ceb83f", "#e6d465", "#d4bd48",
	},
	"white": {
		"#d8d4c8", "#e2dfd6", "#cfccc0", "#e8e6de", "#dcd9cf",
	},
}

// Load computes the five seed centers in canonical order, in L*a*b* space.
// Entries in override replace the default swatch table for the named
// category; categories absent from override keep their defaults. A category
// whose resolved swatch list is missing or empty, or that contains a
// malformed hex color, fails the load.
func Load(override map[string][]string) ([]colorspace.Point, error) {
	centers := make([]colorspace.Point, 0, len(Names))
	for _, name := range Names {
		swatches, ok := override[name]
		if !ok {
			swatches, ok = defaultSwatches[name]
		}
		if !ok || len(swatches) == 0 {
			return nil, fmt.Errorf("no swatches for category %q: %w", name, ErrConfig)
		}

		center, err := categoryCenter(swatches)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		centers = append(centers, center)
	}
	return centers, nil
}

var (
	defaultOnce    sync.Once
	defaultCenters []colorspace.Point
)

// Default returns the seed centers for the built-in swatch tables. The
// computation runs at most once per process; later calls return the cached
// result. Callers must not mutate the returned points.
func Default() []colorspace.Point {
	defaultOnce.Do(func() {
		centers, err := Load(nil)
		if err != nil {
			// The built-in tables are compile-time constants; a parse
			// failure here is a programming error.
			panic(fmt.Sprintf("seeds: built-in swatches: %v", err))
		}
		defaultCenters = centers
	})
	return defaultCenters
}

// categoryCenter averages the swatches in RGB and converts the mean to
// L*a*b*. Averaging happens in RGB, before the one conversion, matching how
// the reference swatches were originally curated.
func categoryCenter(swatches []string) (colorspace.Point, error) {
	rgbs := make([]colorspace.Point, 0, len(swatches))
	for _, s := range swatches {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("swatch %q: %w", s, ErrConfig)
		}
		rgbs = append(rgbs, colorspace.Point{c.R, c.G, c.B})
	}

	mean, err := colorspace.Mean(rgbs)
	if err != nil {
		return nil, fmt.Errorf("averaging swatches: %w", err)
	}
	return colorspace.RGBToLab(mean[0], mean[1], mean[2]), nil
}
