package seeds

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"boardscan/internal/colorspace"
)

func TestLoadOverrideRoundTrip(t *testing.T) {
	// Two identical pure-red swatches must average to pure red, and the
	// center must round-trip through Lab back to (1, 0, 0).
	centers, err := Load(map[string][]string{
		"red": {"#ff0000", "#ff0000"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r, g, b := colorspace.LabToRGB(centers[0])
	const tol = 1e-4
	if math.Abs(r-1) > tol || math.Abs(g) > tol || math.Abs(b) > tol {
		t.Errorf("red center round-trips to (%v, %v, %v), want (1, 0, 0)", r, g, b)
	}
}

func TestLoadOverrideKeepsOtherDefaults(t *testing.T) {
	defaults, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	overridden, err := Load(map[string][]string{
		"red": {"#ff0000"},
	})
	if err != nil {
		t.Fatalf("Load(override): %v", err)
	}

	if reflect.DeepEqual(overridden[0], defaults[0]) {
		t.Error("red center unchanged by override")
	}
	for i := 1; i < len(Names); i++ {
		if !reflect.DeepEqual(overridden[i], defaults[i]) {
			t.Errorf("category %q changed by unrelated override", Names[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		override map[string][]string
	}{
		{
			name:     "empty swatch list",
			override: map[string][]string{"green": {}},
		},
		{
			name:     "malformed hex",
			override: map[string][]string{"blue": {"#gg0000"}},
		},
		{
			name:     "truncated hex",
			override: map[string][]string{"white": {"#ff00"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.override)
			if !errors.Is(err, ErrConfig) {
				t.Errorf("got %v, want ErrConfig", err)
			}
		})
	}
}

func TestDefaultCachedAndOrdered(t *testing.T) {
	first := Default()
	second := Default()

	if len(first) != len(Names) {
		t.Fatalf("Default returned %d centers, want %d", len(first), len(Names))
	}
	// The cache must hand back the same computed set every time.
	if !reflect.DeepEqual(first, second) {
		t.Error("Default() differs between calls")
	}

	loaded, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if !reflect.DeepEqual(first, loaded) {
		t.Error("Default() differs from Load(nil)")
	}
}

func TestDefaultSwatchHues(t *testing.T) {
	// Sanity-check the curated tables: every swatch in a table should share
	// the table's dominant channel ordering (e.g. red swatches have R as
	// the strongest channel). Guards against typos in the hex tables.
	centers := Default()

	for i, name := range Names {
		r, g, b := colorspace.LabToRGB(centers[i])
		switch name {
		case "red":
			if r <= g || r <= b {
				t.Errorf("red center (%v, %v, %v) not red-dominant", r, g, b)
			}
		case "green":
			if g <= r || g <= b {
				t.Errorf("green center (%v, %v, %v) not green-dominant", r, g, b)
			}
		case "blue":
			if b <= r || b <= g {
				t.Errorf("blue center (%v, %v, %v) not blue-dominant", r, g, b)
			}
		case "yellow":
			if r <= b || g <= b {
				t.Errorf("yellow center (%v, %v, %v) not yellow-dominant", r, g, b)
			}
		case "white":
			if r < 0.7 || g < 0.7 || b < 0.7 {
				t.Errorf("white center (%v, %v, %v) too dark", r, g, b)
			}
		}
	}

	for name := range defaultSwatches {
		for _, s := range defaultSwatches[name] {
			if !strings.HasPrefix(s, "#") || len(s) != 7 {
				t.Errorf("swatch %q in %q is not #rrggbb", s, name)
			}
		}
	}
}
