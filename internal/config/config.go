// Package config supplies gridsnap's defaults file and the parsing of the
// list-valued CLI options. The session core receives already-typed values;
// everything here fails fast with a field-naming error before any X window
// exists.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"gridsnap/internal/grid"
)

// DefaultColor is the selection color used when neither the config file nor
// the -color flag provides one.
const DefaultColor = "0.898,0.513,0.964"

// DefaultMethod is the resize method used when none is configured.
const DefaultMethod = "configure"

// RGB is a color with components in [0.0, 1.0].
type RGB struct {
	Red   float64
	Green float64
	Blue  float64
}

// Lerp linearly interpolates toward other by weight w.
func (c RGB) Lerp(other RGB, w float64) RGB {
	return RGB{
		Red:   c.Red + w*(other.Red-c.Red),
		Green: c.Green + w*(other.Green-c.Green),
		Blue:  c.Blue + w*(other.Blue-c.Blue),
	}
}

// Options is the fully validated configuration for one gridsnap run.
type Options struct {
	// Window is the target window spec: a numeric X window id (decimal or
	// 0x-prefixed hex) or the sentinel ":ACTIVE:".
	Window string
	// Rect is the requested overlay geometry in root coordinates. HaveRect is
	// false when no geometry was configured and the active monitor's work
	// area should be used instead.
	Rect     grid.Rect
	HaveRect bool

	VerticalCells   int
	HorizontalCells int

	Color  RGB
	Live   bool
	Method string
}

// ParseDimensions parses "x,y,width,height".
func ParseDimensions(s string) (grid.Rect, error) {
	parts, err := splitInts(s, 4)
	if err != nil {
		return grid.Rect{}, fmt.Errorf("invalid dimensions %q, should be x,y,width,height: %w", s, err)
	}
	r := grid.Rect{X: parts[0], Y: parts[1], Width: parts[2], Height: parts[3]}
	if r.Width < 1 || r.Height < 1 {
		return grid.Rect{}, fmt.Errorf("invalid dimensions %q: width and height must be positive", s)
	}
	return r, nil
}

// ParseCells parses "vertical,horizontal".
func ParseCells(s string) (vertical, horizontal int, err error) {
	parts, err := splitInts(s, 2)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid size %q, should be vertical,horizontal: %w", s, err)
	}
	if parts[0] < 1 || parts[1] < 1 {
		return 0, 0, fmt.Errorf("invalid grid size %q: cell counts must be positive", s)
	}
	return parts[0], parts[1], nil
}

// ParseColor parses "red,green,blue" with components in [0.0, 1.0].
func ParseColor(s string) (RGB, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return RGB{}, fmt.Errorf("invalid color %q, should be red,green,blue", s)
	}
	var components [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if v < 0.0 || v > 1.0 {
			return RGB{}, fmt.Errorf("invalid color %q: components must be between 0.0 and 1.0", s)
		}
		components[i] = v
	}
	return RGB{Red: components[0], Green: components[1], Blue: components[2]}, nil
}

// ParseWindowID parses a numeric window spec (decimal or 0x-prefixed hex).
// The ":ACTIVE:" sentinel is resolved by the caller before this is reached.
func ParseWindowID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return uint32(id), nil
}

func splitInts(s string, count int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != count {
		return nil, fmt.Errorf("expected %d comma-separated values, got %d", count, len(fields))
	}
	out := make([]int, count)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
