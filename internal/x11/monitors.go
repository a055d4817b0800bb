package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil/ewmh"

	"gridsnap/internal/grid"
)

// Monitor represents a physical display.
type Monitor struct {
	ID     int
	Name   string
	Bounds grid.Rect
}

// Monitors retrieves all active monitors using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: grid.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}
	return monitors, nil
}

// PointerMonitor returns the work area of the monitor under the pointer,
// used as the overlay geometry when none is configured. The raw monitor
// bounds are intersected with the EWMH work area so panels and docks stay
// uncovered.
func (c *Connection) PointerMonitor() (grid.Rect, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return grid.Rect{}, err
	}

	px, py, err := c.PointerPosition()
	if err != nil {
		return grid.Rect{}, err
	}

	bounds := monitors[0].Bounds
	for _, mon := range monitors {
		b := mon.Bounds
		if px >= b.X && px < b.X+b.Width && py >= b.Y && py < b.Y+b.Height {
			bounds = b
			break
		}
	}

	return c.clampToWorkArea(bounds), nil
}

// clampToWorkArea intersects the monitor bounds with the current desktop's
// work area. If the work area is unavailable or disjoint, the bounds are
// returned unchanged.
func (c *Connection) clampToWorkArea(bounds grid.Rect) grid.Rect {
	workAreas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workAreas) == 0 {
		return bounds
	}

	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workAreas) {
		desktop = int(current)
	}
	wa := workAreas[desktop]

	x1 := max(bounds.X, int(wa.X))
	y1 := max(bounds.Y, int(wa.Y))
	x2 := min(bounds.X+bounds.Width, int(wa.X)+int(wa.Width))
	y2 := min(bounds.Y+bounds.Height, int(wa.Y)+int(wa.Height))

	if x2 <= x1 || y2 <= y1 {
		return bounds
	}
	return grid.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
