// Package overlay renders the grid and the in-progress selection on a
// transparent, topmost X window. The window is override-redirect so the
// window manager never interferes with it, and it is typed as a desktop
// window so compositors keep it out of pagers and taskbars.
package overlay

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"gridsnap/internal/config"
	"gridsnap/internal/grid"
)

// Alpha levels for the three paint passes, matching the layering: selection
// fill underneath, hover cell above it, grid lines on top.
const (
	selectionAlpha = 0.3
	hoverAlpha     = 0.5
	lineAlpha      = 0.9
)

const gridLineWidth = 3

// Overlay is the on-screen grid surface. It owns an ARGB window, a colormap
// and a graphics context; Destroy releases all three.
type Overlay struct {
	xu       *xgbutil.XUtil
	win      xproto.Window
	gc       xproto.Gcontext
	colormap xproto.Colormap
	rect     grid.Rect
	grid     grid.Grid
	color    config.RGB
}

// New creates the overlay window covering rect (root coordinates), drawn for
// the given grid in the given color. Construction is all-or-nothing: on any
// failure every already-acquired resource is released and no window is left
// behind.
func New(xu *xgbutil.XUtil, rect grid.Rect, g grid.Grid, color config.RGB) (*Overlay, error) {
	conn := xu.Conn()

	visual, err := findARGBVisual(xu)
	if err != nil {
		return nil, err
	}

	colormap, err := xproto.NewColormapId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone, colormap, xu.RootWin(), visual).Check(); err != nil {
		return nil, fmt.Errorf("failed to create colormap: %w", err)
	}

	win, err := xproto.NewWindowId(conn)
	if err != nil {
		xproto.FreeColormap(conn, colormap)
		return nil, err
	}

	// A depth-32 window needs border pixel and colormap set explicitly or
	// the server answers BadMatch. Value order follows the mask bits.
	err = xproto.CreateWindowChecked(
		conn,
		32,
		win,
		xu.RootWin(),
		int16(rect.X), int16(rect.Y),
		uint16(rect.Width), uint16(rect.Height),
		0,
		xproto.WindowClassInputOutput,
		visual,
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwSaveUnder|xproto.CwEventMask|xproto.CwColormap,
		[]uint32{
			0, // back_pixel: fully transparent
			0, // border_pixel
			1, // override_redirect
			1, // save_under
			uint32(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion | xproto.EventMaskKeyPress),
			uint32(colormap),
		},
	).Check()
	if err != nil {
		xproto.FreeColormap(conn, colormap)
		return nil, fmt.Errorf("failed to create overlay window: %w", err)
	}

	icccm.WmClassSet(xu, win, &icccm.WmClass{Instance: "gridsnap", Class: "Gridsnap"})
	ewmh.WmWindowTypeSet(xu, win, []string{"_NET_WM_WINDOW_TYPE_DESKTOP"})

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.DestroyWindow(conn, win)
		xproto.FreeColormap(conn, colormap)
		return nil, err
	}
	if err := xproto.CreateGCChecked(conn, gc, xproto.Drawable(win), 0, nil).Check(); err != nil {
		xproto.DestroyWindow(conn, win)
		xproto.FreeColormap(conn, colormap)
		return nil, fmt.Errorf("failed to create graphics context: %w", err)
	}

	return &Overlay{
		xu:       xu,
		win:      win,
		gc:       gc,
		colormap: colormap,
		rect:     rect,
		grid:     g,
		color:    color,
	}, nil
}

// Window returns the overlay's window id, needed to route input events and
// the keyboard grab.
func (o *Overlay) Window() xproto.Window {
	return o.win
}

// Show maps the overlay raised above everything else.
func (o *Overlay) Show() {
	conn := o.xu.Conn()
	xproto.ConfigureWindow(conn, o.win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	xproto.MapWindow(conn, o.win)
}

// Draw repaints the overlay: selection fill, hover cell, grid lines. The
// selection rect is overlay-local and cell-aligned; hover is the cell under
// the pointer.
func (o *Overlay) Draw(selection grid.Rect, hover grid.Cell) error {
	conn := o.xu.Conn()

	// Clear to fully transparent.
	o.setFill(0)
	o.fillRect(grid.Rect{Width: o.rect.Width, Height: o.rect.Height})

	// Pending selection.
	o.setFill(argbPixel(o.color, selectionAlpha))
	o.fillRect(selection)

	// Cell under the pointer.
	hx, hy := o.grid.Position(hover)
	o.setFill(argbPixel(o.color.Lerp(config.RGB{Red: 0.9, Green: 0.9, Blue: 0.9}, 0.5), hoverAlpha))
	o.fillRect(grid.Rect{X: hx, Y: hy, Width: o.grid.CellWidth, Height: o.grid.CellHeight})

	// Grid lines.
	xproto.ChangeGC(conn, o.gc, xproto.GcForeground|xproto.GcLineWidth,
		[]uint32{argbPixel(o.color, lineAlpha), gridLineWidth})
	segments := make([]xproto.Segment, 0, o.grid.VerticalCells+o.grid.HorizontalCells+2)
	for i := 0; i <= o.grid.VerticalCells; i++ {
		x := int16(i * o.grid.CellWidth)
		segments = append(segments, xproto.Segment{X1: x, Y1: 0, X2: x, Y2: int16(o.rect.Height)})
	}
	for i := 0; i <= o.grid.HorizontalCells; i++ {
		y := int16(i * o.grid.CellHeight)
		segments = append(segments, xproto.Segment{X1: 0, Y1: y, X2: int16(o.rect.Width), Y2: y})
	}
	if err := xproto.PolySegmentChecked(conn, xproto.Drawable(o.win), o.gc, segments).Check(); err != nil {
		return fmt.Errorf("failed to draw grid lines: %w", err)
	}

	// Round trip so the frame is on screen before the next event is handled.
	o.xu.Conn().Sync()
	return nil
}

// Destroy releases the graphics context, colormap and window.
func (o *Overlay) Destroy() {
	conn := o.xu.Conn()
	if o.gc != 0 {
		xproto.FreeGC(conn, o.gc)
		o.gc = 0
	}
	if o.win != 0 {
		xproto.DestroyWindow(conn, o.win)
		o.win = 0
	}
	if o.colormap != 0 {
		xproto.FreeColormap(conn, o.colormap)
		o.colormap = 0
	}
}

func (o *Overlay) setFill(pixel uint32) {
	xproto.ChangeGC(o.xu.Conn(), o.gc, xproto.GcForeground, []uint32{pixel})
}

func (o *Overlay) fillRect(r grid.Rect) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	xproto.PolyFillRectangle(o.xu.Conn(), xproto.Drawable(o.win), o.gc, []xproto.Rectangle{{
		X:      int16(r.X),
		Y:      int16(r.Y),
		Width:  uint16(r.Width),
		Height: uint16(r.Height),
	}})
}

// findARGBVisual locates a 32-bit TrueColor visual on the default screen.
func findARGBVisual(xu *xgbutil.XUtil) (xproto.Visualid, error) {
	for _, depth := range xu.Screen().AllowedDepths {
		if depth.Depth != 32 {
			continue
		}
		for _, visual := range depth.Visuals {
			if visual.Class == xproto.VisualClassTrueColor {
				return visual.VisualId, nil
			}
		}
	}
	return 0, fmt.Errorf("failed to get RGBA visual")
}

// argbPixel converts a color and alpha to a premultiplied 32-bit ARGB pixel,
// as composited visuals expect.
func argbPixel(c config.RGB, alpha float64) uint32 {
	a := uint32(alpha * 255)
	r := uint32(c.Red * alpha * 255)
	g := uint32(c.Green * alpha * 255)
	b := uint32(c.Blue * alpha * 255)
	return a<<24 | r<<16 | g<<8 | b
}
