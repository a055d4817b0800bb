// Package session implements the interactive selection state machine: it
// consumes pointer and key events, maintains the drag selection, and decides
// when to repaint the overlay and when to apply geometry to the target
// window. It talks to X only through the Renderer and Dispatcher interfaces,
// so the whole machine runs under test without a server.
package session

import (
	"log"

	"gridsnap/internal/grid"
)

// motionIntervalMS caps motion handling at ~30 updates/second. Events closer
// together than this are discarded outright: no state change, no redraw.
const motionIntervalMS = 1000 / 30

// Renderer repaints the overlay for the current frame. The selection rect is
// overlay-local and cell-aligned; hover is the cell under the pointer.
type Renderer interface {
	Draw(selection grid.Rect, hover grid.Cell) error
}

// Dispatcher applies a geometry (root coordinates) to the target window.
type Dispatcher interface {
	Apply(r grid.Rect) error
}

// Session owns one selection gesture from start to finish or cancel. It is
// single-threaded: one event is handled at a time, and termination is
// observed by the caller via Running after each event.
type Session struct {
	rect       grid.Rect
	grid       grid.Grid
	sel        grid.Selection
	renderer   Renderer
	dispatcher Dispatcher
	logger     *log.Logger

	live       bool
	resetting  bool
	running    bool
	lastBox    grid.Box
	lastMotion uint32
}

// New creates a session for an overlay covering rect (root coordinates). The
// selection starts as a zero-size drag anchored at the pointer, translated
// into overlay-local coordinates.
func New(rect grid.Rect, g grid.Grid, pointerX, pointerY int, renderer Renderer, dispatcher Dispatcher, live bool, logger *log.Logger) *Session {
	return &Session{
		rect:       rect,
		grid:       g,
		sel:        grid.NewSelection(pointerX-rect.X, pointerY-rect.Y),
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     logger,
		live:       live,
	}
}

// Start marks the session running and paints the initial frame.
func (s *Session) Start() error {
	s.running = true
	s.lastBox = s.sel.BoundingCells(s.grid)
	return s.draw()
}

// Running reports whether the session is still consuming events. It turns
// false on finish or cancel; the event loop terminates on the next check.
func (s *Session) Running() bool {
	return s.running
}

// PrimaryRelease ends the gesture and applies the final selection, unless
// live mode already applied it on the last box change.
func (s *Session) PrimaryRelease() {
	s.running = false
	if !s.live {
		s.apply()
	}
}

// SecondaryPress re-anchors the fixed corner of the selection and enters
// resetting mode: while the secondary button is held, motion moves the
// anchor along with the pointer.
func (s *Session) SecondaryPress(x, y int) error {
	s.resetting = true
	s.sel.P1X = x
	s.sel.P1Y = y
	return s.step()
}

// SecondaryRelease leaves resetting mode.
func (s *Session) SecondaryRelease() {
	s.resetting = false
}

// Motion updates the tracking corner of the selection. t is the server
// timestamp of the event in milliseconds; events arriving within
// motionIntervalMS of the last accepted one are dropped.
func (s *Session) Motion(x, y int, t uint32) error {
	if t-s.lastMotion < motionIntervalMS {
		return nil
	}
	s.lastMotion = t
	s.sel.P2X = x
	s.sel.P2Y = y
	if s.resetting {
		s.sel.P1X = x
		s.sel.P1Y = y
	}
	return s.step()
}

// Escape cancels the session. The target window is left untouched.
func (s *Session) Escape() {
	s.running = false
}

// step recomputes the bounding box after an event and, if it changed,
// repaints and (in live mode) applies the new geometry.
func (s *Session) step() error {
	box := s.sel.BoundingCells(s.grid)
	if box == s.lastBox {
		return nil
	}
	s.lastBox = box
	if err := s.draw(); err != nil {
		return err
	}
	if s.live {
		s.apply()
	}
	return nil
}

func (s *Session) draw() error {
	hover := s.grid.LowerBound(s.sel.P2X, s.sel.P2Y)
	return s.renderer.Draw(s.sel.PixelRect(s.grid), hover)
}

// apply dispatches the selection to the target window in root coordinates.
// Dispatch failures are logged and otherwise ignored; the resize is a
// best-effort native call and a complaint from a misbehaving window must not
// abort the session.
func (s *Session) apply() {
	r := s.sel.PixelRect(s.grid)
	r.X += s.rect.X
	r.Y += s.rect.Y
	if err := s.dispatcher.Apply(r); err != nil {
		s.logger.Printf("resize failed: %v", err)
	}
}
