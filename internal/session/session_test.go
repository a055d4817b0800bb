package session

import (
	"errors"
	"io"
	"log"
	"testing"

	"gridsnap/internal/grid"
)

type fakeRenderer struct {
	draws    int
	lastSel  grid.Rect
	lastCell grid.Cell
	err      error
}

func (f *fakeRenderer) Draw(selection grid.Rect, hover grid.Cell) error {
	f.draws++
	f.lastSel = selection
	f.lastCell = hover
	return f.err
}

type fakeDispatcher struct {
	applies int
	last    grid.Rect
}

func (f *fakeDispatcher) Apply(r grid.Rect) error {
	f.applies++
	f.last = r
	return nil
}

func newTestSession(t *testing.T, live bool) (*Session, *fakeRenderer, *fakeDispatcher) {
	t.Helper()
	// Overlay 800x600 at root (100,50), grid 4,3: 200x200 cells.
	g := grid.New(800, 600, 4, 3)
	r := &fakeRenderer{}
	d := &fakeDispatcher{}
	s := New(grid.Rect{X: 100, Y: 50, Width: 800, Height: 600}, g, 150, 100, r, d, live, log.New(io.Discard, "", 0))
	if err := s.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return s, r, d
}

func TestStart_PaintsInitialFrame(t *testing.T) {
	s, r, _ := newTestSession(t, false)
	if !s.Running() {
		t.Fatalf("expected session to be running")
	}
	if r.draws != 1 {
		t.Fatalf("expected 1 initial draw, got %d", r.draws)
	}
	// Pointer at root (150,100) = local (50,50): the degenerate selection
	// covers exactly the first cell.
	if r.lastSel != (grid.Rect{X: 0, Y: 0, Width: 200, Height: 200}) {
		t.Fatalf("unexpected initial selection %+v", r.lastSel)
	}
	if r.lastCell != (grid.Cell{X: 0, Y: 0}) {
		t.Fatalf("unexpected hover cell %+v", r.lastCell)
	}
}

func TestMotion_Debounce(t *testing.T) {
	s, r, _ := newTestSession(t, false)

	if err := s.Motion(450, 250, 1000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	drawsAfterFirst := r.draws

	// 10ms later: discarded entirely, no state change.
	if err := s.Motion(700, 500, 1010); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if s.sel.P2X != 450 || s.sel.P2Y != 250 {
		t.Fatalf("debounced motion changed p2 to (%d,%d)", s.sel.P2X, s.sel.P2Y)
	}
	if r.draws != drawsAfterFirst {
		t.Fatalf("debounced motion caused a redraw")
	}

	// Exactly one interval later: accepted.
	if err := s.Motion(700, 500, 1000+motionIntervalMS); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if s.sel.P2X != 700 || s.sel.P2Y != 500 {
		t.Fatalf("expected p2=(700,500), got (%d,%d)", s.sel.P2X, s.sel.P2Y)
	}
}

func TestMotion_RedrawOnlyOnBoxChange(t *testing.T) {
	s, r, _ := newTestSession(t, false)

	// Move within the starting cell: box unchanged, no redraw.
	if err := s.Motion(60, 60, 1000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if r.draws != 1 {
		t.Fatalf("expected no redraw for unchanged box, got %d draws", r.draws)
	}

	// Cross into the next cell: box changed, one redraw.
	if err := s.Motion(250, 60, 2000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if r.draws != 2 {
		t.Fatalf("expected redraw on box change, got %d draws", r.draws)
	}
}

func TestFinish_NonLiveAppliesExactlyOnce(t *testing.T) {
	s, _, d := newTestSession(t, false)

	// Drag local (50,50) -> (450,250): cells (0,0) through (2,1) inclusive.
	if err := s.Motion(450, 250, 1000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if d.applies != 0 {
		t.Fatalf("non-live session applied during drag")
	}

	s.PrimaryRelease()
	if s.Running() {
		t.Fatalf("expected session to stop after finish")
	}
	if d.applies != 1 {
		t.Fatalf("expected exactly 1 apply, got %d", d.applies)
	}
	// Local 600x400 at (0,0), translated by the overlay origin (100,50).
	if d.last != (grid.Rect{X: 100, Y: 50, Width: 600, Height: 400}) {
		t.Fatalf("unexpected applied geometry %+v", d.last)
	}
}

func TestCancel_NeverDispatches(t *testing.T) {
	s, _, d := newTestSession(t, false)

	if err := s.Motion(450, 250, 1000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	s.Escape()
	if s.Running() {
		t.Fatalf("expected session to stop after cancel")
	}
	if d.applies != 0 {
		t.Fatalf("cancel dispatched %d resizes", d.applies)
	}
}

func TestLive_AppliesPerBoxChangeAndNotOnFinish(t *testing.T) {
	s, _, d := newTestSession(t, true)

	// Two box changes, well past the debounce interval each time.
	if err := s.Motion(250, 60, 1000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if err := s.Motion(450, 250, 2000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	// Same box again: no extra apply.
	if err := s.Motion(460, 260, 3000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if d.applies != 2 {
		t.Fatalf("expected 2 live applies, got %d", d.applies)
	}

	s.PrimaryRelease()
	if d.applies != 2 {
		t.Fatalf("finish in live mode added applies: got %d", d.applies)
	}
}

func TestSecondaryPress_ReanchorsSelection(t *testing.T) {
	s, _, _ := newTestSession(t, false)

	if err := s.Motion(450, 250, 1000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}

	// Re-anchor at the pointer; the selection collapses toward p2.
	if err := s.SecondaryPress(450, 250); err != nil {
		t.Fatalf("secondary press failed: %v", err)
	}
	if s.sel.P1X != 450 || s.sel.P1Y != 250 {
		t.Fatalf("expected p1=(450,250), got (%d,%d)", s.sel.P1X, s.sel.P1Y)
	}

	// While held, motion drags both anchors.
	if err := s.Motion(500, 300, 2000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if s.sel.P1X != 500 || s.sel.P1Y != 300 || s.sel.P2X != 500 || s.sel.P2Y != 300 {
		t.Fatalf("expected both anchors at (500,300), got p1=(%d,%d) p2=(%d,%d)",
			s.sel.P1X, s.sel.P1Y, s.sel.P2X, s.sel.P2Y)
	}

	// After release, the anchor stays put again.
	s.SecondaryRelease()
	if err := s.Motion(700, 500, 3000); err != nil {
		t.Fatalf("motion failed: %v", err)
	}
	if s.sel.P1X != 500 || s.sel.P1Y != 300 {
		t.Fatalf("anchor moved after secondary release: (%d,%d)", s.sel.P1X, s.sel.P1Y)
	}
}

func TestDrawErrorPropagates(t *testing.T) {
	g := grid.New(800, 600, 4, 3)
	r := &fakeRenderer{err: errDraw}
	d := &fakeDispatcher{}
	s := New(grid.Rect{Width: 800, Height: 600}, g, 0, 0, r, d, false, log.New(io.Discard, "", 0))
	if err := s.Start(); err == nil {
		t.Fatalf("expected draw error from start")
	}
}

var errDraw = errors.New("draw failed")
