package grid

import "testing"

func TestCorrectDimensions_DivisibleAndCentered(t *testing.T) {
	cases := []struct {
		name  string
		in    Rect
		vert  int
		horiz int
		want  Rect
	}{
		{
			// 1003/4=250 -> usable 1000, 3 leftover pixels split 1/2.
			name: "leftover split",
			in:   Rect{X: 10, Y: 20, Width: 1003, Height: 772},
			vert: 4, horiz: 3,
			want: Rect{X: 11, Y: 22, Width: 1000, Height: 771},
		},
		{
			name: "already divisible",
			in:   Rect{X: 0, Y: 0, Width: 800, Height: 600},
			vert: 4, horiz: 3,
			want: Rect{X: 0, Y: 0, Width: 800, Height: 600},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CorrectDimensions(tc.in, tc.vert, tc.horiz)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
			if got.Width%tc.vert != 0 || got.Height%tc.horiz != 0 {
				t.Fatalf("corrected size %dx%d not divisible by %d,%d", got.Width, got.Height, tc.vert, tc.horiz)
			}
			if got.Width > tc.in.Width || got.Height > tc.in.Height {
				t.Fatalf("corrected size %dx%d exceeds requested %dx%d", got.Width, got.Height, tc.in.Width, tc.in.Height)
			}
		})
	}
}

func TestGrid_BoundsBracketPoint(t *testing.T) {
	g := New(800, 600, 4, 3) // 200x200 cells

	points := []struct{ x, y int }{
		{0, 0}, {1, 1}, {199, 199}, {200, 200}, {450, 250}, {799, 599},
	}
	for _, p := range points {
		lower := g.LowerBound(p.x, p.y)
		lx, ly := g.Position(lower)
		if lx > p.x || ly > p.y {
			t.Fatalf("lower bound of (%d,%d) starts after the point: (%d,%d)", p.x, p.y, lx, ly)
		}

		upper := g.UpperBound(p.x, p.y)
		ux, uy := g.Position(upper)
		if ux < p.x || uy < p.y {
			t.Fatalf("upper bound of (%d,%d) ends before the point: (%d,%d)", p.x, p.y, ux, uy)
		}
	}
}

func TestGrid_BoundaryRules(t *testing.T) {
	g := New(800, 600, 4, 3)

	// A point exactly on a boundary belongs to the cell starting there.
	if got := g.LowerBound(200, 200); got != (Cell{X: 1, Y: 1}) {
		t.Fatalf("expected lower (1,1), got (%d,%d)", got.X, got.Y)
	}
	// The upper bound is the first boundary strictly past the point.
	if got := g.UpperBound(200, 200); got != (Cell{X: 2, Y: 2}) {
		t.Fatalf("expected upper (2,2), got (%d,%d)", got.X, got.Y)
	}
	// Past the last boundary both scans cap at the cell count.
	if got := g.UpperBound(5000, 5000); got != (Cell{X: 4, Y: 3}) {
		t.Fatalf("expected upper capped at (4,3), got (%d,%d)", got.X, got.Y)
	}
	if got := g.LowerBound(5000, 5000); got != (Cell{X: 4, Y: 3}) {
		t.Fatalf("expected lower capped at (4,3), got (%d,%d)", got.X, got.Y)
	}
}

func TestGrid_NegativeCoordinatesClampToZero(t *testing.T) {
	g := New(800, 600, 4, 3)

	if got := g.LowerBound(-25, -300); got != (Cell{}) {
		t.Fatalf("expected lower (0,0), got (%d,%d)", got.X, got.Y)
	}
	if got := g.UpperBound(-25, -300); got != (Cell{}) {
		t.Fatalf("expected upper (0,0), got (%d,%d)", got.X, got.Y)
	}
}

func TestSelection_OrderIndependence(t *testing.T) {
	g := New(100, 100, 2, 2) // 50x50 cells

	a := Selection{P1X: 80, P1Y: 5, P2X: 5, P2Y: 80}
	b := Selection{P1X: 5, P1Y: 5, P2X: 80, P2Y: 80}

	if a.BoundingCells(g) != b.BoundingCells(g) {
		t.Fatalf("swapped corners produced different boxes: %+v vs %+v", a.BoundingCells(g), b.BoundingCells(g))
	}
}

func TestSelection_DegenerateCoversOneCell(t *testing.T) {
	g := New(100, 100, 2, 2) // 50x50 cells

	s := NewSelection(10, 10)
	box := s.BoundingCells(g)
	if box.Lower != (Cell{X: 0, Y: 0}) || box.Upper != (Cell{X: 1, Y: 1}) {
		t.Fatalf("expected box (0,0)-(1,1), got %+v", box)
	}

	// A zero-size selection still snaps out to the full containing cell.
	r := s.PixelRect(g)
	if r != (Rect{X: 0, Y: 0, Width: 50, Height: 50}) {
		t.Fatalf("expected one full cell, got %+v", r)
	}
}

func TestSelection_DragScenario(t *testing.T) {
	// Overlay 800x600, grid 4,3 (200x200 cells), drag (50,50) -> (450,250).
	g := New(800, 600, 4, 3)
	s := NewSelection(50, 50)
	s.P2X, s.P2Y = 450, 250

	box := s.BoundingCells(g)
	if box.Lower != (Cell{X: 0, Y: 0}) || box.Upper != (Cell{X: 3, Y: 2}) {
		t.Fatalf("unexpected box %+v", box)
	}

	r := s.PixelRect(g)
	if r != (Rect{X: 0, Y: 0, Width: 600, Height: 400}) {
		t.Fatalf("expected 600x400 at 0,0, got %+v", r)
	}
}
