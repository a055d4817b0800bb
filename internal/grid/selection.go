package grid

// Selection holds the two anchor points of an in-progress drag, in
// overlay-local pixel coordinates. P1 is the fixed anchor, P2 tracks the
// pointer. Both start at the same point, so a fresh selection is zero-size.
type Selection struct {
	P1X int
	P1Y int
	P2X int
	P2Y int
}

// Box is a cell-aligned selection rectangle: the lower index is the top-left
// cell, the upper index the first cell boundary past the bottom-right point.
type Box struct {
	Lower Cell
	Upper Cell
}

// NewSelection creates a degenerate selection with both anchors at (x, y).
func NewSelection(x, y int) Selection {
	return Selection{P1X: x, P1Y: y, P2X: x, P2Y: y}
}

// Normalized returns the component-wise min/max of the two anchors, so the
// result is order-independent in how the user dragged.
func (s Selection) Normalized() (minX, minY, maxX, maxY int) {
	minX, maxX = s.P1X, s.P2X
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	minY, maxY = s.P1Y, s.P2Y
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	return minX, minY, maxX, maxY
}

// BoundingCells snaps the normalized selection outward to cell boundaries:
// the min point floors to its containing cell, the max point ceils to the
// next boundary.
func (s Selection) BoundingCells(g Grid) Box {
	minX, minY, maxX, maxY := s.Normalized()
	return Box{
		Lower: g.LowerBound(minX, minY),
		Upper: g.UpperBound(maxX, maxY),
	}
}

// PixelRect converts the bounding cells back to an overlay-local pixel
// rectangle.
func (s Selection) PixelRect(g Grid) Rect {
	box := s.BoundingCells(g)
	x1, y1 := g.Position(box.Lower)
	x2, y2 := g.Position(box.Upper)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
