// Package grid holds the pure geometry of the selection overlay: the cell
// grid, the drag selection, and the dimension correction that keeps the
// overlay exactly divisible into cells.
package grid

// Rect represents a position and size in pixels.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Cell is a pair of cell indices (column, row).
type Cell struct {
	X int
	Y int
}

// Grid partitions a fixed width x height rectangle into VerticalCells columns
// and HorizontalCells rows of identical integer-sized cells. It is immutable
// once constructed; callers are expected to feed it dimensions that went
// through CorrectDimensions so the division has no remainder.
type Grid struct {
	VerticalCells   int
	HorizontalCells int
	CellWidth       int
	CellHeight      int
}

// New creates a grid for the given overlay size and cell counts.
func New(width, height, verticalCells, horizontalCells int) Grid {
	return Grid{
		VerticalCells:   verticalCells,
		HorizontalCells: horizontalCells,
		CellWidth:       width / verticalCells,
		CellHeight:      height / horizontalCells,
	}
}

// LowerBound returns the top-left index of the cell containing the point:
// the largest index i per axis with i*cellSize <= coordinate, capped at the
// cell count. Negative coordinates clamp to index 0.
func (g Grid) LowerBound(x, y int) Cell {
	return Cell{
		X: lowerIndex(x, g.CellWidth, g.VerticalCells),
		Y: lowerIndex(y, g.CellHeight, g.HorizontalCells),
	}
}

// UpperBound returns the bottom-right index of the cell containing the point:
// the smallest index i per axis with i*cellSize > coordinate, capped at the
// cell count. A selection that ends mid-cell therefore still covers that
// whole cell.
func (g Grid) UpperBound(x, y int) Cell {
	return Cell{
		X: upperIndex(x, g.CellWidth, g.VerticalCells),
		Y: upperIndex(y, g.CellHeight, g.HorizontalCells),
	}
}

// Position maps a cell index back to the pixel origin of that cell.
func (g Grid) Position(c Cell) (x, y int) {
	return c.X * g.CellWidth, c.Y * g.CellHeight
}

func lowerIndex(coord, cellSize, cells int) int {
	index := 0
	for i := 0; i <= cells; i++ {
		if i*cellSize > coord {
			break
		}
		index = i
	}
	return index
}

func upperIndex(coord, cellSize, cells int) int {
	for i := 0; i <= cells; i++ {
		if i*cellSize > coord {
			return i
		}
	}
	return cells
}

// CorrectDimensions shrinks a requested overlay rectangle so that its width
// and height divide evenly into the given cell counts, re-centering the
// rectangle over the leftover pixels. Run once before the overlay and Grid
// are created.
func CorrectDimensions(r Rect, verticalCells, horizontalCells int) Rect {
	cellWidth := r.Width / verticalCells
	cellHeight := r.Height / horizontalCells
	useWidth := cellWidth * verticalCells
	useHeight := cellHeight * horizontalCells
	return Rect{
		X:      r.X + (r.Width-useWidth)/2,
		Y:      r.Y + (r.Height-useHeight)/2,
		Width:  useWidth,
		Height: useHeight,
	}
}
