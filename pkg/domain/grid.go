package domain

import "fmt"

// Token values understood by the interpreter.
const (
	TokenSpace    = "SPACE"
	TokenPolyanet = "POLYANET"
	KindCometh    = "COMETH"
	KindSoloon    = "SOLOON"
)

// Grid is a rectangular matrix of tokens, indexed by (row, column).
// It is read-only once obtained from a GoalSource.
type Grid [][]string

// Coordinate addresses one cell of a Grid.
type Coordinate struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// Rows returns the number of rows.
func (g Grid) Rows() int {
	return len(g)
}

// Columns returns the width of the grid, taken from the first row.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate checks that the grid is non-empty and rectangular.
func (g Grid) Validate() error {
	if len(g) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidGrid)
	}
	width := len(g[0])
	if width == 0 {
		return fmt.Errorf("%w: first row is empty", ErrInvalidGrid)
	}
	for i, row := range g {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", ErrInvalidGrid, i, len(row), width)
		}
	}
	return nil
}

// At returns the token at the given coordinate.
func (g Grid) At(c Coordinate) string {
	return g[c.Row][c.Column]
}

// Contains reports whether the coordinate lies inside the grid.
func (g Grid) Contains(c Coordinate) bool {
	return c.Row >= 0 && c.Row < g.Rows() && c.Column >= 0 && c.Column < g.Columns()
}

// Cells yields every coordinate in row-major order.
func (g Grid) Cells() []Coordinate {
	cells := make([]Coordinate, 0, g.Rows()*g.Columns())
	for row := range g {
		for column := range g[row] {
			cells = append(cells, Coordinate{Row: row, Column: column})
		}
	}
	return cells
}

// NewGrid allocates a rows×columns grid filled with SPACE.
func NewGrid(rows, columns int) Grid {
	g := make(Grid, rows)
	for i := range g {
		g[i] = make([]string, columns)
		for j := range g[i] {
			g[i][j] = TokenSpace
		}
	}
	return g
}
