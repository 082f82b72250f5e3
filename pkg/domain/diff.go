package domain

// CellDiff is one cell where the current map does not hold the goal's token.
type CellDiff struct {
	Coordinate
	Want string `json:"want"`
	Have string `json:"have"`
}

// Diff lists, in row-major order, the cells of goal that current does not match.
// Cells missing from current count as SPACE. A nil result means the maps agree.
func Diff(goal, current Grid) []CellDiff {
	var diffs []CellDiff
	for _, at := range goal.Cells() {
		want := goal.At(at)
		have := TokenSpace
		if current.Contains(at) {
			have = current.At(at)
		}
		if want != have {
			diffs = append(diffs, CellDiff{Coordinate: at, Want: want, Have: have})
		}
	}
	return diffs
}
