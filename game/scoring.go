package game

// Line is a scoring line: a run of positions that pays value*len(Positions)
// when every tile on it shows the same value on the line's band.
type Line struct {
	Positions []int
	Band      int
}

// Lines are the 15 scoring lines of the board: 5 vertical columns (band A),
// 5 left diagonals (band B) and 5 right diagonals (band C).
var Lines = []Line{
	{Positions: []int{0, 1, 2}, Band: 0},
	{Positions: []int{3, 4, 5, 6}, Band: 0},
	{Positions: []int{7, 8, 9, 10, 11}, Band: 0},
	{Positions: []int{12, 13, 14, 15}, Band: 0},
	{Positions: []int{16, 17, 18}, Band: 0},
	{Positions: []int{0, 3, 7}, Band: 1},
	{Positions: []int{1, 4, 8, 12}, Band: 1},
	{Positions: []int{2, 5, 9, 13, 16}, Band: 1},
	{Positions: []int{6, 10, 14, 17}, Band: 1},
	{Positions: []int{11, 15, 18}, Band: 1},
	{Positions: []int{7, 12, 16}, Band: 2},
	{Positions: []int{3, 8, 13, 17}, Band: 2},
	{Positions: []int{0, 4, 9, 14, 18}, Band: 2},
	{Positions: []int{1, 5, 10, 15}, Band: 2},
	{Positions: []int{2, 6, 11}, Band: 2},
}

// LinesThrough returns the lines containing the given position, one per band.
func LinesThrough(position int) []Line {
	lines := make([]Line, 0, 3)
	for _, line := range Lines {
		for _, p := range line.Positions {
			if p == position {
				lines = append(lines, line)
				break
			}
		}
	}
	return lines
}

// Score sums value*length over every line whose tiles all carry the same
// value on the line's band. Lines with empty positions score nothing.
func (b Board) Score() int {
	score := 0
	for _, line := range Lines {
		first := b.Tiles[line.Positions[0]].Band(line.Band)
		if first == 0 {
			continue
		}
		complete := true
		for _, p := range line.Positions[1:] {
			if b.Tiles[p].Band(line.Band) != first {
				complete = false
				break
			}
		}
		if complete {
			score += first * len(line.Positions)
		}
	}
	return score
}
