package searcher

import "github.com/specialjcg/take-it-easy-sub003/game"

// heuristicScale bounds the static position heuristic; the evaluator divides
// by it to bring the signal onto the same scale as the other blend terms.
const heuristicScale = 30.0

var centerLine = map[int]bool{7: true, 8: true, 9: true, 10: true, 11: true}

var strategicPositions = map[int]bool{
	4: true, 5: true, 6: true, 12: true, 13: true, 14: true, 15: true,
}

// positionScore is the static heuristic for placing a tile at a position:
// alignment with values already committed on the crossing lines, plus
// early-game bonuses for the center and maluses for corners. Roughly within
// [-5, heuristicScale].
func positionScore(board game.Board, position int, tile game.Tile, turn int) float64 {
	score := alignmentScore(board, position)

	if turn < 8 {
		if centerLine[position] {
			score += 5.0
		} else if strategicPositions[position] {
			score += 3.0
		}
	}
	if turn < 5 {
		switch position {
		case 0, 2, 16, 18:
			score -= 2.0
		case 1, 17:
			score -= 1.0
		}
	}

	score += completionProgress(board, position, tile)

	return score
}

// alignmentScore averages the committed band values on each line through the
// position. Lines already carrying high values make the position worth
// fighting for.
func alignmentScore(board game.Board, position int) float64 {
	score := 0.0
	for _, line := range game.LinesThrough(position) {
		sum, n := 0, 0
		for _, p := range line.Positions {
			v := board.Tiles[p].Band(line.Band)
			if v != 0 {
				sum += v
				n++
			}
		}
		if n > 0 {
			score += float64(sum) / float64(n)
		}
	}
	return score
}

// completionProgress rewards placements whose band values agree with every
// tile already on the line, scaled by how far along the line is.
func completionProgress(board game.Board, position int, tile game.Tile) float64 {
	bonus := 0.0
	for _, line := range game.LinesThrough(position) {
		v := tile.Band(line.Band)
		matching, conflict := lineStatus(board, line, position, v)
		if conflict || matching == 0 {
			continue
		}
		bonus += float64(v*matching) / float64(len(line.Positions))
	}
	return bonus
}

// lineStatus counts how many committed tiles on the line match value v on the
// line's band, ignoring the position about to be filled. conflict reports a
// committed tile with a different value, which makes the line unwinnable
// for v.
func lineStatus(board game.Board, line game.Line, exclude int, v int) (matching int, conflict bool) {
	for _, p := range line.Positions {
		if p == exclude {
			continue
		}
		tile := board.Tiles[p]
		if tile.Empty() {
			continue
		}
		if tile.Band(line.Band) == v {
			matching++
		} else {
			conflict = true
		}
	}
	return matching, conflict
}
