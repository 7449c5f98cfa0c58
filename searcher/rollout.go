package searcher

import (
	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/game"
)

// scoreScale maps raw game scores onto [-1, 1]. 200 is beyond typical strong
// play, so the normalized signal keeps resolution where games actually land.
const scoreScale = 200.0

// normalizeScore maps a raw final score onto [-1, 1].
func normalizeScore(score float64) float64 {
	return clamp(score/scoreScale, 0, 1)*2 - 1
}

// Rollout runs fast randomized-but-biased playouts to estimate the value of
// a position. It never fails: an exhausted deck falls back to sampling the
// full tile set so every playout reaches a terminal board.
type Rollout struct {
	// Greediness is the probability of placing a drawn tile at the best
	// position according to the placement heuristic instead of a random one.
	Greediness float64
}

// NewRollout returns the production rollout policy: 80% greedy, 20% random.
func NewRollout() Rollout {
	return Rollout{Greediness: 0.8}
}

// Simulate runs count independent playouts from the given position and
// returns the mean terminal score normalized to [-1, 1].
func (r Rollout) Simulate(board game.Board, deck game.Deck, count int, rng *rand.Rand) float64 {
	if count <= 0 {
		count = 1
	}
	total := 0.0
	for i := 0; i < count; i++ {
		total += float64(r.playout(board, deck, rng))
	}
	return normalizeScore(total / float64(count))
}

func (r Rollout) playout(board game.Board, deck game.Deck, rng *rand.Rand) int {
	for !board.IsFull() {
		tile := deck.Sample(rng)
		deck = deck.Remove(tile)

		moves := board.LegalMoves()
		if len(moves) == 0 {
			break
		}

		var position int
		if rng.Float64() < r.Greediness {
			position = bestPlacement(board, tile, moves)
		} else {
			position = moves[rng.Intn(len(moves))]
		}
		board = board.Place(position, tile)
	}
	return board.Score()
}

// bestPlacement returns the legal move with the highest placement score,
// preferring the lower index on ties.
func bestPlacement(board game.Board, tile game.Tile, moves []int) int {
	best := moves[0]
	bestScore := placementScore(board, tile, moves[0])
	for _, position := range moves[1:] {
		if score := placementScore(board, tile, position); score > bestScore {
			bestScore = score
			best = position
		}
	}
	return best
}

// placementScore is the playout placement bias. It rewards extending lines
// that agree with the tile (quadratically, so long high-value lines dominate),
// triples the reward for an immediate completion, and penalizes placements
// that foreclose lines other tiles had committed to - doubly so when two
// high-value lines die at once.
func placementScore(board game.Board, tile game.Tile, position int) float64 {
	score := 0.0
	foreclosedHigh := 0

	for _, line := range game.LinesThrough(position) {
		v := tile.Band(line.Band)
		matching, conflict := lineStatus(board, line, position, v)

		if !conflict {
			progress := matching + 1
			score += float64(v) * float64(progress*progress)
			if progress == len(line.Positions) {
				// Completing a line now is worth three times its face value.
				score += float64(v*len(line.Positions)) * 3
			}
			continue
		}

		// The line already carries a different value; placing here kills it.
		established, n := lineValue(board, line, position)
		if n >= 1 && established != v {
			score -= float64(established * n)
			if established >= 5 && n >= 2 {
				foreclosedHigh++
			}
		}
	}

	if foreclosedHigh >= 2 {
		// Losing two strong lines with one placement is rarely recoverable.
		score -= 50
	}

	return score
}

// lineValue returns the value committed on the line's band and how many
// tiles carry it, or (0, 0) when the committed tiles disagree among
// themselves (the line is already dead).
func lineValue(board game.Board, line game.Line, exclude int) (value, n int) {
	for _, p := range line.Positions {
		if p == exclude {
			continue
		}
		tile := board.Tiles[p]
		if tile.Empty() {
			continue
		}
		v := tile.Band(line.Band)
		if value == 0 {
			value = v
		} else if v != value {
			return 0, 0
		}
		n++
	}
	return value, n
}
