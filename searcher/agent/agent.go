package agent

import (
	"github.com/specialjcg/take-it-easy-sub003/experiments/metrics"
	"github.com/specialjcg/take-it-easy-sub003/game"
)

// Agent chooses a placement for a drawn tile.
type Agent interface {
	FindPlacement(board game.Board, tile game.Tile, deck game.Deck, turn, totalTurns int) (int, metrics.SearchMetric, error)
}
