package agent

import (
	"github.com/specialjcg/take-it-easy-sub003/experiments/metrics"
	"github.com/specialjcg/take-it-easy-sub003/game"
	"github.com/specialjcg/take-it-easy-sub003/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent for actual game play during
// evaluation runs.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindPlacement(board game.Board, tile game.Tile, deck game.Deck, turn, totalTurns int) (int, metrics.SearchMetric, error) {
	result, err := a.mcts.FindBestMove(board, tile, deck, turn, totalTurns)
	if err != nil {
		return 0, metrics.SearchMetric{}, err
	}
	return result.Position, result.Metric, nil
}
