package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/experiments/metrics"
	"github.com/specialjcg/take-it-easy-sub003/game"
	"github.com/specialjcg/take-it-easy-sub003/searcher/agent"
)

// Engine drives one full selfplay game: draw a tile, ask the agent where to
// place it, repeat until the board is full.
type Engine struct {
	Board game.Board
	Deck  game.Deck
	Agent agent.Agent

	rng *rand.Rand
}

// LocalEngine returns an engine over a fresh board and deck. The seed
// controls the tile draw sequence.
func LocalEngine(a agent.Agent, seed uint64) *Engine {
	return &Engine{
		Deck:  game.NewDeck(),
		Agent: a,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Run plays the game to completion and returns the final score with
// per-move search metrics.
func (e *Engine) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	start := time.Now()
	moveMetrics := make([]metrics.MoveMetric, 0, game.TotalTurns)

	for turn := 0; turn < game.TotalTurns; turn++ {
		tile := e.Deck.Sample(e.rng)

		position, searchMetric, err := e.Agent.FindPlacement(e.Board, tile, e.Deck, turn, game.TotalTurns)
		if err != nil {
			return metrics.GameMetric{}, nil, fmt.Errorf("search failed on turn %d: %w", turn, err)
		}

		e.Board = e.Board.Place(position, tile)
		e.Deck = e.Deck.Remove(tile)

		log.Info().
			Int("turn", turn).
			Int("position", position).
			Int("score", e.Board.Score()).
			Dur("search", searchMetric.Duration).
			Msg("tile placed")

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Turn:         turn,
			Position:     position,
			SearchMetric: searchMetric,
		})
	}

	gameMetric := metrics.GameMetric{
		StartTime: start,
		Duration:  time.Since(start),
		Score:     e.Board.Score(),
	}
	return gameMetric, moveMetrics, nil
}
