// Package neural exposes the value/policy inference collaborator consumed by
// the searcher. The search treats inference as a stateless, side-effect-free
// function: it never trains, never mutates network state, and tolerates
// inference failure by degrading to rollout evaluation.
package neural

import "github.com/specialjcg/take-it-easy-sub003/game"

const (
	// FeaturesPerPosition is the per-position feature width of the encoding.
	FeaturesPerPosition = 8

	// InputSize is the flat length of an encoded position.
	InputSize = game.BoardSize * FeaturesPerPosition

	// PolicySize is the number of policy outputs, one per board position.
	PolicySize = game.BoardSize
)

// Prediction is the output of a single inference call.
type Prediction struct {
	// Value estimates the final-score prospects of the position in [-1, 1].
	Value float64
	// Policy is a probability distribution over the 19 board positions.
	Policy []float64
}

// Inference produces value/policy estimates for an encoded position.
// Implementations must be safe for concurrent read-only use: root-parallel
// searches call Infer from several goroutines.
type Inference interface {
	Infer(input []float32) (Prediction, error)
}

// Encode flattens a position into the network input layout: for each of the
// 19 board positions, the placed tile's three band values (zero when empty),
// an occupancy flag, the drawn tile's three band values, and the game
// progress. Band values are scaled by the maximum band value 9.
func Encode(board game.Board, drawn game.Tile, deck game.Deck, turn, totalTurns int) []float32 {
	progress := float32(0)
	if totalTurns > 0 {
		progress = float32(turn) / float32(totalTurns)
	}

	input := make([]float32, 0, InputSize)
	for _, t := range board.Tiles {
		occupied := float32(0)
		if !t.Empty() {
			occupied = 1
		}
		input = append(input,
			float32(t.A)/9, float32(t.B)/9, float32(t.C)/9,
			occupied,
			float32(drawn.A)/9, float32(drawn.B)/9, float32(drawn.C)/9,
			progress,
		)
	}
	return input
}
