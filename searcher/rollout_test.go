package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/game"
)

func TestNormalizeScore(t *testing.T) {
	require.Equal(t, -1.0, normalizeScore(0), "zero score maps to the bottom of the range")
	require.Equal(t, 0.0, normalizeScore(100), "mid-scale score maps to zero")
	require.Equal(t, 1.0, normalizeScore(200))
	require.Equal(t, 1.0, normalizeScore(307), "scores beyond the scale clamp")
	require.Equal(t, -1.0, normalizeScore(-10))
}

func TestSimulate(t *testing.T) {
	t.Run("deterministic under a fixed seed", func(t *testing.T) {
		rollout := NewRollout()
		board := game.Board{}
		deck := game.NewDeck()

		first := rollout.Simulate(board, deck, 5, rand.New(rand.NewSource(7)))
		second := rollout.Simulate(board, deck, 5, rand.New(rand.NewSource(7)))

		require.Equal(t, first, second, "same seed should replay the same playouts")
	})

	t.Run("result stays normalized", func(t *testing.T) {
		rollout := NewRollout()
		got := rollout.Simulate(game.Board{}, game.NewDeck(), 10, rand.New(rand.NewSource(1)))

		require.GreaterOrEqual(t, got, -1.0)
		require.LessOrEqual(t, got, 1.0)
	})

	t.Run("exhausted deck still reaches a terminal board", func(t *testing.T) {
		// 18 tiles placed, nothing left to draw. The playout must finish the
		// board by falling back to the full tile set.
		board := game.Board{}
		filler := game.Tile{A: 1, B: 2, C: 3}
		for position := 0; position < 18; position++ {
			board = board.Place(position, filler)
		}

		got := NewRollout().Simulate(board, game.Deck{}, 3, rand.New(rand.NewSource(3)))

		require.GreaterOrEqual(t, got, -1.0)
		require.LessOrEqual(t, got, 1.0)
	})

	t.Run("non-positive count falls back to one playout", func(t *testing.T) {
		got := NewRollout().Simulate(game.Board{}, game.NewDeck(), 0, rand.New(rand.NewSource(5)))

		require.GreaterOrEqual(t, got, -1.0)
		require.LessOrEqual(t, got, 1.0)
	})
}

func TestBestPlacement(t *testing.T) {
	t.Run("equal scores break toward the lowest index", func(t *testing.T) {
		// On an empty board every position scores the same for any tile.
		board := game.Board{}
		tile := game.Tile{A: 5, B: 6, C: 4}

		got := bestPlacement(board, tile, board.LegalMoves())

		require.Equal(t, 0, got)
	})

	t.Run("completing a high-value line dominates", func(t *testing.T) {
		// Two nines already sit on the leftmost vertical line; the drawn tile
		// carries a nine too, so finishing that line should win.
		board := game.Board{}
		board = board.Place(0, game.Tile{A: 9, B: 2, C: 3})
		board = board.Place(1, game.Tile{A: 9, B: 6, C: 4})
		tile := game.Tile{A: 9, B: 7, C: 8}

		got := bestPlacement(board, tile, board.LegalMoves())

		require.Equal(t, 2, got, "position 2 completes the vertical line of nines")
	})

	t.Run("conflicting placement is avoided", func(t *testing.T) {
		// The leftmost vertical line is committed to nines; a tile with a
		// different vertical value should not be dropped onto it when an
		// unconstrained position is available.
		board := game.Board{}
		board = board.Place(0, game.Tile{A: 9, B: 2, C: 3})
		board = board.Place(1, game.Tile{A: 9, B: 6, C: 4})
		tile := game.Tile{A: 1, B: 2, C: 4}

		got := bestPlacement(board, tile, board.LegalMoves())

		require.NotEqual(t, 2, got, "placing a one would kill the line of nines")
	})
}
