package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialjcg/take-it-easy-sub003/game"
)

func TestPositionScore(t *testing.T) {
	tile := game.Tile{A: 5, B: 6, C: 4}

	t.Run("early turns prefer the center column", func(t *testing.T) {
		board := game.Board{}

		center := positionScore(board, 9, tile, 0)
		corner := positionScore(board, 0, tile, 0)

		require.Greater(t, center, corner, "center bonus plus corner malus")
	})

	t.Run("positional bonuses fade after the opening", func(t *testing.T) {
		board := game.Board{}

		center := positionScore(board, 9, tile, 10)
		corner := positionScore(board, 0, tile, 10)

		require.Equal(t, center, corner, "an empty board scores flat once the bonuses expire")
	})

	t.Run("matching a committed line scores higher than conflicting", func(t *testing.T) {
		board := game.Board{}
		board = board.Place(0, game.Tile{A: 9, B: 2, C: 3})
		board = board.Place(1, game.Tile{A: 9, B: 6, C: 4})

		matching := positionScore(board, 2, game.Tile{A: 9, B: 7, C: 8}, 10)
		conflicting := positionScore(board, 2, game.Tile{A: 1, B: 2, C: 4}, 10)

		require.Greater(t, matching, conflicting)
	})
}

func TestAlignmentScore(t *testing.T) {
	board := game.Board{}
	board = board.Place(0, game.Tile{A: 9, B: 2, C: 3})

	require.Zero(t, alignmentScore(board, 16), "no committed values on any line through 16")
	require.Greater(t, alignmentScore(board, 1), 0.0, "position 1 shares the vertical line with the nine")
}

func TestEntropyLineBoost(t *testing.T) {
	t.Run("scales with entropy", func(t *testing.T) {
		board := game.Board{}
		board = board.Place(0, game.Tile{A: 9, B: 2, C: 3})
		board = board.Place(1, game.Tile{A: 9, B: 6, C: 4})
		tile := game.Tile{A: 9, B: 7, C: 8}

		flat := entropyLineBoost(board, 2, tile, 2, 1.0)
		sharp := entropyLineBoost(board, 2, tile, 2, 0.0)

		require.Greater(t, flat, 0.0)
		require.Zero(t, sharp, "a sharp policy suppresses the contextual boost")
	})

	t.Run("near-complete lines dominate fresh ones", func(t *testing.T) {
		committed := game.Board{}
		committed = committed.Place(0, game.Tile{A: 9, B: 2, C: 3})
		committed = committed.Place(1, game.Tile{A: 9, B: 6, C: 4})
		tile := game.Tile{A: 9, B: 7, C: 8}

		near := entropyLineBoost(committed, 2, tile, 2, 1.0)
		fresh := entropyLineBoost(game.Board{}, 2, tile, 2, 1.0)

		require.Greater(t, near, fresh)
	})

	t.Run("stays within the unit interval", func(t *testing.T) {
		got := entropyLineBoost(game.Board{}, 9, game.Tile{A: 9, B: 7, C: 8}, 0, 1.0)

		require.GreaterOrEqual(t, got, -1.0)
		require.LessOrEqual(t, got, 1.0)
	})
}
