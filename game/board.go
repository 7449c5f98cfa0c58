package game

// BoardSize is the number of hexagonal positions on the board.
const BoardSize = 19

// TotalTurns is the number of placements in a full game: one per position.
const TotalTurns = BoardSize

// Board is the hexagonal playing field, positions indexed 0..18 column by
// column from the left edge, top to bottom within each column:
//
//	column 0:  0  1  2
//	column 1:  3  4  5  6
//	column 2:  7  8  9 10 11
//	column 3: 12 13 14 15
//	column 4: 16 17 18
//
// Positions 7..11 form the center column.
//
// Boards are small value types; Place returns a new board so searches can
// branch freely without defensive copying.
type Board struct {
	Tiles [BoardSize]Tile
}

// LegalMoves returns the indices of all empty positions.
func (b Board) LegalMoves() []int {
	moves := make([]int, 0, BoardSize)
	for i, t := range b.Tiles {
		if t.Empty() {
			moves = append(moves, i)
		}
	}
	return moves
}

// Place returns a new board with the tile placed at the given position.
// Placing on an occupied position panics: legality is the caller's contract.
func (b Board) Place(position int, t Tile) Board {
	if !b.Tiles[position].Empty() {
		panic("position already occupied")
	}
	b.Tiles[position] = t
	return b
}

// IsFull reports whether every position holds a tile.
func (b Board) IsFull() bool {
	for _, t := range b.Tiles {
		if t.Empty() {
			return false
		}
	}
	return true
}

// Turn returns the number of tiles already placed, which equals the current
// zero-based turn index.
func (b Board) Turn() int {
	n := 0
	for _, t := range b.Tiles {
		if !t.Empty() {
			n++
		}
	}
	return n
}
