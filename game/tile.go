package game

// Tile is a Take It Easy piece with three scoring bands: A runs vertically,
// B runs from top-left to bottom-right, C from top-right to bottom-left.
// The zero value marks an empty board position.
type Tile struct {
	A, B, C int
}

// Empty reports whether the tile is the empty placeholder.
func (t Tile) Empty() bool {
	return t == Tile{}
}

// Band returns the tile value on the given band index (0=A, 1=B, 2=C).
func (t Tile) Band(band int) int {
	switch band {
	case 0:
		return t.A
	case 1:
		return t.B
	case 2:
		return t.C
	default:
		panic("invalid band index")
	}
}

// Band values of the full tile set. Every combination exists exactly once,
// giving 27 distinct tiles.
var (
	verticalValues = []int{1, 5, 9}
	leftValues     = []int{2, 6, 7}
	rightValues    = []int{3, 4, 8}
)

// DeckSize is the number of tiles in a fresh deck.
const DeckSize = 27
