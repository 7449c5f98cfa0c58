package game

import "golang.org/x/exp/rand"

// Deck tracks the tiles not yet placed on the board. Operations return new
// decks - searches fan out over hypothetical draws and must not share state.
type Deck struct {
	Tiles []Tile
}

// NewDeck returns the full 27-tile deck.
func NewDeck() Deck {
	tiles := make([]Tile, 0, DeckSize)
	for _, a := range verticalValues {
		for _, b := range leftValues {
			for _, c := range rightValues {
				tiles = append(tiles, Tile{A: a, B: b, C: c})
			}
		}
	}
	return Deck{Tiles: tiles}
}

// Len returns the number of tiles remaining.
func (d Deck) Len() int {
	return len(d.Tiles)
}

// Empty reports whether no tiles remain.
func (d Deck) Empty() bool {
	return len(d.Tiles) == 0
}

// Remove returns a copy of the deck without the first occurrence of t.
// Removing a tile that is not in the deck returns an unchanged copy.
func (d Deck) Remove(t Tile) Deck {
	tiles := make([]Tile, 0, len(d.Tiles))
	removed := false
	for _, tile := range d.Tiles {
		if !removed && tile == t {
			removed = true
			continue
		}
		tiles = append(tiles, tile)
	}
	return Deck{Tiles: tiles}
}

// Sample draws a uniformly random tile from the deck. When the deck is
// exhausted it falls back to sampling the full tile set so that rollouts
// can always keep going.
func (d Deck) Sample(rng *rand.Rand) Tile {
	if len(d.Tiles) == 0 {
		return SampleAny(rng)
	}
	return d.Tiles[rng.Intn(len(d.Tiles))]
}

// SampleAny draws a uniformly random tile from the full tile set, ignoring
// which tiles have already been placed.
func SampleAny(rng *rand.Rand) Tile {
	return Tile{
		A: verticalValues[rng.Intn(len(verticalValues))],
		B: leftValues[rng.Intn(len(leftValues))],
		C: rightValues[rng.Intn(len(rightValues))],
	}
}
