package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/game"
)

func TestPrepare(t *testing.T) {
	hp := DefaultHyperparameters()

	t.Run("prunes the lowest ranked fraction", func(t *testing.T) {
		tr := newTree(game.Board{}, game.Tile{A: 5, B: 6, C: 4}, game.NewDeck())

		// Turn 10 prunes 15%: 19 moves keep 19 - int(0.15*19) = 17.
		priors := map[int]float64{}
		for position := 0; position < game.BoardSize; position++ {
			priors[position] = float64(position + 1)
		}
		hp := hp
		hp.EarlyTurnEnd = 0
		hp.PruneMid1End = 0
		hp.PruneMid2End = 0
		hp.LateTurnStart = 1
		hp.PruneLate = 0.15

		tr.prepare(0, priors, hp)

		root := tr.root()
		require.Len(t, root.untried, 17)
		for _, c := range root.untried {
			require.GreaterOrEqual(t, c.position, 2, "the two lowest priors should be discarded")
		}
		require.Equal(t, 18, root.untried[0].position, "candidates are ordered best first")
	})

	t.Run("always keeps at least one move", func(t *testing.T) {
		board := game.Board{}
		filler := game.Tile{A: 1, B: 2, C: 3}
		for position := 0; position < 18; position++ {
			board = board.Place(position, filler)
		}
		tr := newTree(board, filler, game.NewDeck())

		tr.prepare(0, nil, hp)

		require.Len(t, tr.root().untried, 1)
		require.Equal(t, 18, tr.root().untried[0].position)
	})

	t.Run("full board is terminal", func(t *testing.T) {
		board := game.Board{}
		filler := game.Tile{A: 1, B: 2, C: 3}
		for position := 0; position < game.BoardSize; position++ {
			board = board.Place(position, filler)
		}
		tr := newTree(board, filler, game.Deck{})

		tr.prepare(0, nil, hp)

		require.True(t, tr.root().terminal)
		require.Empty(t, tr.root().untried)
	})

	t.Run("preparing twice is a no-op", func(t *testing.T) {
		tr := newTree(game.Board{}, game.Tile{A: 5, B: 6, C: 4}, game.NewDeck())
		tr.prepare(0, nil, hp)
		before := len(tr.root().untried)

		tr.prepare(0, nil, hp)

		require.Len(t, tr.root().untried, before)
	})
}

func TestExpand(t *testing.T) {
	hp := DefaultHyperparameters()
	rng := rand.New(rand.NewSource(11))

	tr := newTree(game.Board{}, game.Tile{A: 5, B: 6, C: 4}, game.NewDeck())
	tr.prepare(0, nil, hp)
	untriedBefore := len(tr.root().untried)

	childID := tr.expand(0, rng)
	child := &tr.nodes[childID]

	require.Len(t, tr.root().untried, untriedBefore-1, "the expanded candidate leaves the untried set")
	require.Equal(t, nodeID(0), child.parent)
	require.Equal(t, 1, child.board.Turn(), "the child board carries the placed tile")
	require.Equal(t, game.DeckSize-1, child.deck.Len(), "the placed tile leaves the child deck")
	require.False(t, child.tile.Empty(), "the child samples its own drawn tile")
	require.Contains(t, tr.root().children, childID)
}

func TestExpandKeepsChildrenSorted(t *testing.T) {
	hp := DefaultHyperparameters()
	rng := rand.New(rand.NewSource(11))

	tr := newTree(game.Board{}, game.Tile{A: 5, B: 6, C: 4}, game.NewDeck())
	tr.prepare(0, nil, hp)

	for i := 0; i < 8; i++ {
		tr.expand(0, rng)
	}

	children := tr.root().children
	for i := 1; i < len(children); i++ {
		require.Less(t, tr.nodes[children[i-1]].position, tr.nodes[children[i]].position,
			"children must stay in ascending position order")
	}
}

func TestSelectChild(t *testing.T) {
	buildTree := func() *tree {
		tr := newTree(game.Board{}, game.Tile{A: 5, B: 6, C: 4}, game.NewDeck())
		tr.nodes[0].visits = 10
		return tr
	}
	addChild := func(tr *tree, position, visits int, valueSum, prior float64) nodeID {
		id := nodeID(len(tr.nodes))
		tr.nodes = append(tr.nodes, node{
			parent: 0, position: position,
			visits: visits, valueSum: valueSum, prior: prior,
		})
		tr.nodes[0].children = append(tr.nodes[0].children, id)
		return id
	}

	t.Run("prefers the higher scoring child", func(t *testing.T) {
		tr := buildTree()
		addChild(tr, 0, 5, 0.5, 0.5)
		strong := addChild(tr, 1, 5, 4.0, 0.5)

		got := tr.selectChild(0, 3.0, 1.0)

		require.Equal(t, strong, got)
	})

	t.Run("identical children tie toward the lower position", func(t *testing.T) {
		tr := buildTree()
		low := addChild(tr, 3, 5, 2.0, 0.5)
		addChild(tr, 8, 5, 2.0, 0.5)

		got := tr.selectChild(0, 3.0, 1.0)

		require.Equal(t, low, got, "strict comparison in ascending order keeps the first maximum")
	})

	t.Run("exploration term favors the less visited child", func(t *testing.T) {
		tr := buildTree()
		tr.nodes[0].visits = 100
		// Both children carry the same mean value, but the second one has
		// barely been visited.
		addChild(tr, 0, 90, 45.0, 0.5)
		fresh := addChild(tr, 1, 2, 1.0, 0.5)

		got := tr.selectChild(0, 3.0, 1.0)

		require.Equal(t, fresh, got)
	})

	t.Run("childless node panics", func(t *testing.T) {
		tr := buildTree()
		require.Panics(t, func() { tr.selectChild(0, 3.0, 1.0) })
	})
}

func TestBackpropagate(t *testing.T) {
	hp := DefaultHyperparameters()
	rng := rand.New(rand.NewSource(13))

	tr := newTree(game.Board{}, game.Tile{A: 5, B: 6, C: 4}, game.NewDeck())
	tr.prepare(0, nil, hp)
	childID := tr.expand(0, rng)
	tr.prepare(childID, nil, hp)
	grandchildID := tr.expand(childID, rng)

	tr.backpropagate(grandchildID, 0.8)

	require.Equal(t, 1, tr.nodes[grandchildID].visits)
	require.Equal(t, 0.8, tr.nodes[grandchildID].valueSum)
	require.Equal(t, 1, tr.nodes[childID].visits, "the value propagates through every ancestor")
	require.Equal(t, 0.8, tr.nodes[childID].valueSum)
	require.Equal(t, 1, tr.root().visits)
	require.Equal(t, 0.8, tr.root().valueSum)
}

func TestWeightedPick(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	t.Run("never picks a zero-weight candidate over time", func(t *testing.T) {
		candidates := []candidate{
			{position: 0, weight: 0},
			{position: 1, weight: 1.0},
		}
		for i := 0; i < 100; i++ {
			require.Equal(t, 1, weightedPick(candidates, rng), "all mass sits on the second candidate")
		}
	})

	t.Run("zero total mass falls back to uniform", func(t *testing.T) {
		candidates := []candidate{
			{position: 0, weight: 0},
			{position: 1, weight: 0},
		}
		got := weightedPick(candidates, rng)
		require.Contains(t, []int{0, 1}, got)
	})
}
