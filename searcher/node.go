package searcher

import (
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/game"
)

// nodeID indexes into the tree arena. Nodes reference each other by index
// instead of pointers: the tree is uniquely owned, reference counting earlier
// versions carried measurably slowed the search down.
type nodeID int32

const noNode nodeID = -1

// candidate is a legal move that survived pruning but has not been expanded.
type candidate struct {
	position int
	weight   float64
}

// node is one explored (state, move) pair. Children are keyed by the board
// position their move fills.
type node struct {
	parent   nodeID
	position int // move that led here; -1 for the root

	board game.Board
	deck  game.Deck
	tile  game.Tile // tile the children of this node will place

	prior    float64
	visits   int
	valueSum float64
	lastEval float64

	prepared bool
	terminal bool
	untried  []candidate
	children []nodeID // ascending by position, for deterministic tie-breaks
}

// tree owns the arena of search nodes for one decision. A fresh tree is
// built per (board, tile, turn) triple; the root is never re-rooted across
// unrelated states.
type tree struct {
	nodes []node
}

func newTree(board game.Board, tile game.Tile, deck game.Deck) *tree {
	t := &tree{nodes: make([]node, 0, 256)}
	t.nodes = append(t.nodes, node{
		parent:   noNode,
		position: -1,
		board:    board,
		deck:     deck,
		tile:     tile,
		prior:    1,
	})
	return t
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

// prepare ranks and prunes the node's legal moves. Root nodes rank by the
// evaluator's priors; deeper nodes rank by the static heuristic. The lowest
// ranked fraction for the current turn is discarded outright.
func (t *tree) prepare(id nodeID, priors map[int]float64, hp Hyperparameters) {
	n := &t.nodes[id]
	if n.prepared {
		return
	}
	n.prepared = true

	legal := n.board.LegalMoves()
	if len(legal) == 0 {
		n.terminal = true
		return
	}

	turn := n.board.Turn()
	if priors == nil {
		priors = heuristicPriors(n.board, n.tile, legal, turn)
	}

	candidates := make([]candidate, 0, len(legal))
	for _, position := range legal {
		candidates = append(candidates, candidate{position: position, weight: priors[position]})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].weight != candidates[j].weight {
			return candidates[i].weight > candidates[j].weight
		}
		return candidates[i].position < candidates[j].position
	})

	keep := len(candidates) - int(hp.PruningRatio(turn)*float64(len(candidates)))
	if keep < 1 {
		keep = 1
	}
	n.untried = candidates[:keep]
}

// expand instantiates a child for one of the unexplored candidates. The pick
// is weighted by candidate rank, not uniform: tree growth leans toward the
// branches the priors already favor.
func (t *tree) expand(id nodeID, rng *rand.Rand) nodeID {
	n := &t.nodes[id]

	pick := weightedPick(n.untried, rng)
	chosen := n.untried[pick]
	n.untried = append(n.untried[:pick], n.untried[pick+1:]...)

	childBoard := n.board.Place(chosen.position, n.tile)
	childDeck := n.deck.Remove(n.tile)

	child := node{
		parent:   id,
		position: chosen.position,
		board:    childBoard,
		deck:     childDeck,
		tile:     childDeck.Sample(rng),
		prior:    chosen.weight,
	}

	childID := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, child)

	// n may be stale after append; re-index the arena.
	parent := &t.nodes[id]
	insert := sort.Search(len(parent.children), func(i int) bool {
		return t.nodes[parent.children[i]].position > chosen.position
	})
	parent.children = append(parent.children, noNode)
	copy(parent.children[insert+1:], parent.children[insert:])
	parent.children[insert] = childID

	return childID
}

// selectChild returns the child maximizing the UCB score. Children are
// iterated in ascending position order and compared strictly, so ties go to
// the lower board index.
func (t *tree) selectChild(id nodeID, cPuct, temperature float64) nodeID {
	n := &t.nodes[id]
	parentVisits := n.visits
	if parentVisits < 1 {
		parentVisits = 1
	}
	logParent := math.Log(float64(parentVisits))

	best := noNode
	bestScore := math.Inf(-1)
	for _, childID := range n.children {
		child := &t.nodes[childID]
		q := child.valueSum / float64(child.visits)
		explore := temperature * cPuct *
			math.Sqrt(logParent/(1+float64(child.visits))) *
			math.Sqrt(math.Max(child.prior, 1e-6))
		if score := q + explore; score > bestScore {
			bestScore = score
			best = childID
		}
	}
	if best == noNode {
		panic("selectChild called on a node without children")
	}
	return best
}

// backpropagate walks from the node to the root, accumulating the combined
// evaluation at every ancestor inclusive of the node itself.
func (t *tree) backpropagate(id nodeID, value float64) {
	for current := id; current != noNode; current = t.nodes[current].parent {
		n := &t.nodes[current]
		n.visits++
		n.valueSum += value
	}
}

func weightedPick(candidates []candidate, rng *rand.Rand) int {
	total := 0.0
	for _, c := range candidates {
		total += c.weight
	}
	if total <= 0 {
		return rng.Intn(len(candidates))
	}
	r := rng.Float64() * total
	for i, c := range candidates {
		r -= c.weight
		if r <= 0 {
			return i
		}
	}
	return len(candidates) - 1
}
