package searcher

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/experiments/metrics"
	"github.com/specialjcg/take-it-easy-sub003/game"
)

// seedStride separates per-worker RNG streams.
const seedStride = 0x9E3779B97F4A7C15

// Option configures an MCTS engine.
type Option func(*MCTS)

// MCTS runs Monte Carlo Tree Search over tile placements. One engine is
// reusable across turns; every FindBestMove call builds a fresh tree.
type MCTS struct {
	base      int
	duration  time.Duration
	workers   int
	seed      uint64
	hp        Hyperparameters
	evaluator Evaluator
	metrics   metrics.Collector
}

// WithSimulations sets the base simulation budget, before the phase
// multiplier is applied.
func WithSimulations(base int) Option {
	return func(m *MCTS) {
		if base > 0 {
			m.base = base
		}
	}
}

// WithDuration sets an optional wall-clock budget. The deadline is checked
// between simulations only; the search always returns the best move found
// so far.
func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithRootParallelism runs the given number of independent trees
// concurrently and aggregates their root statistics. Each tree is owned by
// one goroutine; the only shared state is read-only.
func WithRootParallelism(workers int) Option {
	return func(m *MCTS) {
		if workers > 0 {
			m.workers = workers
		}
	}
}

// WithSeed fixes the RNG seed. Two searches with the same seed and inputs
// choose the same move and build identical tree statistics.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// WithHyperparameters replaces the default configuration.
func WithHyperparameters(hp Hyperparameters) Option {
	return func(m *MCTS) {
		m.hp = hp
	}
}

// WithEvaluator replaces the default pure evaluator.
func WithEvaluator(evaluator Evaluator) Option {
	return func(m *MCTS) {
		m.evaluator = evaluator
	}
}

// WithMetrics attaches a live metrics collector.
func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// NewMCTS returns an engine with the tuned default configuration: 150 base
// simulations, a single tree, pure rollout evaluation.
func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{
		base:      150,
		workers:   1,
		seed:      1,
		hp:        DefaultHyperparameters(),
		evaluator: NewPureEvaluator(),
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Result is the outcome of one search.
type Result struct {
	// Position is the chosen board position.
	Position int
	// Policy is the root visit distribution over all board positions.
	Policy [game.BoardSize]float64
	// Value is the mean combined evaluation of the chosen child.
	Value float64
	// Metric reports the work done, when a collector is attached.
	Metric metrics.SearchMetric
}

// rootStats are the aggregatable root-child statistics of one tree.
type rootStats struct {
	visits   [game.BoardSize]int
	valueSum [game.BoardSize]float64
}

// FindBestMove searches for the best position to place the drawn tile.
// turn is the zero-based index of the current placement, totalTurns the game
// length. Returns ErrNoLegalMoves when the board offers no placement, and a
// ConfigError when the hyperparameters are invalid.
func (m *MCTS) FindBestMove(board game.Board, tile game.Tile, deck game.Deck, turn, totalTurns int) (Result, error) {
	if err := m.hp.Validate(); err != nil {
		return Result{}, err
	}

	legal := board.LegalMoves()
	if len(legal) == 0 {
		return Result{}, ErrNoLegalMoves
	}

	m.metrics.Start(m.workers)

	budget := m.hp.SimulationBudget(turn, m.base)
	if budget < 1 {
		budget = 1
	}

	var deadline time.Time
	if m.duration > 0 {
		deadline = time.Now().Add(m.duration)
	}

	stats := make([]rootStats, m.workers)
	if m.workers == 1 {
		stats[0] = m.runTree(board, tile, deck, legal, turn, totalTurns, budget, deadline, m.seed)
	} else {
		var wg sync.WaitGroup
		for i := 0; i < m.workers; i++ {
			wg.Add(1)
			go func(worker int) {
				defer wg.Done()
				seed := m.seed + uint64(worker)*seedStride
				stats[worker] = m.runTree(board, tile, deck, legal, turn, totalTurns, budget, deadline, seed)
			}(i)
		}
		wg.Wait()
	}

	var total rootStats
	for _, s := range stats {
		for p := 0; p < game.BoardSize; p++ {
			total.visits[p] += s.visits[p]
			total.valueSum[p] += s.valueSum[p]
		}
	}

	return m.decide(total, turn), nil
}

// runTree builds one search tree and runs it for up to budget simulations.
func (m *MCTS) runTree(board game.Board, tile game.Tile, deck game.Deck, legal []int,
	turn, totalTurns, budget int, deadline time.Time, seed uint64) rootStats {

	rng := rand.New(rand.NewSource(seed))
	t := newTree(board, tile, deck)

	root := m.evaluator.evaluateRoot(board, tile, deck, legal, turn, totalTurns, m.hp, rng)
	if root.degraded {
		m.metrics.AddDegraded()
	}

	variance := valueVariance(root.values)
	cPuct := m.hp.ExplorationConstant(turn, variance)
	temperature := m.hp.Temperature(turn)

	log.Trace().
		Int("turn", turn).
		Float64("variance", variance).
		Float64("c_puct", cPuct).
		Float64("temperature", temperature).
		Int("budget", budget).
		Msg("search configured")

	t.prepare(0, root.priors, m.hp)

	for i := 0; i < budget; i++ {
		// The deadline is only consulted between simulations, and never
		// before the first one: a timed-out search still returns a move.
		if i > 0 && !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		m.simulate(t, totalTurns, cPuct, temperature, root.entropy, rng)
		m.metrics.AddSimulation()
	}

	var stats rootStats
	for _, childID := range t.root().children {
		child := &t.nodes[childID]
		stats.visits[child.position] = child.visits
		stats.valueSum[child.position] = child.valueSum
	}
	return stats
}

// simulate runs one Select - Expand - Evaluate - Backpropagate cycle.
func (m *MCTS) simulate(t *tree, totalTurns int, cPuct, temperature, entropy float64, rng *rand.Rand) {
	id := nodeID(0)
	for {
		t.prepare(id, nil, m.hp)
		n := &t.nodes[id]

		if n.terminal {
			t.backpropagate(id, normalizeScore(float64(n.board.Score())))
			return
		}

		if len(n.untried) > 0 {
			childID := t.expand(id, rng)
			child := &t.nodes[childID]
			parent := &t.nodes[child.parent]

			eval := m.evaluator.evaluateLeaf(
				parent.board, parent.deck, child.position, parent.tile,
				parent.board.Turn(), totalTurns, m.hp, entropy, rng)
			if eval.Degraded {
				m.metrics.AddDegraded()
			}

			child.lastEval = eval.Combined
			t.backpropagate(childID, eval.Combined)
			return
		}

		id = t.selectChild(id, cPuct, temperature)
	}
}

// decide extracts the final move from the aggregated root statistics. Early
// turns pick the most visited child: visit counts integrate evidence across
// many simulations and resist single-evaluation noise. Late turns pick the
// best mean value: with few turns left the search must act on its best
// current estimate rather than wait for visits to concentrate.
func (m *MCTS) decide(stats rootStats, turn int) Result {
	byValue := turn >= m.hp.LateTurnStart

	best := -1
	bestScore := 0.0
	totalVisits := 0
	for position := 0; position < game.BoardSize; position++ {
		if stats.visits[position] == 0 {
			continue
		}
		totalVisits += stats.visits[position]

		score := float64(stats.visits[position])
		if byValue {
			score = stats.valueSum[position] / float64(stats.visits[position])
		}
		if best == -1 || score > bestScore {
			bestScore = score
			best = position
		}
	}

	result := Result{Position: best, Metric: m.metrics.Complete()}
	if best >= 0 && stats.visits[best] > 0 {
		result.Value = stats.valueSum[best] / float64(stats.visits[best])
	}
	if totalVisits > 0 {
		for position := 0; position < game.BoardSize; position++ {
			result.Policy[position] = float64(stats.visits[position]) / float64(totalVisits)
		}
	}
	return result
}

// valueVariance measures how much the provisional value estimates disagree.
func valueVariance(values map[int]float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return variance / float64(len(values))
}
