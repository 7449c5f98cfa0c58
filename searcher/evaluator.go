package searcher

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"github.com/specialjcg/take-it-easy-sub003/game"
	"github.com/specialjcg/take-it-easy-sub003/neural"
)

// EvaluatorMode selects the evaluation strategy. The variant set is closed:
// the three modes are the only ones that ever existed in production, so a
// tagged value beats an open interface.
type EvaluatorMode int

const (
	// ModeNeural blends network value/policy estimates with rollouts and
	// heuristics. Requires an inference collaborator.
	ModeNeural EvaluatorMode = iota
	// ModePure never touches the network: rollouts plus static heuristics
	// only. The fallback and ablation baseline.
	ModePure
	// ModeHybrid is ModeNeural with a nil-tolerant network: the network
	// contribution can be disabled at runtime by setting WeightValue to 0,
	// the documented remedy for a miscalibrated checkpoint.
	ModeHybrid
)

// EvaluationResult is the transient per-leaf evaluation, consumed by
// backpropagation within the same simulation.
type EvaluationResult struct {
	Value           float64
	RolloutScore    float64
	HeuristicScore  float64
	ContextualScore float64
	Combined        float64

	// Degraded marks that network inference was wanted but failed, and the
	// leaf fell back to rollout+heuristic scoring.
	Degraded bool
}

// Evaluator scores candidate placements by blending up to four signals:
// learned value, rollout outcome, static heuristic and contextual boost.
// No single signal is reliable alone; the blend is a tunable hedge.
type Evaluator struct {
	mode       EvaluatorMode
	inference  neural.Inference
	rollout    Rollout
	contextual ContextualFn
}

// NewNeuralEvaluator returns a network-backed evaluator. The inference
// collaborator is required; passing nil is a programming error.
func NewNeuralEvaluator(inference neural.Inference) Evaluator {
	if inference == nil {
		panic("neural evaluator requires an inference collaborator")
	}
	return Evaluator{
		mode:       ModeNeural,
		inference:  inference,
		rollout:    NewRollout(),
		contextual: entropyLineBoost,
	}
}

// NewPureEvaluator returns an evaluator that relies on rollouts and static
// heuristics only.
func NewPureEvaluator() Evaluator {
	return Evaluator{
		mode:       ModePure,
		rollout:    NewRollout(),
		contextual: entropyLineBoost,
	}
}

// NewHybridEvaluator returns a network-backed evaluator that tolerates a nil
// or disabled network.
func NewHybridEvaluator(inference neural.Inference) Evaluator {
	return Evaluator{
		mode:       ModeHybrid,
		inference:  inference,
		rollout:    NewRollout(),
		contextual: entropyLineBoost,
	}
}

// Mode returns the evaluation strategy tag.
func (e Evaluator) Mode() EvaluatorMode {
	return e.mode
}

// WithContextual swaps the contextual scoring function.
func (e Evaluator) WithContextual(fn ContextualFn) Evaluator {
	e.contextual = fn
	return e
}

// WithRollout swaps the rollout policy.
func (e Evaluator) WithRollout(r Rollout) Evaluator {
	e.rollout = r
	return e
}

// usesNetwork reports whether this evaluation should invoke inference at
// all. A zero value weight disables the network contribution entirely, so
// skipping the call makes the search output provably independent of
// whatever the network would have returned.
func (e Evaluator) usesNetwork(hp Hyperparameters) bool {
	return e.mode != ModePure && e.inference != nil && hp.WeightValue > 0
}

// rootEvaluation is the once-per-search root analysis: move priors for
// expansion ranking, provisional value estimates for the variance signal,
// and the normalized policy entropy feeding the contextual boost.
type rootEvaluation struct {
	priors   map[int]float64
	values   map[int]float64
	entropy  float64
	degraded bool
}

func (e Evaluator) evaluateRoot(board game.Board, tile game.Tile, deck game.Deck,
	legal []int, turn, totalTurns int, hp Hyperparameters, rng *rand.Rand) rootEvaluation {

	out := rootEvaluation{
		priors:  make(map[int]float64, len(legal)),
		values:  make(map[int]float64, len(legal)),
		entropy: 1.0,
	}

	if e.usesNetwork(hp) {
		pred, err := e.inference.Infer(neural.Encode(board, tile, deck, turn, totalTurns))
		if err != nil {
			log.Warn().Err(err).Int("turn", turn).
				Msg("root inference failed, falling back to heuristic priors")
			out.degraded = true
		} else {
			out.priors = maskPolicy(pred.Policy, legal)
			out.entropy = normalizedEntropy(out.priors)
		}
	}
	if len(out.priors) == 0 {
		out.priors = heuristicPriors(board, tile, legal, turn)
	}

	// Provisional value estimates from quick rollouts. Network value heads
	// proved architecturally blind to parts of this state space, so the
	// variance signal is grounded in simulation instead.
	childDeck := deck.Remove(tile)
	for _, position := range legal {
		child := board.Place(position, tile)
		out.values[position] = e.rollout.Simulate(child, childDeck, hp.RolloutDefault, rng)
	}

	return out
}

// evaluateLeaf scores the board reached by placing tile at position under
// parent. Rollout count adapts to how decisive the provisional value
// estimate is.
func (e Evaluator) evaluateLeaf(parent game.Board, deck game.Deck, position int,
	tile game.Tile, turn, totalTurns int, hp Hyperparameters, entropy float64,
	rng *rand.Rand) EvaluationResult {

	child := parent.Place(position, tile)
	childDeck := deck.Remove(tile)

	if child.IsFull() {
		v := normalizeScore(float64(child.Score()))
		return EvaluationResult{
			Value:        v,
			RolloutScore: v,
			Combined:     v,
		}
	}

	value := 0.0
	networkOK := false
	degraded := false
	if e.usesNetwork(hp) {
		pred, err := e.inference.Infer(neural.Encode(child, tile, childDeck, turn+1, totalTurns))
		if err != nil {
			log.Warn().Err(err).Int("position", position).
				Msg("leaf inference failed, falling back to rollout evaluation")
			degraded = true
		} else {
			value = clamp(pred.Value, -1, 1)
			networkOK = true
		}
	}

	provisional := 0.0
	if networkOK {
		provisional = value
	}
	rolloutScore := e.rollout.Simulate(child, childDeck, hp.RolloutCount(provisional), rng)
	heuristicScore := clamp(positionScore(parent, position, tile, turn)/heuristicScale, -1, 1)
	contextualScore := clamp(e.contextual(parent, position, tile, turn, entropy), -1, 1)

	// When the network is absent or failed, its weight folds into the
	// rollout term so the blend still sums to 1.
	weightValue, weightRollout := hp.WeightValue, hp.WeightRollout
	if !networkOK {
		weightRollout += weightValue
		weightValue = 0
	}

	combined := weightValue*value +
		weightRollout*rolloutScore +
		hp.WeightHeuristic*heuristicScore +
		hp.WeightContextual*contextualScore

	return EvaluationResult{
		Value:           value,
		RolloutScore:    rolloutScore,
		HeuristicScore:  heuristicScore,
		ContextualScore: contextualScore,
		Combined:        combined,
		Degraded:        degraded,
	}
}

// maskPolicy keeps the policy mass on legal moves and renormalizes.
func maskPolicy(policy []float64, legal []int) map[int]float64 {
	priors := make(map[int]float64, len(legal))
	sum := 0.0
	for _, position := range legal {
		p := 0.0
		if position < len(policy) && policy[position] > 0 {
			p = policy[position]
		}
		priors[position] = p
		sum += p
	}
	if sum <= 0 {
		uniform := 1.0 / float64(len(legal))
		for _, position := range legal {
			priors[position] = uniform
		}
		return priors
	}
	for position := range priors {
		priors[position] /= sum
	}
	return priors
}

// heuristicPriors ranks legal moves by the static heuristic and normalizes
// into a probability distribution.
func heuristicPriors(board game.Board, tile game.Tile, legal []int, turn int) map[int]float64 {
	scores := make(map[int]float64, len(legal))
	minScore := math.Inf(1)
	for _, position := range legal {
		s := positionScore(board, position, tile, turn)
		scores[position] = s
		if s < minScore {
			minScore = s
		}
	}

	sum := 0.0
	for position, s := range scores {
		// Shift above zero so the weakest move keeps a nonzero prior.
		scores[position] = s - minScore + 1
		sum += scores[position]
	}
	for position := range scores {
		scores[position] /= sum
	}
	return scores
}

// normalizedEntropy returns the entropy of the distribution scaled into
// [0, 1] by the maximum entropy for its support size.
func normalizedEntropy(priors map[int]float64) float64 {
	if len(priors) <= 1 {
		return 0
	}
	entropy := 0.0
	for _, p := range priors {
		if p > 1e-10 {
			entropy -= p * math.Log(p)
		}
	}
	return clamp(entropy/math.Log(float64(len(priors))), 0, 1)
}
