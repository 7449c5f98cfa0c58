package searcher

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Hyperparameters bundles every tunable knob of the search. Values are
// immutable once constructed: a tuned set is built (or loaded) once, validated,
// and then shared read-only across searches and workers.
type Hyperparameters struct {
	// Exploration constant by game phase. Higher = more exploration.
	CPuctEarly float64 `yaml:"c_puct_early"`
	CPuctMid   float64 `yaml:"c_puct_mid"`
	CPuctLate  float64 `yaml:"c_puct_late"`

	// Multipliers applied on top of c_puct depending on how much the value
	// estimates disagree. High variance means the evaluator is uncertain and
	// exploring is worth more.
	VarianceMultHigh float64 `yaml:"variance_mult_high"`
	VarianceMultLow  float64 `yaml:"variance_mult_low"`

	// Phase boundaries, zero-based turn indices. Turns below EarlyTurnEnd are
	// early game, turns at or above LateTurnStart are late game.
	EarlyTurnEnd  int `yaml:"early_turn_end"`
	LateTurnStart int `yaml:"late_turn_start"`

	// Fraction of lowest-ranked legal moves discarded before expansion.
	// Grows with the turn index: late game has fewer legal moves, so pruning
	// buys proportionally more depth on the branches that matter.
	PruneEarly   float64 `yaml:"prune_early"`
	PruneMid1    float64 `yaml:"prune_mid1"`
	PruneMid2    float64 `yaml:"prune_mid2"`
	PruneLate    float64 `yaml:"prune_late"`
	PruneMid1End int     `yaml:"prune_mid1_end"`
	PruneMid2End int     `yaml:"prune_mid2_end"`

	// Rollout counts keyed to how decisive the provisional value estimate is.
	// Ambiguous positions get more samples, clear ones fewer.
	RolloutStrong  int `yaml:"rollout_strong"`
	RolloutMedium  int `yaml:"rollout_medium"`
	RolloutDefault int `yaml:"rollout_default"`
	RolloutWeak    int `yaml:"rollout_weak"`

	// Evaluation blend weights. Must sum to 1.0 within 0.01.
	WeightValue      float64 `yaml:"weight_value"`
	WeightRollout    float64 `yaml:"weight_rollout"`
	WeightHeuristic  float64 `yaml:"weight_heuristic"`
	WeightContextual float64 `yaml:"weight_contextual"`

	// Simulation budget multipliers per phase, applied to a base budget.
	SimMultEarly float64 `yaml:"sim_mult_early"`
	SimMultMid   float64 `yaml:"sim_mult_mid"`
	SimMultLate  float64 `yaml:"sim_mult_late"`

	// Temperature annealing: TempInitial before TempDecayStart, linear decay
	// to TempFinal at TempDecayEnd, TempFinal afterwards.
	TempInitial    float64 `yaml:"temp_initial"`
	TempFinal      float64 `yaml:"temp_final"`
	TempDecayStart int     `yaml:"temp_decay_start"`
	TempDecayEnd   int     `yaml:"temp_decay_end"`
}

// DefaultHyperparameters returns the tuned production configuration.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		CPuctEarly: 4.2,
		CPuctMid:   3.8,
		CPuctLate:  3.0,

		VarianceMultHigh: 1.3,
		VarianceMultLow:  0.85,

		EarlyTurnEnd:  5,
		LateTurnStart: 16,

		PruneEarly:   0.05,
		PruneMid1:    0.10,
		PruneMid2:    0.15,
		PruneLate:    0.20,
		PruneMid1End: 10,
		PruneMid2End: 15,

		RolloutStrong:  3,
		RolloutMedium:  5,
		RolloutDefault: 7,
		RolloutWeak:    9,

		WeightValue:      0.65,
		WeightRollout:    0.25,
		WeightHeuristic:  0.05,
		WeightContextual: 0.05,

		SimMultEarly: 0.67,
		SimMultMid:   1.0,
		SimMultLate:  1.67,

		TempInitial:    1.8,
		TempFinal:      0.5,
		TempDecayStart: 7,
		TempDecayEnd:   13,
	}
}

// LoadHyperparameters reads a YAML file produced by the tuning tooling and
// validates it.
func LoadHyperparameters(path string) (Hyperparameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Hyperparameters{}, fmt.Errorf("failed to read hyperparameters file: %w", err)
	}
	hp := DefaultHyperparameters()
	if err := yaml.Unmarshal(data, &hp); err != nil {
		return Hyperparameters{}, fmt.Errorf("failed to parse hyperparameters file: %w", err)
	}
	if err := hp.Validate(); err != nil {
		return Hyperparameters{}, err
	}
	return hp, nil
}

// Validate checks the construction invariants. A configuration that fails
// validation must never be searched with: a wrong config silently producing
// a plausible answer is worse than a refused one.
func (hp Hyperparameters) Validate() error {
	sum := hp.WeightValue + hp.WeightRollout + hp.WeightHeuristic + hp.WeightContextual
	if math.Abs(sum-1.0) > 0.01 {
		return &ConfigError{Reason: fmt.Sprintf("evaluation weights must sum to 1.0, got %.3f", sum)}
	}
	for name, w := range map[string]float64{
		"weight_value":      hp.WeightValue,
		"weight_rollout":    hp.WeightRollout,
		"weight_heuristic":  hp.WeightHeuristic,
		"weight_contextual": hp.WeightContextual,
		"prune_early":       hp.PruneEarly,
		"prune_mid1":        hp.PruneMid1,
		"prune_mid2":        hp.PruneMid2,
		"prune_late":        hp.PruneLate,
	} {
		if w < 0 || w > 1 {
			return &ConfigError{Reason: fmt.Sprintf("%s must be within [0,1], got %.3f", name, w)}
		}
	}
	if !(hp.PruneEarly <= hp.PruneMid1 && hp.PruneMid1 <= hp.PruneMid2 && hp.PruneMid2 <= hp.PruneLate) {
		return &ConfigError{Reason: "pruning ratios must be non-decreasing across phases"}
	}
	if !(hp.EarlyTurnEnd <= hp.PruneMid1End && hp.PruneMid1End <= hp.PruneMid2End && hp.PruneMid2End <= hp.LateTurnStart) {
		return &ConfigError{Reason: "turn thresholds must be monotonically increasing"}
	}
	if hp.EarlyTurnEnd >= hp.LateTurnStart {
		return &ConfigError{Reason: "early phase must end before the late phase starts"}
	}
	if hp.TempDecayStart >= hp.TempDecayEnd {
		return &ConfigError{Reason: "temp_decay_start must be before temp_decay_end"}
	}
	if hp.RolloutStrong <= 0 || hp.RolloutMedium <= 0 || hp.RolloutDefault <= 0 || hp.RolloutWeak <= 0 {
		return &ConfigError{Reason: "rollout counts must be positive"}
	}
	if hp.SimMultEarly <= 0 || hp.SimMultMid <= 0 || hp.SimMultLate <= 0 {
		return &ConfigError{Reason: "simulation multipliers must be positive"}
	}
	return nil
}

// CPuct returns the phase base exploration constant for the turn.
func (hp Hyperparameters) CPuct(turn int) float64 {
	switch {
	case turn < hp.EarlyTurnEnd:
		return hp.CPuctEarly
	case turn >= hp.LateTurnStart:
		return hp.CPuctLate
	default:
		return hp.CPuctMid
	}
}

// VarianceMultiplier maps the variance of the current value estimates to a
// c_puct multiplier. Uncertain evaluations push the search toward
// exploration, confident ones toward exploitation.
func (hp Hyperparameters) VarianceMultiplier(variance float64) float64 {
	switch {
	case variance > 0.5:
		return hp.VarianceMultHigh
	case variance > 0.2:
		return 1.1
	case variance > 0.05:
		return 1.0
	default:
		return hp.VarianceMultLow
	}
}

// ExplorationConstant is the effective c_puct: phase base times the
// variance-responsive multiplier.
func (hp Hyperparameters) ExplorationConstant(turn int, variance float64) float64 {
	return hp.CPuct(turn) * hp.VarianceMultiplier(variance)
}

// PruningRatio returns the fraction of lowest-ranked moves to discard on the
// given turn. Non-decreasing in the turn index.
func (hp Hyperparameters) PruningRatio(turn int) float64 {
	switch {
	case turn < hp.EarlyTurnEnd:
		return hp.PruneEarly
	case turn < hp.PruneMid1End:
		return hp.PruneMid1
	case turn < hp.PruneMid2End:
		return hp.PruneMid2
	default:
		return hp.PruneLate
	}
}

// RolloutCount returns how many playouts to run for a leaf whose provisional
// value estimate is the given number in [-1,1]. Decisive estimates need fewer
// samples; ambiguous ones reduce decision variance the most per sample.
func (hp Hyperparameters) RolloutCount(valueEstimate float64) int {
	switch {
	case valueEstimate > 0.7:
		return hp.RolloutStrong
	case valueEstimate > 0.2:
		return hp.RolloutMedium
	case valueEstimate < -0.4:
		return hp.RolloutWeak
	default:
		return hp.RolloutDefault
	}
}

// SimulationBudget scales the base simulation count by the phase multiplier:
// fewer simulations early when moves are roughly interchangeable, more late
// when each decision is nearly final.
func (hp Hyperparameters) SimulationBudget(turn int, base int) int {
	mult := hp.SimMultMid
	switch {
	case turn < hp.EarlyTurnEnd:
		mult = hp.SimMultEarly
	case turn >= hp.LateTurnStart:
		mult = hp.SimMultLate
	}
	return int(math.Round(float64(base) * mult))
}

// Temperature returns the exploration temperature for the turn: TempInitial
// before the decay window, linear interpolation inside it, TempFinal after.
func (hp Hyperparameters) Temperature(turn int) float64 {
	switch {
	case turn < hp.TempDecayStart:
		return hp.TempInitial
	case turn >= hp.TempDecayEnd:
		return hp.TempFinal
	default:
		progress := float64(turn-hp.TempDecayStart) / float64(hp.TempDecayEnd-hp.TempDecayStart)
		return hp.TempInitial + progress*(hp.TempFinal-hp.TempInitial)
	}
}

// String renders a compact configuration tag used in experiment records.
func (hp Hyperparameters) String() string {
	return fmt.Sprintf(
		"c_puct[%.2f,%.2f,%.2f]_prune[%.2f,%.2f,%.2f,%.2f]_roll[%d,%d,%d,%d]_weights[%.2f,%.2f,%.2f,%.2f]",
		hp.CPuctEarly, hp.CPuctMid, hp.CPuctLate,
		hp.PruneEarly, hp.PruneMid1, hp.PruneMid2, hp.PruneLate,
		hp.RolloutStrong, hp.RolloutMedium, hp.RolloutDefault, hp.RolloutWeak,
		hp.WeightValue, hp.WeightRollout, hp.WeightHeuristic, hp.WeightContextual,
	)
}
