// Package experiments holds the hyperparameter tuning harness. Candidate
// configurations play full selfplay games; the per-game records land in CSV
// files for offline analysis.
package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/specialjcg/take-it-easy-sub003/engine"
	"github.com/specialjcg/take-it-easy-sub003/experiments/metrics"
	"github.com/specialjcg/take-it-easy-sub003/searcher"
	"github.com/specialjcg/take-it-easy-sub003/searcher/agent"
)

// CandidateConfig is one grid-search candidate.
type CandidateConfig struct {
	ID              int
	Hyperparameters searcher.Hyperparameters
}

// GameRecord ties one selfplay game to the candidate that played it.
type GameRecord struct {
	ID     int
	Config int
	metrics.GameMetric
}

// RunWeightGridSearch sweeps the evaluation blend weights, playing numGames
// selfplay games per candidate with the pure evaluator, and writes the
// records to CSV.
func RunWeightGridSearch(numGames int) error {
	configs, err := weightCandidates()
	if err != nil {
		return err
	}
	return runExperiment("weight_grid", configs, numGames)
}

// weightCandidates varies the value/rollout split while keeping the small
// heuristic and contextual weights fixed.
func weightCandidates() ([]CandidateConfig, error) {
	valueWeights := []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75}

	configs := make([]CandidateConfig, 0, len(valueWeights))
	for i, wv := range valueWeights {
		hp := searcher.DefaultHyperparameters()
		hp.WeightValue = wv
		hp.WeightRollout = 0.9 - wv
		hp.WeightHeuristic = 0.05
		hp.WeightContextual = 0.05
		if err := hp.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d invalid: %w", i+1, err)
		}
		configs = append(configs, CandidateConfig{ID: i + 1, Hyperparameters: hp})
	}
	return configs, nil
}

func runExperiment(name string, configs []CandidateConfig, numGames int) error {
	log.Info().Msgf("starting %s experiment with %d candidates...", name, len(configs))

	writer, err := NewWriter(name)
	if err != nil {
		return err
	}
	if err := writer.WriteCandidateConfigs(configs); err != nil {
		return err
	}

	count := 0
	records := []GameRecord{}
	for _, config := range configs {
		log.Info().Int("config", config.ID).Msgf("candidate %s", config.Hyperparameters.String())

		total := 0
		for i := 0; i < numGames; i++ {
			mcts := searcher.NewMCTS(
				searcher.WithHyperparameters(config.Hyperparameters),
				searcher.WithSeed(uint64(config.ID*1000+i)),
				searcher.WithMetrics(),
			)
			e := engine.LocalEngine(agent.NewEvaluationAgent(mcts), uint64(i+1))

			gameMetric, _, err := e.Run()
			if err != nil {
				return fmt.Errorf("game %d of candidate %d failed: %w", i+1, config.ID, err)
			}

			count++
			total += gameMetric.Score
			records = append(records, GameRecord{
				ID:         count,
				Config:     config.ID,
				GameMetric: gameMetric,
			})
		}

		log.Info().
			Int("config", config.ID).
			Float64("mean_score", float64(total)/float64(numGames)).
			Msg("candidate finished")
	}

	if err := writer.WriteGameRecords(records); err != nil {
		return err
	}
	log.Info().Msgf("finished %s experiment: %d games recorded", name, count)
	return nil
}
