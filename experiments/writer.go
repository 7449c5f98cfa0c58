package experiments

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter prepares an output directory for one experiment run, named by
// the experiment and the current timestamp.
func NewWriter(experiment string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("experiments", experiment, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) WriteCandidateConfigs(configs []CandidateConfig) error {
	path := filepath.Join(w.baseDir, "candidate_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create candidate configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "config", "weight_value", "weight_rollout", "weight_heuristic", "weight_contextual"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write candidate configs header: %w", err)
	}

	for _, config := range configs {
		hp := config.Hyperparameters
		row := []string{
			strconv.Itoa(config.ID),
			hp.String(),
			strconv.FormatFloat(hp.WeightValue, 'f', -1, 64),
			strconv.FormatFloat(hp.WeightRollout, 'f', -1, 64),
			strconv.FormatFloat(hp.WeightHeuristic, 'f', -1, 64),
			strconv.FormatFloat(hp.WeightContextual, 'f', -1, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write candidate config row: %w", err)
		}
	}

	return nil
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"id", "config", "score", "start_time", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.Config),
			strconv.Itoa(record.Score),
			record.StartTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	return nil
}
