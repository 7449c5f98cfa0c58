package searcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultHyperparameters(t *testing.T) {
	hp := DefaultHyperparameters()

	require.NoError(t, hp.Validate(), "tuned defaults should validate")

	sum := hp.WeightValue + hp.WeightRollout + hp.WeightHeuristic + hp.WeightContextual
	require.InDelta(t, 1.0, sum, 0.01, "blend weights should sum to one")
}

func TestValidate(t *testing.T) {
	t.Run("weights not summing to one", func(t *testing.T) {
		hp := DefaultHyperparameters()
		hp.WeightValue = 0.9

		err := hp.Validate()

		require.Error(t, err)
		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr, "validation failures should be ConfigErrors")
	})

	t.Run("weight outside the unit interval", func(t *testing.T) {
		hp := DefaultHyperparameters()
		hp.WeightValue = 1.3
		hp.WeightRollout = -0.3

		require.Error(t, hp.Validate())
	})

	t.Run("pruning ratios decreasing over phases", func(t *testing.T) {
		hp := DefaultHyperparameters()
		hp.PruneEarly = 0.5
		hp.PruneLate = 0.1

		require.Error(t, hp.Validate())
	})

	t.Run("phase thresholds out of order", func(t *testing.T) {
		hp := DefaultHyperparameters()
		hp.LateTurnStart = hp.EarlyTurnEnd - 1

		require.Error(t, hp.Validate())
	})

	t.Run("temperature decay window inverted", func(t *testing.T) {
		hp := DefaultHyperparameters()
		hp.TempDecayStart = 13
		hp.TempDecayEnd = 7

		require.Error(t, hp.Validate())
	})

	t.Run("non-positive rollout count", func(t *testing.T) {
		hp := DefaultHyperparameters()
		hp.RolloutDefault = 0

		require.Error(t, hp.Validate())
	})
}

func TestCPuct(t *testing.T) {
	hp := DefaultHyperparameters()

	require.Equal(t, hp.CPuctEarly, hp.CPuct(0), "early turns use the early constant")
	require.Equal(t, hp.CPuctEarly, hp.CPuct(hp.EarlyTurnEnd-1))
	require.Equal(t, hp.CPuctMid, hp.CPuct(hp.EarlyTurnEnd), "mid game starts at the early boundary")
	require.Equal(t, hp.CPuctLate, hp.CPuct(hp.LateTurnStart), "late game starts at the late boundary")
	require.Equal(t, hp.CPuctLate, hp.CPuct(18))
}

func TestExplorationConstant(t *testing.T) {
	hp := DefaultHyperparameters()

	t.Run("high variance widens exploration", func(t *testing.T) {
		got := hp.ExplorationConstant(0, 0.6)
		require.InDelta(t, hp.CPuctEarly*hp.VarianceMultHigh, got, 1e-9)
	})

	t.Run("moderate variance leaves the constant near nominal", func(t *testing.T) {
		got := hp.ExplorationConstant(0, 0.1)
		require.InDelta(t, hp.CPuctEarly, got, 1e-9)
	})

	t.Run("low variance narrows exploration", func(t *testing.T) {
		got := hp.ExplorationConstant(0, 0.01)
		require.InDelta(t, hp.CPuctEarly*hp.VarianceMultLow, got, 1e-9)
	})
}

func TestPruningRatio(t *testing.T) {
	hp := DefaultHyperparameters()

	previous := 0.0
	for turn := 0; turn < 19; turn++ {
		ratio := hp.PruningRatio(turn)
		require.GreaterOrEqual(t, ratio, previous, "pruning should only tighten as the game goes on")
		require.LessOrEqual(t, ratio, 1.0)
		previous = ratio
	}
	require.Equal(t, hp.PruneEarly, hp.PruningRatio(0))
	require.Equal(t, hp.PruneLate, hp.PruningRatio(18))
}

func TestRolloutCount(t *testing.T) {
	hp := DefaultHyperparameters()

	require.Equal(t, hp.RolloutStrong, hp.RolloutCount(0.9), "confident positions need few rollouts")
	require.Equal(t, hp.RolloutMedium, hp.RolloutCount(0.4))
	require.Equal(t, hp.RolloutDefault, hp.RolloutCount(0.0))
	require.Equal(t, hp.RolloutWeak, hp.RolloutCount(-0.8), "desperate positions get extra rollouts")
}

func TestTemperature(t *testing.T) {
	hp := DefaultHyperparameters()

	require.Equal(t, hp.TempInitial, hp.Temperature(0), "before the decay window the initial value holds")
	require.Equal(t, hp.TempInitial, hp.Temperature(hp.TempDecayStart))
	require.Equal(t, hp.TempFinal, hp.Temperature(hp.TempDecayEnd), "after the decay window the final value holds")
	require.Equal(t, hp.TempFinal, hp.Temperature(18))

	previous := hp.TempInitial
	for turn := hp.TempDecayStart; turn <= hp.TempDecayEnd; turn++ {
		temp := hp.Temperature(turn)
		require.LessOrEqual(t, temp, previous, "temperature should decay monotonically")
		require.GreaterOrEqual(t, temp, hp.TempFinal)
		previous = temp
	}
}

func TestSimulationBudget(t *testing.T) {
	hp := DefaultHyperparameters()

	early := hp.SimulationBudget(0, 150)
	mid := hp.SimulationBudget(hp.EarlyTurnEnd, 150)
	late := hp.SimulationBudget(hp.LateTurnStart, 150)

	require.Equal(t, 150, mid, "mid game spends the base budget")
	require.Less(t, early, mid, "early turns spend a reduced budget")
	require.Greater(t, late, mid, "late turns spend an increased budget")
	require.InDelta(t, 150*hp.SimMultEarly, float64(early), 1.0)
	require.InDelta(t, 150*hp.SimMultLate, float64(late), 1.0)
}

func TestLoadHyperparameters(t *testing.T) {
	t.Run("overrides merge onto defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "c_puct_early: 5.0\ntemp_initial: 2.0\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		hp, err := LoadHyperparameters(path)

		require.NoError(t, err)
		require.Equal(t, 5.0, hp.CPuctEarly)
		require.Equal(t, 2.0, hp.TempInitial)
		require.Equal(t, DefaultHyperparameters().CPuctMid, hp.CPuctMid, "untouched fields keep their defaults")
	})

	t.Run("invalid overrides are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "weight_value: 0.9\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadHyperparameters(path)

		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadHyperparameters("does/not/exist.yaml")
		require.Error(t, err)
	})
}
