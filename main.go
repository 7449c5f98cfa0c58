package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/specialjcg/take-it-easy-sub003/engine"
	"github.com/specialjcg/take-it-easy-sub003/experiments"
	"github.com/specialjcg/take-it-easy-sub003/game"
	"github.com/specialjcg/take-it-easy-sub003/neural"
	"github.com/specialjcg/take-it-easy-sub003/searcher"
	"github.com/specialjcg/take-it-easy-sub003/searcher/agent"
)

// boardColumns is the render layout: positions run column by column, west to
// east, matching the line tables.
var boardColumns = [][]int{
	{0, 1, 2},
	{3, 4, 5, 6},
	{7, 8, 9, 10, 11},
	{12, 13, 14, 15},
	{16, 17, 18},
}

func main() {
	mode := flag.String("mode", "play", "play | gridsearch")
	games := flag.Int("games", 10, "games per grid-search candidate")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "RNG seed")
	workers := flag.Int("workers", 4, "parallel search trees")
	simulations := flag.Int("simulations", 150, "base simulation budget per move")
	model := flag.String("model", "", "optional ONNX model path for hybrid evaluation")
	configPath := flag.String("config", "", "optional hyperparameter YAML file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	switch *mode {
	case "play":
		runGame(*seed, *workers, *simulations, *model, *configPath)
	case "gridsearch":
		if err := experiments.RunWeightGridSearch(*games); err != nil {
			log.Fatal().Err(err).Msg("grid search failed")
		}
	default:
		log.Fatal().Msgf("unknown mode %q", *mode)
	}
}

// runGame plays one selfplay game and renders the final board.
func runGame(seed uint64, workers, simulations int, model, configPath string) {
	hp := searcher.DefaultHyperparameters()
	if configPath != "" {
		loaded, err := searcher.LoadHyperparameters(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load hyperparameters")
		}
		hp = loaded
	}

	options := []searcher.Option{
		searcher.WithSimulations(simulations),
		searcher.WithRootParallelism(workers),
		searcher.WithSeed(seed),
		searcher.WithHyperparameters(hp),
		searcher.WithMetrics(),
	}

	if model != "" {
		client, err := neural.NewOnnxClient(model)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load model")
		}
		defer client.Close()
		options = append(options, searcher.WithEvaluator(searcher.NewHybridEvaluator(client)))
	}

	mcts := searcher.NewMCTS(options...)
	e := engine.LocalEngine(agent.NewEvaluationAgent(mcts), seed)

	gameMetric, _, err := e.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("game failed")
	}

	renderBoard(e.Board)
	fmt.Printf("Final score: %d (in %s)\n", gameMetric.Score, gameMetric.Duration.Round(time.Millisecond))
}

// renderBoard prints the hex board column by column, coloring each band
// value so complete lines stand out.
func renderBoard(board game.Board) {
	output := termenv.NewOutput(os.Stdout)
	profile := output.ColorProfile()

	for _, column := range boardColumns {
		indent := (5 - len(column)) * 4
		fmt.Printf("%*s", indent, "")
		for _, position := range column {
			tile := board.Tiles[position]
			if tile.Empty() {
				fmt.Printf("[ . . . ]")
				continue
			}
			fmt.Printf("[%s %s %s]",
				renderValue(profile, tile.A),
				renderValue(profile, tile.B),
				renderValue(profile, tile.C))
		}
		fmt.Println()
	}
}

// bandColors maps tile values to ANSI colors, roughly following the physical
// game's tile colors.
var bandColors = map[int]string{
	1: "7", 2: "13", 3: "12", 4: "14",
	5: "11", 6: "9", 7: "10", 8: "1", 9: "3",
}

func renderValue(profile termenv.Profile, value int) string {
	s := termenv.String(fmt.Sprintf("%d", value))
	if color, ok := bandColors[value]; ok {
		s = s.Foreground(profile.Color(color))
	}
	return s.String()
}
