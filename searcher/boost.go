package searcher

import "github.com/specialjcg/take-it-easy-sub003/game"

// ContextualFn scores the option-preserving quality of a placement in
// [-1, 1]. The exact formula is deliberately pluggable: different tuning
// experiments used different variants, and none was ever declared canonical.
type ContextualFn func(board game.Board, position int, tile game.Tile, turn int, entropy float64) float64

// entropyLineBoost is the default contextual term: line-completion progress
// weighted by the policy entropy. When the policy is flat (high entropy) the
// network offers little guidance, so domain context carries more of the
// decision; when the policy is sharp the boost fades out.
func entropyLineBoost(board game.Board, position int, tile game.Tile, turn int, entropy float64) float64 {
	best := 0.0
	for _, line := range game.LinesThrough(position) {
		v := tile.Band(line.Band)
		matching, conflict := lineStatus(board, line, position, v)
		if conflict {
			continue
		}

		// Progress weight grows sharply as the line nears completion.
		var progress float64
		switch matching {
		case 0:
			progress = startingWeight(v, position)
		case 1:
			progress = 0.06
		case 2:
			progress = 0.2
		case 3:
			progress = 0.5
		default:
			progress = 1.0
		}

		boost := progress * float64(v) / 9.0
		if boost > best {
			best = boost
		}
	}

	boost := best * clamp(entropy, 0, 1)
	return clamp(boost, -1, 1)
}

// startingWeight seeds empty lines: high band values are only worth starting
// on lines long enough to pay them off.
func startingWeight(v, position int) float64 {
	switch {
	case v == 9 && centerLine[position]:
		return 0.05
	case v == 5 && strategicPositions[position]:
		return 0.04
	case v == 1:
		return 0.03
	default:
		return 0
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
