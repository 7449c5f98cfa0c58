package searcher

import "errors"

// ErrNoLegalMoves is returned when a search is asked to decide among zero
// legal moves. That only happens when the caller's game-state management is
// broken, so it propagates instead of being recovered.
var ErrNoLegalMoves = errors.New("no legal moves to search")

// ConfigError reports an invalid hyperparameter configuration. It is fatal
// to search startup and never silently corrected.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid search configuration: " + e.Reason
}
