package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarizes one search: how much work it did and whether the
// evaluator had to degrade.
type SearchMetric struct {
	Workers     int
	Duration    time.Duration
	Simulations int
	Degraded    int
}

// MoveMetric ties a search metric to its place in a game.
type MoveMetric struct {
	Turn     int
	Position int
	SearchMetric
}

// GameMetric summarizes one full selfplay game.
type GameMetric struct {
	StartTime time.Time
	Duration  time.Duration
	Score     int
}

// Collector gathers search counters. Counters use atomics so root-parallel
// workers can report concurrently.
type Collector interface {
	Start(workers int)
	AddSimulation()
	AddDegraded()
	Complete() SearchMetric
}

type collector struct {
	workers     int
	startTime   time.Time
	simulations atomic.Int32
	degraded    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(workers int) {
	c.startTime = time.Now()
	c.workers = workers
	c.simulations.Store(0)
	c.degraded.Store(0)
}

func (c *collector) AddSimulation() {
	c.simulations.Add(1)
}

func (c *collector) AddDegraded() {
	c.degraded.Add(1)
}

func (c *collector) Complete() SearchMetric {
	return SearchMetric{
		Workers:     c.workers,
		Duration:    time.Since(c.startTime),
		Simulations: int(c.simulations.Load()),
		Degraded:    int(c.degraded.Load()),
	}
}

type dummyCollector struct{}

// NewDummyCollector returns a no-op collector for searches that do not
// record metrics.
func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (*dummyCollector) Start(workers int)      {}
func (*dummyCollector) AddSimulation()         {}
func (*dummyCollector) AddDegraded()           {}
func (*dummyCollector) Complete() SearchMetric { return SearchMetric{} }
