package testutil

import "fmt"

// FixedRunIDGenerator returns the same run ID every time.
//
// Suites use one generator per case so a case's golden report does not depend
// on how many cases ran before it.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator that always returns id.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements engine.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequentialRunIDGenerator returns prefix-0001, prefix-0002, ...
//
// Unlike engine.FixedGenerator it never runs out, and Reset lets a test replay
// the same sequence.
type SequentialRunIDGenerator struct {
	prefix string
	clock  *DeterministicClock
}

// NewSequentialRunIDGenerator creates a generator starting at prefix-0001.
// An empty prefix defaults to "run".
func NewSequentialRunIDGenerator(prefix string) *SequentialRunIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDGenerator{prefix: prefix, clock: NewDeterministicClock()}
}

// Generate returns the next run ID in the sequence.
func (g *SequentialRunIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%04d", g.prefix, g.clock.Next())
}

// Reset restarts the sequence at prefix-0001.
func (g *SequentialRunIDGenerator) Reset() {
	g.clock.Reset()
}
