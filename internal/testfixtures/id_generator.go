package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator mints sequential record identifiers ("room-1", "booking-2", ...)
// so fixture records and service output stay predictable across a test run.
// Production injects uuid.NewString instead.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	minted uint64
}

// NewIDGenerator constructs a generator for identifiers with the given
// prefix. An empty prefix yields bare "record-N" identifiers.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "record"
	}
	return &IDGenerator{prefix: prefix}
}

// Next mints the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.minted++
	return fmt.Sprintf("%s-%d", g.prefix, g.minted)
}

// NextFunc adapts the generator to the idGenerator dependency the services
// take. A nil generator yields empty identifiers, which the services treat as
// unset.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Reset restarts the sequence under a new prefix, so one test can mint
// "room-1", "room-2" and then "booking-1" from the same generator.
func (g *IDGenerator) Reset(prefix string) {
	g.mu.Lock()
	if prefix != "" {
		g.prefix = prefix
	}
	g.minted = 0
	g.mu.Unlock()
}
