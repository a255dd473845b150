package metrics

import "sync/atomic"

// Counter tracks a monotonically increasing event count.
type Counter struct {
	name  string
	value int64
}

func newCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc adds one to the counter.
func (c *Counter) Inc() {
	if !enabled {
		return
	}
	atomic.AddInt64(&c.value, 1)
}

// Add adds n to the counter.
func (c *Counter) Add(n int64) {
	if !enabled {
		return
	}
	atomic.AddInt64(&c.value, n)
}

// Value returns the current count.
func (c *Counter) Value() int64 {
	return atomic.LoadInt64(&c.value)
}

// Name returns the counter name.
func (c *Counter) Name() string {
	return c.name
}

// Reset clears the counter.
func (c *Counter) Reset() {
	atomic.StoreInt64(&c.value, 0)
}

// Global counters for data-quality and cache events.
var (
	DroppedChainHops = newCounter("dropped_chain_hops")
	DanglingEdges    = newCounter("dangling_edges")
	DuplicateNodes   = newCounter("duplicate_nodes")
	IndexRebuilds    = newCounter("index_rebuilds")
	TopologyReloads  = newCounter("topology_reloads")
)

// AllCounters returns all registered counters.
func AllCounters() []*Counter {
	return []*Counter{
		DroppedChainHops,
		DanglingEdges,
		DuplicateNodes,
		IndexRebuilds,
		TopologyReloads,
	}
}
