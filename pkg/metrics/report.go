package metrics

import (
	json "github.com/goccy/go-json"
)

// Report is a point-in-time snapshot of every metric that recorded
// data, shaped for JSON debug dumps.
type Report struct {
	Timings  []TimingStats    `json:"timings,omitempty"`
	Counters map[string]int64 `json:"counters,omitempty"`
}

// Snapshot collects the current values of all metrics with data.
func Snapshot() Report {
	r := Report{Timings: AllTimingStats()}
	for _, c := range AllCounters() {
		if v := c.Value(); v != 0 {
			if r.Counters == nil {
				r.Counters = make(map[string]int64, 4)
			}
			r.Counters[c.Name()] = v
		}
	}
	return r
}

// JSON renders the report indented for log output.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
