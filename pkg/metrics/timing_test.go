package metrics

import (
	"strings"
	"testing"
	"time"
)

func TestTimingMetricRecord(t *testing.T) {
	SetEnabled(true)
	defer ResetAll()

	m := newTimingMetric("test_op")
	m.Record(10 * time.Millisecond)
	m.Record(30 * time.Millisecond)
	m.Record(20 * time.Millisecond)

	if got := m.Count(); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}

	stats := m.Stats()
	if stats.MaxMs != 30 {
		t.Errorf("MaxMs = %v, want 30", stats.MaxMs)
	}
	if stats.MinMs != 10 {
		t.Errorf("MinMs = %v, want 10", stats.MinMs)
	}
	if stats.AvgMs != 20 {
		t.Errorf("AvgMs = %v, want 20", stats.AvgMs)
	}
}

func TestTimerDisabled(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)
	defer ResetAll()

	m := newTimingMetric("disabled_op")
	done := Timer(m)
	done()

	if got := m.Count(); got != 0 {
		t.Errorf("disabled timer recorded %d measurements, want 0", got)
	}
}

func TestCounters(t *testing.T) {
	SetEnabled(true)
	defer ResetAll()

	DroppedChainHops.Reset()
	DroppedChainHops.Inc()
	DroppedChainHops.Add(2)

	if got := DroppedChainHops.Value(); got != 3 {
		t.Errorf("Value = %d, want 3", got)
	}

	DroppedChainHops.Reset()
	if got := DroppedChainHops.Value(); got != 0 {
		t.Errorf("Value after Reset = %d, want 0", got)
	}
}

func TestResetAll(t *testing.T) {
	SetEnabled(true)

	SimulationTick.Record(5 * time.Millisecond)
	IndexRebuilds.Inc()

	ResetAll()

	if SimulationTick.Count() != 0 {
		t.Error("ResetAll did not clear timing metrics")
	}
	if IndexRebuilds.Value() != 0 {
		t.Error("ResetAll did not clear counters")
	}
}

func TestAllTimingStatsSkipsEmpty(t *testing.T) {
	SetEnabled(true)
	ResetAll()

	OverlaySync.Record(time.Millisecond)
	stats := AllTimingStats()

	if len(stats) != 1 {
		t.Fatalf("got %d stats entries, want 1", len(stats))
	}
	if stats[0].Name != "overlay_sync" {
		t.Errorf("stats[0].Name = %s, want overlay_sync", stats[0].Name)
	}
	ResetAll()
}

func TestSnapshotReport(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	SceneBuild.Record(2 * time.Millisecond)
	DanglingEdges.Add(5)

	r := Snapshot()
	if len(r.Timings) != 1 || r.Timings[0].Name != "scene_build" {
		t.Errorf("timings = %+v", r.Timings)
	}
	if r.Counters["dangling_edges"] != 5 {
		t.Errorf("counters = %v", r.Counters)
	}

	data, err := r.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	for _, want := range []string{"scene_build", "dangling_edges"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report JSON missing %q:\n%s", want, data)
		}
	}
}
