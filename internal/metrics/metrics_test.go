package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestHistogram_Snapshot(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	s := h.Snapshot()
	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	if s.Mean != 3 {
		t.Errorf("Mean = %v, want 3", s.Mean)
	}
	if s.P50 != 3 {
		t.Errorf("P50 = %v, want 3", s.P50)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Errorf("Min/Max = %v/%v, want 1/5", s.Min, s.Max)
	}
}

func TestHistogram_TrimsOldest(t *testing.T) {
	h := NewHistogram(10)
	for i := 0; i < 11; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	if got := h.Count(); got != 9 {
		t.Errorf("Count after trim = %d, want 9", got)
	}
	if got := h.Snapshot().Min; got != 2 {
		t.Errorf("Min after trim = %v, want 2", got)
	}
}

func TestHistogram_Empty(t *testing.T) {
	h := NewHistogram(0)
	if s := h.Snapshot(); s.Count != 0 || s.Mean != 0 {
		t.Errorf("empty snapshot = %+v", s)
	}
}

func TestLoaderMetrics_Rates(t *testing.T) {
	m := NewLoaderMetrics()
	m.RecordFetch(time.Millisecond, nil)
	m.RecordFetch(time.Millisecond, nil)
	m.RecordFetch(time.Millisecond, nil)
	m.RecordFetch(time.Millisecond, errors.New("boom"))
	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordLoad(time.Millisecond, true)

	stats := m.GetStats()
	if stats.APISuccessRate != 75 {
		t.Errorf("APISuccessRate = %v, want 75", stats.APISuccessRate)
	}
	if stats.CacheHitRate != 50 {
		t.Errorf("CacheHitRate = %v, want 50", stats.CacheHitRate)
	}
	if stats.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", stats.Degraded)
	}

	m.Reset()
	if stats := m.GetStats(); stats.Requests != 0 || stats.FetchLatency.Count != 0 {
		t.Errorf("stats after reset = %+v", stats)
	}
}
