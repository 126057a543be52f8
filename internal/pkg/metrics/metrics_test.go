package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type fakeStat struct {
	acquired, idle, total int32
	empty                 int64
}

func (f fakeStat) AcquiredConns() int32     { return f.acquired }
func (f fakeStat) IdleConns() int32         { return f.idle }
func (f fakeStat) TotalConns() int32        { return f.total }
func (f fakeStat) EmptyAcquireCount() int64 { return f.empty }

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatal(err)
	}
	switch {
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	case out.Counter != nil:
		return out.Counter.GetValue()
	}
	t.Fatal("unsupported metric type")
	return 0
}

func TestUpdateDBPoolMetrics(t *testing.T) {
	before := value(t, DBPoolEmptyAcquires)

	last := UpdateDBPoolMetrics(fakeStat{acquired: 3, idle: 2, total: 5, empty: 4}, 0)
	if last != 4 {
		t.Fatalf("expected last=4, got %d", last)
	}
	if got := value(t, DBPoolConnsOpen); got != 5 {
		t.Errorf("expected 5 open conns, got %v", got)
	}
	if got := value(t, DBPoolConnsAcquired); got != 3 {
		t.Errorf("expected 3 acquired conns, got %v", got)
	}

	// Only the growth since the previous snapshot is added.
	last = UpdateDBPoolMetrics(fakeStat{total: 5, empty: 6}, last)
	if got := value(t, DBPoolEmptyAcquires) - before; got != 6 {
		t.Errorf("expected empty acquires to grow by 6, got %v", got)
	}
	if last != 6 {
		t.Errorf("expected last=6, got %d", last)
	}
}

func TestObserveScore(t *testing.T) {
	c := RoutesScored.WithLabelValues("safe")
	before := value(t, c)
	ObserveScore("safe", 90)
	if got := value(t, c) - before; got != 1 {
		t.Errorf("expected one observation, got %v", got)
	}
}
