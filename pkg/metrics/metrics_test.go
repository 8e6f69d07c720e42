package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollectorWithRegistry(prometheus.NewRegistry())

	c.RecordRequest("POST", "language", 200, 15*time.Millisecond)
	c.RecordRequest("POST", "language", 200, 5*time.Millisecond)
	c.RecordRetry("language", "status")
	c.RecordError("language", "unknownError")
	c.SetPoolSize(5)

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("POST", "language", "200")); got != 2 {
		t.Fatalf("requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.retriesTotal.WithLabelValues("language", "status")); got != 1 {
		t.Fatalf("retries_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.errorsTotal.WithLabelValues("language", "unknownError")); got != 1 {
		t.Fatalf("errors_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.poolSize); got != 5 {
		t.Fatalf("pool_size = %v, want 5", got)
	}
}

// TestCollector_Nil verifies that a nil collector is a no-op.
func TestCollector_Nil(t *testing.T) {
	var c *Collector
	c.RecordRequest("GET", "ping", 200, time.Millisecond)
	c.RecordRetry("ping", "network")
	c.RecordError("ping", "unknownError")
	c.SetPoolSize(3)
	c.SetBreakerState("rosette", 2)
}
