package sdk

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// HealthReport summarizes a health check against the service.
type HealthReport struct {
	// Reachable is true when ping answered.
	Reachable bool
	// Latency is the round trip of the ping request.
	Latency time.Duration
	// Message is the ping reply message.
	Message string
	// Name and Version come from the info endpoint.
	Name    string
	Version string
	// PoolSize is the pool size after the exchange, possibly raised by the
	// server's concurrency hint.
	PoolSize int
}

// Health pings the service and, when it answers, queries its name and
// version. A ping failure is returned as the error together with a report
// whose Reachable is false.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	report := &HealthReport{}

	start := time.Now()
	ping, err := c.Ping(ctx)
	report.Latency = time.Since(start)
	if err != nil {
		c.logger.Warn("health check failed", zap.String("service_url", c.cfg.ServiceURL), zap.Error(err))
		return report, err
	}
	report.Reachable = true
	report.Message = stringField(ping, "message")

	info, err := c.Info(ctx)
	if err != nil {
		return report, fmt.Errorf("info: %w", err)
	}
	report.Name = stringField(info, "name")
	report.Version = stringField(info, "version")
	report.PoolSize = c.PoolSize()
	return report, nil
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
