package storage

import (
	"context"
	"time"
)

// HealthStatus reports store connectivity and pool utilization.
type HealthStatus struct {
	Status          string `json:"status"`
	ResponseTime    int64  `json:"response_time_ms"`
	OpenConnections int    `json:"open_connections"`
	IdleConnections int    `json:"idle_connections"`
	MaxConnections  int    `json:"max_connections"`
}

// Health checks connectivity and reports pool statistics.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	start := time.Now()
	if err := c.pool.Ping(ctx); err != nil {
		return &HealthStatus{Status: "unhealthy", ResponseTime: time.Since(start).Milliseconds()}, err
	}

	stats := c.pool.Stat()
	return &HealthStatus{
		Status:          "healthy",
		ResponseTime:    time.Since(start).Milliseconds(),
		OpenConnections: int(stats.TotalConns()),
		IdleConnections: int(stats.IdleConns()),
		MaxConnections:  int(stats.MaxConns()),
	}, nil
}
