// internal/workers/assessment/batch-assess-candidates/config.go
package batchassess

import "time"

type Config struct {
	Timeout time.Duration

	// Parallelism bounds the number of simultaneously scored candidates.
	Parallelism int

	// MaxBatchSize rejects oversized payloads before any work starts.
	MaxBatchSize int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      120 * time.Second,
		Parallelism:  4,
		MaxBatchSize: 500,
	}
}
