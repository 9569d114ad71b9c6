// internal/workers/data-access/search-career-index/config.go
package searchcareerindex

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
