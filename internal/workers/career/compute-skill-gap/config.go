// internal/workers/career/compute-skill-gap/config.go
package computeskillgap

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
