// internal/workers/career/parse-career-criteria/config.go
package parsecareercriteria

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
