// internal/workers/career/filter-careers/config.go
package filtercareers

import (
	"time"

	"career-workers/internal/models"
)

type Config struct {
	Timeout         time.Duration
	DefaultPageSize int
	MaxPageSize     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultPageSize: models.DefaultPageSize,
		MaxPageSize:     models.MaxPageSize,
	}
}
