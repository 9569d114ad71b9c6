// internal/workers/career/export-careers/config.go
package exportcareers

import "time"

type Config struct {
	Timeout        time.Duration
	FileNamePrefix string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        10 * time.Second,
		FileNamePrefix: "career_recommendations",
	}
}
