package publish

import (
	"strconv"
	"time"

	"github.com/blogward/blogward-backend/pkg/env"
)

type Config struct {
	// Window bounds how long a crashed run keeps blocking new admissions.
	Window    time.Duration
	Workers   int
	QueueSize int
}

func NewConfig() *Config {
	window, err := strconv.Atoi(env.GetEnv("PUBLISH_STALENESS_WINDOW", "60"))
	if err != nil {
		window = 60
	}
	workers, err := strconv.Atoi(env.GetEnv("PUBLISH_WORKERS", "4"))
	if err != nil {
		workers = 4
	}
	queue, err := strconv.Atoi(env.GetEnv("PUBLISH_QUEUE", "64"))
	if err != nil {
		queue = 64
	}
	return &Config{
		Window:    time.Duration(window) * time.Second,
		Workers:   workers,
		QueueSize: queue,
	}
}
