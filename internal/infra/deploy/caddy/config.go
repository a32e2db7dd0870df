package caddy

import "github.com/blogward/blogward-backend/pkg/env"

type Config struct {
	AdminURL string
	// Server is the caddy http server name routes are attached to.
	Server string
}

func NewConfig() *Config {
	return &Config{
		AdminURL: env.GetEnv("CADDY_ADMIN_URL", "http://localhost:2019"),
		Server:   env.GetEnv("CADDY_SERVER", "blogward"),
	}
}
