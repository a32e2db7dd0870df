package pelican

import (
	"os"
	"path/filepath"

	"github.com/blogward/blogward-backend/pkg/env"
)

type Config struct {
	// ContentRoot holds per-site generator source trees, OutputRoot the
	// rendered static sites. Both are keyed by site URN below the root.
	ContentRoot  string
	OutputRoot   string
	ThemesPath   string
	Binary       string
	DefaultTheme string
}

func NewConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	dataRoot := filepath.Join(filepath.Dir(wd), "blogward-data")
	return &Config{
		ContentRoot:  env.GetEnv("PELICAN_CONTENT_ROOT", filepath.Join(dataRoot, "content")),
		OutputRoot:   env.GetEnv("PELICAN_OUTPUT_ROOT", filepath.Join(dataRoot, "output")),
		ThemesPath:   env.GetEnv("PELICAN_THEMES", filepath.Join(dataRoot, "themes")),
		Binary:       env.GetEnv("PELICAN_BINARY", "pelican"),
		DefaultTheme: env.GetEnv("PELICAN_DEFAULT_THEME", "notmyidea"),
	}
}
