package aws

import "github.com/blogward/blogward-backend/pkg/env"

type Config struct {
	// S3WebSuffix is appended to the bucket name to form the website endpoint
	// a CDN origin points at.
	S3WebSuffix string
}

func NewConfig() *Config {
	return &Config{
		S3WebSuffix: env.GetEnv("AWS_S3_WEB_SUFFIX", ".s3-website.eu-central-1.amazonaws.com"),
	}
}
