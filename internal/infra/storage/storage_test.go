package storage

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

var s3Client *Storage

func TestMain(m *testing.M) {
	ctx := context.Background()

	ls, err := localstack.Run(ctx,
		"localstack/localstack:1.4.0",
		testcontainers.WithEnv(map[string]string{"SERVICES": "s3"}),
	)
	if err != nil {
		log.Fatalf("failed to start localstack: %v", err)
	}

	mappedPort, err := ls.MappedPort(ctx, "4566/tcp")
	if err != nil {
		log.Fatalf("failed to get port: %v", err)
	}
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		log.Fatalf("failed to start docker provider: %v", err)
	}
	defer provider.Close()
	host, err := provider.DaemonHost(ctx)
	if err != nil {
		log.Fatalf("failed to get host: %v", err)
	}

	os.Setenv("AWS_ACCESS_KEY_ID", "test")
	os.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	os.Setenv("AWS_REGION", "us-east-1")
	os.Setenv("AWS_DEFAULT_REGION", "us-east-1")
	os.Setenv("AWS_ENDPOINT_URL", "http://"+host+":"+mappedPort.Port())

	cfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("failed to load aws config: %v", err)
	}
	s3Client = NewStorage(cfg)

	exitCode := m.Run()

	if err := ls.Terminate(ctx); err != nil {
		log.Printf("failed to terminate localstack: %s", err)
	}

	os.Exit(exitCode)
}

func TestEnsureBucketIsIdempotent(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, s3Client.EnsureBucket(ctx, "example.com"))
	require.NoError(t, s3Client.EnsureBucket(ctx, "example.com"))
}

func TestUploadListAndDelete(t *testing.T) {
	ctx := context.Background()
	bucket := "example.com-blog"
	require.NoError(t, s3Client.EnsureBucket(ctx, bucket))

	err := s3Client.UploadFile(ctx, bucket, "index.html", bytes.NewReader([]byte("<html></html>")))
	require.NoError(t, err)
	err = s3Client.UploadFile(ctx, bucket, "2025/hello.html", bytes.NewReader([]byte("<html></html>")))
	require.NoError(t, err)

	keys, err := s3Client.ListKeys(ctx, bucket, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index.html", "2025/hello.html"}, keys)

	data, err := s3Client.GetFile(ctx, bucket, "index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	require.NoError(t, s3Client.DeleteObject(ctx, bucket, "index.html"))
	keys, err = s3Client.ListKeys(ctx, bucket, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025/hello.html"}, keys)
}

func TestEmptyAndDeleteBucket(t *testing.T) {
	ctx := context.Background()
	bucket := "example.com-gone"
	require.NoError(t, s3Client.EnsureBucket(ctx, bucket))
	require.NoError(t, s3Client.UploadFile(ctx, bucket, "a.html", bytes.NewReader([]byte("a"))))

	require.NoError(t, s3Client.DeleteBucket(ctx, bucket))

	// the name is free again
	require.NoError(t, s3Client.EnsureBucket(ctx, bucket))
	keys, err := s3Client.ListKeys(ctx, bucket, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestContentTypeByExtension(t *testing.T) {
	assert.Equal(t, "text/html", ContentType("index.html", nil))
	assert.Equal(t, "text/css", ContentType("theme/style.css", nil))
	assert.Equal(t, "image/svg+xml", ContentType("logo.svg", nil))
	assert.Equal(t, "application/javascript", ContentType("app.js", nil))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("unknown.bin", []byte("plain text")))
}
