package aws

import (
	"testing"
	"time"

	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/publish"
	"github.com/stretchr/testify/require"
)

func TestShouldUploadIncrementalDecision(t *testing.T) {
	lastSuccess := time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)
	opts := publish.Options{LastSuccess: &lastSuccess}

	require.True(t, shouldUpload(lastSuccess.Add(time.Minute), opts), "newer files go up")
	require.False(t, shouldUpload(lastSuccess.Add(-time.Minute), opts), "older files are skipped")
	require.True(t, shouldUpload(lastSuccess, opts), "equal mtimes break toward uploading")
}

func TestShouldUploadEverythingWithoutPriorSuccess(t *testing.T) {
	old := time.Now().Add(-24 * time.Hour)
	require.True(t, shouldUpload(old, publish.Options{}))
}

func TestShouldUploadEverythingOnForceAndPurge(t *testing.T) {
	lastSuccess := time.Now()
	old := lastSuccess.Add(-24 * time.Hour)

	require.True(t, shouldUpload(old, publish.Options{Force: true, LastSuccess: &lastSuccess}))
	require.True(t, shouldUpload(old, publish.Options{Purge: true, LastSuccess: &lastSuccess}))
}

func TestBucketNameIsLegalForSitePaths(t *testing.T) {
	site := &entity.Site{Domain: "Example.com", Path: "/blog"}
	require.Equal(t, "example.com-blog", BucketName(site))

	root := &entity.Site{Domain: "example.com"}
	require.Equal(t, "example.com", BucketName(root))
}

func TestObjectKeyIsSlashSeparated(t *testing.T) {
	key, err := objectKey("/var/out/example.com", "/var/out/example.com/2025/hello.html")
	require.NoError(t, err)
	require.Equal(t, "2025/hello.html", key)
}
