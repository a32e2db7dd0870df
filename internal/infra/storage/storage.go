package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/blogward/blogward-backend/pkg/env"
)

// Storage wraps the S3 client with the bucket-per-site operations the object
// store deployer needs.
type Storage struct {
	client *s3.Client
	region string
}

func NewStorage(config aws.Config) *Storage {
	return &Storage{
		client: s3.NewFromConfig(config, func(o *s3.Options) {
			o.UsePathStyle = true
		}),
		region: env.GetEnv("AWS_DEFAULT_REGION", "eu-central-1"),
	}
}

// EnsureBucket creates the bucket when it does not exist yet. Idempotent.
func (s *Storage) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	if !errors.As(err, &notFound) {
		return fmt.Errorf("err checking bucket %s, %v", bucket, err)
	}

	slog.Info("Creating a new bucket", "bucket", bucket)
	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("err creating bucket %s, %v", bucket, err)
	}
	return nil
}

// UploadFile puts one object with a content type derived from the key's
// extension.
func (s *Storage) UploadFile(ctx context.Context, bucket, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil && err != io.EOF {
		return fmt.Errorf("err reading upload body for %s, %v", key, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(ContentType(key, data)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("err uploading %s to %s, %v", key, bucket, err)
	}
	return nil
}

// ContentType derives the object content type from the key's extension,
// sniffing the payload when the extension is unknown.
func ContentType(key string, data []byte) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".html", ".htm":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".ico":
		return "image/x-icon"
	case ".txt":
		return "text/plain"
	case ".woff2":
		return "font/woff2"
	default:
		return http.DetectContentType(data)
	}
}

func (s *Storage) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("err listing bucket %s, %v", bucket, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}

func (s *Storage) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("err downloading %s from %s, %v", key, bucket, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("err reading %s, %v", key, err)
	}
	return data, nil
}

func (s *Storage) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("err deleting %s from %s, %v", key, bucket, err)
	}
	return nil
}

// EmptyBucket removes every object so the bucket can be refilled or deleted.
func (s *Storage) EmptyBucket(ctx context.Context, bucket string) error {
	keys, err := s.ListKeys(ctx, bucket, "")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}
	_, err = s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("err emptying bucket %s, %v", bucket, err)
	}
	return nil
}

func (s *Storage) DeleteBucket(ctx context.Context, bucket string) error {
	if err := s.EmptyBucket(ctx, bucket); err != nil {
		return err
	}
	_, err := s.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		return fmt.Errorf("err deleting bucket %s, %v", bucket, err)
	}
	return nil
}
