package aws

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/blogward/blogward-backend/internal/domain/entity"
	"github.com/blogward/blogward-backend/internal/infra/storage"
	"github.com/blogward/blogward-backend/internal/publish"
)

// Deployer serves a site from an S3 bucket fronted by a CloudFront
// distribution. Incremental runs upload only files modified since the last
// successful publish and invalidate the affected CDN paths.
type Deployer struct {
	cfg       *Config
	storage   *storage.Storage
	cfClient  *cloudfront.Client
	store     DeploymentStore
	engines   *publish.EngineRegistry
	available bool
}

var _ publish.Deployer = (*Deployer)(nil)

func NewDeployer(cfg *Config, awsConfig awssdk.Config, store *storage.Storage, deployments DeploymentStore, engines *publish.EngineRegistry) *Deployer {
	d := &Deployer{
		cfg:      cfg,
		storage:  store,
		cfClient: cloudfront.NewFromConfig(awsConfig),
		store:    deployments,
		engines:  engines,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := awsConfig.Credentials.Retrieve(ctx); err != nil {
		slog.Warn("AWS credentials not resolvable, deployer disabled", "error", err)
		return d
	}
	d.available = true
	return d
}

func (d *Deployer) Available() bool {
	return d.available
}

// Register ensures the site's bucket exists and a deployment record is on
// file. Idempotent.
func (d *Deployer) Register(ctx context.Context, site *entity.Site) error {
	deployment, err := d.store.Get(ctx, site.ID)
	if err != nil {
		return err
	}
	if deployment == nil {
		deployment = &Deployment{SiteID: site.ID, Bucket: BucketName(site)}
	}

	if err := d.storage.EnsureBucket(ctx, deployment.Bucket); err != nil {
		return err
	}
	if err := d.store.Save(ctx, deployment); err != nil {
		return err
	}
	slog.Info("Site origin ready", "site", site.URN(), "endpoint", deployment.Bucket+d.cfg.S3WebSuffix)
	return nil
}

func (d *Deployer) Deploy(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page, opts publish.Options) error {
	if err := d.Register(ctx, site); err != nil {
		return err
	}
	deployment, err := d.store.Get(ctx, site.ID)
	if err != nil {
		return err
	}
	engine, err := d.engines.Get(site.Engine)
	if err != nil {
		return err
	}
	root := engine.OutputPath(site)

	var paths []string
	switch {
	case post != nil:
		if err := d.uploadOne(ctx, deployment.Bucket, root, engine.PostOutputPath(site, post)); err != nil {
			return err
		}
		paths = []string{"/index.html", "/" + engine.PostURL(site, post, false)}
	case page != nil:
		if err := d.uploadOne(ctx, deployment.Bucket, root, engine.PageOutputPath(site, page)); err != nil {
			return err
		}
		paths = []string{"/index.html", "/" + engine.PageURL(site, page, false)}
	default:
		if opts.Purge {
			if err := d.storage.EmptyBucket(ctx, deployment.Bucket); err != nil {
				return err
			}
		}
		uploaded, err := d.syncDir(ctx, deployment.Bucket, root, opts)
		if err != nil {
			return err
		}
		slog.Info("Synced site output to bucket", "site", site.URN(), "uploaded", uploaded)
		paths = []string{"/*"}
	}

	return d.invalidate(ctx, deployment, paths)
}

func (d *Deployer) Delete(ctx context.Context, site *entity.Site, post *entity.Post, page *entity.Page) error {
	deployment, err := d.store.Get(ctx, site.ID)
	if err != nil {
		return err
	}
	if deployment == nil {
		return nil
	}
	engine, err := d.engines.Get(site.Engine)
	if err != nil {
		return err
	}
	root := engine.OutputPath(site)

	switch {
	case post != nil:
		key, err := objectKey(root, engine.PostOutputPath(site, post))
		if err != nil {
			return err
		}
		if err := d.storage.DeleteObject(ctx, deployment.Bucket, key); err != nil {
			return err
		}
		return d.invalidate(ctx, deployment, []string{"/index.html", "/" + engine.PostURL(site, post, false)})
	case page != nil:
		key, err := objectKey(root, engine.PageOutputPath(site, page))
		if err != nil {
			return err
		}
		if err := d.storage.DeleteObject(ctx, deployment.Bucket, key); err != nil {
			return err
		}
		return d.invalidate(ctx, deployment, []string{"/index.html", "/" + engine.PageURL(site, page, false)})
	default:
		if err := d.storage.DeleteBucket(ctx, deployment.Bucket); err != nil {
			return err
		}
		return d.store.Delete(ctx, site.ID)
	}
}

func (d *Deployer) uploadOne(ctx context.Context, bucket, root, path string) error {
	key, err := objectKey(root, path)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("err opening %s for upload, %v", path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	return d.storage.UploadFile(ctx, bucket, key, file)
}

func (d *Deployer) syncDir(ctx context.Context, bucket, root string, opts publish.Options) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if !shouldUpload(info.ModTime(), opts) {
			return nil
		}
		if err := d.uploadOne(ctx, bucket, root, path); err != nil {
			return err
		}
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, fmt.Errorf("err syncing %s to bucket %s, %v", root, bucket, err)
	}
	return uploaded, nil
}

// shouldUpload decides per file whether an incremental run must push it.
// Without a prior successful publish everything goes up. Ties break toward
// uploading since mtimes have second granularity.
func shouldUpload(modTime time.Time, opts publish.Options) bool {
	if opts.Force || opts.Purge || opts.LastSuccess == nil {
		return true
	}
	return !modTime.Before(*opts.LastSuccess)
}

func (d *Deployer) invalidate(ctx context.Context, deployment *Deployment, paths []string) error {
	if deployment.CloudfrontID == "" {
		slog.Info("No distribution on file, skipping invalidation", "bucket", deployment.Bucket)
		return nil
	}
	_, err := d.cfClient.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: awssdk.String(deployment.CloudfrontID),
		InvalidationBatch: &types.InvalidationBatch{
			CallerReference: awssdk.String(fmt.Sprintf("%s-%d", deployment.Bucket, time.Now().UnixNano())),
			Paths: &types.Paths{
				Quantity: awssdk.Int32(int32(len(paths))),
				Items:    paths,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("err invalidating distribution %s, %v", deployment.CloudfrontID, err)
	}
	return nil
}

// BucketName derives a bucket name from the site URN. Slashes are not legal
// in bucket names so path segments join with dashes.
func BucketName(site *entity.Site) string {
	name := strings.ReplaceAll(site.URN(), "/", "-")
	return strings.ToLower(strings.Trim(name, "-"))
}

func objectKey(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("err resolving object key for %s, %v", path, err)
	}
	return filepath.ToSlash(rel), nil
}
