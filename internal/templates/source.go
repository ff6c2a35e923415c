package templates

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source supplies the DOCX template the renderer fills in.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// LocalSource reads the template from disk on every call, so template
// edits take effect without a restart.
type LocalSource struct {
	Path string
}

func (s *LocalSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", s.Path, err)
	}
	return data, nil
}

// S3Source fetches the template object once and caches the bytes; the
// template is immutable per deployment.
type S3Source struct {
	client *s3.Client
	bucket string
	key    string

	mu     sync.Mutex
	cached []byte
}

// NewS3Source constructs a template source backed by an S3 object.
func NewS3Source(ctx context.Context, region, bucket, key string) (*S3Source, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if key == "" {
		return nil, fmt.Errorf("s3 template key is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Source{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		key:    key,
	}, nil
}

func (s *S3Source) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, s.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	s.cached = data
	return data, nil
}
