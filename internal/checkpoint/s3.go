package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	s3platform "github.com/imamik/sagerec/internal/platform/s3"
)

// ObjectAPI is the object storage used by S3Store. *s3platform.Client
// implements it.
type ObjectAPI interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	DeleteObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
}

// S3Store keeps checkpoints as objects under a bucket prefix.
type S3Store struct {
	api    ObjectAPI
	bucket string
	prefix string
}

// NewS3Store returns a store writing to bucket below prefix.
func NewS3Store(api ObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Store) object(key string) string {
	if s.prefix == "" {
		return key + suffix
	}
	return path.Join(s.prefix, key+suffix)
}

// Save uploads the checkpoint.
func (s *S3Store) Save(ctx context.Context, key string, cp *Checkpoint) error {
	data, err := encode(cp)
	if err != nil {
		return err
	}
	if err := s.api.PutObject(ctx, s.bucket, s.object(key), data); err != nil {
		return fmt.Errorf("failed to upload checkpoint %s: %w", key, err)
	}
	return nil
}

// Load downloads the checkpoint under key.
func (s *S3Store) Load(ctx context.Context, key string) (*Checkpoint, error) {
	data, err := s.api.GetObject(ctx, s.bucket, s.object(key))
	if errors.Is(err, s3platform.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download checkpoint %s: %w", key, err)
	}
	return decode(key, data)
}

// Clear deletes the checkpoint object.
func (s *S3Store) Clear(ctx context.Context, key string) error {
	if err := s.api.DeleteObject(ctx, s.bucket, s.object(key)); err != nil {
		return fmt.Errorf("failed to delete checkpoint %s: %w", key, err)
	}
	return nil
}

// List returns the keys found under the prefix.
func (s *S3Store) List(ctx context.Context) ([]string, error) {
	prefix := ""
	if s.prefix != "" {
		prefix = s.prefix + "/"
	}
	objects, err := s.api.ListObjects(ctx, s.bucket, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	var keys []string
	for _, o := range objects {
		name := strings.TrimPrefix(o, prefix)
		if strings.Contains(name, "/") || !strings.HasSuffix(name, suffix) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, suffix))
	}
	sort.Strings(keys)
	return keys, nil
}
