package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/bravo68web/repodash/internal/domain/service"
	apperror "github.com/bravo68web/repodash/pkg/errors"
	"github.com/bravo68web/repodash/pkg/logger"
)

var _ service.UploadStorage = (*S3Storage)(nil)

// S3API is the subset of *s3.Client the backend calls
type S3API interface {
	s3.ListObjectsV2APIClient
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Storage keeps uploads as objects under {prefix}{id}/{name}
type S3Storage struct {
	client S3API
	bucket string
	prefix string
	log    *logger.Logger
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // Optional: for S3-compatible services like MinIO
	UsePathStyle bool
	Prefix       string
}

// NewS3Storage creates a new S3 storage instance and checks the bucket is reachable
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	storage := newS3Storage(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket, cfg.Prefix)

	if _, err := storage.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(storage.bucket),
	}); err != nil {
		return nil, fmt.Errorf("failed to verify S3 bucket: %w", err)
	}

	return storage, nil
}

func newS3Storage(client S3API, bucket, prefix string) *S3Storage {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Storage{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log: logger.Get().WithFields(
			logger.Component("storage"),
			logger.String("backend", string(StorageTypeS3)),
			logger.String("bucket", bucket),
		),
	}
}

// Root returns the bucket URL including the key prefix
func (s *S3Storage) Root() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

// Path returns the object URL of a published file
func (s *S3Storage) Path(id, name string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.recordKey(id, name))
}

func (s *S3Storage) recordKey(id, name string) string {
	return s.prefix + id + "/" + name
}

// copySource builds the CopyObject source, which S3 expects URL-encoded.
// PathEscape keeps '+', which S3 would decode as a space.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = strings.ReplaceAll(url.PathEscape(seg), "+", "%2B")
	}
	return bucket + "/" + strings.Join(segments, "/")
}

// Stage allocates a fresh staging prefix. Nothing is written until Write.
func (s *S3Storage) Stage(ctx context.Context) (service.Staging, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &s3Staging{
		storage: s,
		prefix:  s.prefix + stagingDir + "/" + uuid.NewString() + "/",
		names:   make(map[string]struct{}),
	}, nil
}

// List returns the sorted file names published for id
func (s *S3Storage) List(ctx context.Context, id string) ([]string, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	prefix := s.prefix + id + "/"
	var names []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, apperror.StorageError("list", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if name != "" && !strings.Contains(name, "/") {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		return nil, apperror.NotFound("upload", nil)
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether any object is published for id
func (s *S3Storage) Exists(ctx context.Context, id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}

	result, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.prefix + id + "/"),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, apperror.StorageError("exists", err)
	}
	return len(result.Contents) > 0, nil
}

// Remove deletes every object published for id
func (s *S3Storage) Remove(ctx context.Context, id string) error {
	names, err := s.List(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, s.recordKey(id, name))
	}
	if err := s.deleteKeys(ctx, keys); err != nil {
		return apperror.StorageError("remove", err)
	}
	return nil
}

// deleteKeys removes keys in batches of 1000, the DeleteObjects limit
func (s *S3Storage) deleteKeys(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += 1000 {
		end := min(start+1000, len(keys))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

type s3Staging struct {
	storage *S3Storage
	prefix  string

	mu        sync.Mutex
	names     map[string]struct{}
	written   []string
	published bool
	discarded bool
}

func (st *s3Staging) Write(ctx context.Context, name string, r io.Reader) error {
	if err := ValidateFileName(name); err != nil {
		return err
	}

	st.mu.Lock()
	if st.published || st.discarded {
		st.mu.Unlock()
		return apperror.InternalError("staging area is closed", nil)
	}
	if _, dup := st.names[name]; dup {
		st.mu.Unlock()
		return apperror.BadRequest(fmt.Sprintf("duplicate file name %q", name), apperror.ErrInvalidInput)
	}
	st.names[name] = struct{}{}
	st.mu.Unlock()

	// PutObject needs a seekable body to sign the payload
	data, err := io.ReadAll(r)
	if err != nil {
		return apperror.StorageError("read upload", err)
	}

	_, err = st.storage.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(st.storage.bucket),
		Key:           aws.String(st.prefix + name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return apperror.StorageError("put object", err)
	}

	st.mu.Lock()
	st.written = append(st.written, name)
	st.mu.Unlock()
	return nil
}

func (st *s3Staging) Publish(ctx context.Context, id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.published || st.discarded {
		return "", apperror.InternalError("staging area is closed", nil)
	}

	exists, err := st.storage.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if exists {
		return "", apperror.Conflict(fmt.Sprintf("upload %s already exists", id), apperror.ErrRecordExists)
	}

	s := st.storage
	copied := make([]string, 0, len(st.written))
	for _, name := range st.written {
		dst := s.recordKey(id, name)
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			CopySource: aws.String(copySource(s.bucket, st.prefix+name)),
			Key:        aws.String(dst),
		})
		if err != nil {
			// Roll back so a failed publish leaves nothing visible under id
			if rbErr := s.deleteKeys(context.WithoutCancel(ctx), copied); rbErr != nil {
				s.log.Error("Failed to roll back partial publish",
					logger.RepoID(id),
					logger.Error(rbErr),
				)
			}
			return "", apperror.StorageError("publish", err)
		}
		copied = append(copied, dst)
	}
	st.published = true

	if err := s.deleteKeys(ctx, st.stagedKeys()); err != nil {
		s.log.Warn("Failed to remove staged objects after publish",
			logger.String("prefix", st.prefix),
			logger.Error(err),
		)
	}

	s.log.Debug("Published upload",
		logger.RepoID(id),
		logger.FileCount(len(copied)),
	)
	return fmt.Sprintf("s3://%s/%s%s/", s.bucket, s.prefix, id), nil
}

func (st *s3Staging) Discard(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.published || st.discarded {
		return nil
	}
	st.discarded = true

	if err := st.storage.deleteKeys(ctx, st.stagedKeys()); err != nil {
		return apperror.StorageError("discard", err)
	}
	return nil
}

func (st *s3Staging) stagedKeys() []string {
	keys := make([]string, 0, len(st.written))
	for _, name := range st.written {
		keys = append(keys, st.prefix+name)
	}
	return keys
}
