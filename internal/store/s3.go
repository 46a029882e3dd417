package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"creg/internal/registry"
)

// S3Client is the subset of the S3 API used by S3Store.
type S3Client interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures an S3Store.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, for S3-compatible services such as MinIO
	PathStyle bool

	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store keeps every collection in one object, <prefix>/collections.cbor.
// A Set replaces that object with a single upload, so all entries land
// together or not at all.
type S3Store struct {
	snapshotStore
	bucket string
	key    string
}

// NewS3Store connects to S3 using the default AWS configuration chain.
func NewS3Store(opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 store requires s3_bucket to be set")
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})
	return NewS3StoreWithClient(client, opts.Bucket, opts.Prefix), nil
}

// NewS3StoreWithClient creates an S3Store over an existing client.
func NewS3StoreWithClient(client S3Client, bucket, prefix string) *S3Store {
	key := path.Join(prefix, SnapshotFileName)
	s := &S3Store{bucket: bucket, key: key}
	s.blob = &s3Blob{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		key:      key,
	}
	return s
}

// Key returns the object key holding the collections.
func (s *S3Store) Key() string {
	return s.key
}

// Close is a no-op.
func (s *S3Store) Close() error {
	return nil
}

type s3Blob struct {
	client   S3Client
	uploader *manager.Uploader
	bucket   string
	key      string
}

func (b *s3Blob) load() ([]byte, bool, error) {
	out, err := b.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("getting s3://%s/%s: %w", b.bucket, b.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading s3://%s/%s: %w", b.bucket, b.key, err)
	}
	return data, true, nil
}

func (b *s3Blob) save(data []byte) error {
	_, err := b.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(b.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/cbor"),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", b.bucket, b.key, err)
	}
	return nil
}

var _ registry.Store = (*S3Store)(nil)
