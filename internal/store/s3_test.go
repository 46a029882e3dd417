package store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creg/internal/registry"
)

// fakeS3 is an in-memory S3Client. Only single-part uploads are supported.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Bucket+"/"+*in.Key] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

var errMultipart = errors.New("multipart upload not supported by fake")

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errMultipart
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, errMultipart
}

func TestS3Store(t *testing.T) {
	runStoreContract(t, func(t *testing.T) registry.Store {
		return NewS3StoreWithClient(newFakeS3(), "bucket", "registry")
	})
}

func TestS3Store_ObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "collections.cbor"},
		{prefix: "prod", want: "prod/collections.cbor"},
		{prefix: "prod/", want: "prod/collections.cbor"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			s := NewS3StoreWithClient(newFakeS3(), "bucket", tt.prefix)
			assert.Equal(t, tt.want, s.Key())
		})
	}
}

func TestS3Store_MultiEntrySetIsOneUpload(t *testing.T) {
	client := newFakeS3()
	s := NewS3StoreWithClient(client, "bucket", "p")

	require.NoError(t, s.Set(
		registry.Entry{Key: registry.CollectionContent, Value: []byte("c")},
		registry.Entry{Key: registry.CollectionDeletionHistory, Value: []byte("d")},
	))
	assert.Equal(t, 1, client.puts)
	assert.Contains(t, client.objects, "bucket/p/collections.cbor")
}

func TestS3Store_GetError(t *testing.T) {
	client := newFakeS3()
	client.getErr = errors.New("connection reset")
	s := NewS3StoreWithClient(client, "bucket", "")

	_, _, err := s.Get(registry.CollectionCreators)
	assert.ErrorContains(t, err, "connection reset")
	assert.Error(t, s.Set(registry.Entry{Key: registry.CollectionCreators, Value: []byte("x")}))
	assert.Zero(t, client.puts)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(S3Options{})
	assert.Error(t, err)
}
