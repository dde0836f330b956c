package storage

import (
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
)

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.inputs = append(f.inputs, input)
	f.bodies = append(f.bodies, body)
	return &manager.UploadOutput{
		Location: "https://" + aws.ToString(input.Bucket) + ".s3.amazonaws.com/" + aws.ToString(input.Key),
	}, nil
}

func TestS3Writer_Put(t *testing.T) {
	up := &fakeUploader{}
	w := newS3Writer(up, S3Config{Bucket: "b3-bucket"}, zap.NewNop())

	err := w.Put(context.Background(), "date=2024-03-15/b3_2024-03-15.parquet", []byte("PAR1"))
	require.NoError(t, err)

	require.Len(t, up.inputs, 1)
	in := up.inputs[0]
	assert.Equal(t, "b3-bucket", aws.ToString(in.Bucket))
	assert.Equal(t, "date=2024-03-15/b3_2024-03-15.parquet", aws.ToString(in.Key))
	assert.Equal(t, "application/vnd.apache.parquet", aws.ToString(in.ContentType))
	assert.Equal(t, []byte("PAR1"), up.bodies[0])
	assert.Empty(t, in.ServerSideEncryption)
	assert.Nil(t, in.SSEKMSKeyId)
}

func TestS3Writer_SSE(t *testing.T) {
	tests := []struct {
		name    string
		config  S3Config
		wantSSE types.ServerSideEncryption
		wantKMS string
	}{
		{
			name:    "AES256",
			config:  S3Config{Bucket: "b", SSEEnabled: true},
			wantSSE: types.ServerSideEncryptionAes256,
		},
		{
			name: "KMS",
			config: S3Config{
				Bucket:      "b",
				SSEEnabled:  true,
				SSEKMSKeyID: "arn:aws:kms:us-east-1:123456789012:key/12345678-1234-1234-1234-123456789012",
			},
			wantSSE: types.ServerSideEncryptionAwsKms,
			wantKMS: "arn:aws:kms:us-east-1:123456789012:key/12345678-1234-1234-1234-123456789012",
		},
		{
			name:   "KMS key ignored when disabled",
			config: S3Config{Bucket: "b", SSEKMSKeyID: "key"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUploader{}
			w := newS3Writer(up, tt.config, zap.NewNop())

			require.NoError(t, w.Put(context.Background(), "k.parquet", []byte("x")))
			require.Len(t, up.inputs, 1)
			assert.Equal(t, tt.wantSSE, up.inputs[0].ServerSideEncryption)
			assert.Equal(t, tt.wantKMS, aws.ToString(up.inputs[0].SSEKMSKeyId))
		})
	}
}

func TestS3Writer_UploadError(t *testing.T) {
	cause := stderrors.New("access denied")
	w := newS3Writer(&fakeUploader{err: cause}, S3Config{Bucket: "b"}, zap.NewNop())

	err := w.Put(context.Background(), "k.parquet", []byte("x"))

	var storageErr *errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "upload", storageErr.Operation)
	assert.Equal(t, "s3://b/k.parquet", storageErr.Path)
	assert.ErrorIs(t, err, cause)
}

func TestS3Writer_Close(t *testing.T) {
	up := &fakeUploader{}
	w := newS3Writer(up, S3Config{Bucket: "b"}, zap.NewNop())

	require.NoError(t, w.Close())

	err := w.Put(context.Background(), "k.parquet", []byte("x"))
	assert.ErrorIs(t, err, errors.ErrWriterClosed)
	assert.Empty(t, up.inputs)
}
