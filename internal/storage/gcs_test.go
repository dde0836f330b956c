package storage

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jittakal/b3extractor/internal/errors"
)

type fakeObject struct {
	bytes.Buffer
	bucket      string
	name        string
	contentType string
	ctx         context.Context
	writeErr    error
	closeErr    error
	closed      bool
}

func (o *fakeObject) Write(p []byte) (int, error) {
	if o.writeErr != nil {
		return 0, o.writeErr
	}
	return o.Buffer.Write(p)
}

func (o *fakeObject) Close() error {
	o.closed = true
	return o.closeErr
}

type fakeBucket struct {
	objects  []*fakeObject
	writeErr error
	closeErr error
}

func (b *fakeBucket) open(ctx context.Context, bucket, object, contentType string) io.WriteCloser {
	o := &fakeObject{
		bucket:      bucket,
		name:        object,
		contentType: contentType,
		ctx:         ctx,
		writeErr:    b.writeErr,
		closeErr:    b.closeErr,
	}
	b.objects = append(b.objects, o)
	return o
}

func TestGCSWriter_Put(t *testing.T) {
	fb := &fakeBucket{}
	w := newGCSWriter(fb.open, "b3-bucket", zap.NewNop())

	require.NoError(t, w.Put(context.Background(), "date=2024-03-15/b3_2024-03-15.parquet", []byte("PAR1")))

	require.Len(t, fb.objects, 1)
	obj := fb.objects[0]
	assert.Equal(t, "b3-bucket", obj.bucket)
	assert.Equal(t, "date=2024-03-15/b3_2024-03-15.parquet", obj.name)
	assert.Equal(t, "application/vnd.apache.parquet", obj.contentType)
	assert.Equal(t, "PAR1", obj.String())
	assert.True(t, obj.closed)
}

func TestGCSWriter_WriteErrorAbortsUpload(t *testing.T) {
	cause := stderrors.New("broken pipe")
	fb := &fakeBucket{writeErr: cause}
	w := newGCSWriter(fb.open, "b", zap.NewNop())

	err := w.Put(context.Background(), "k.parquet", []byte("x"))

	var storageErr *errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "upload", storageErr.Operation)
	assert.Equal(t, "gs://b/k.parquet", storageErr.Path)
	assert.ErrorIs(t, err, cause)

	require.Len(t, fb.objects, 1)
	assert.ErrorIs(t, fb.objects[0].ctx.Err(), context.Canceled)
}

func TestGCSWriter_CloseError(t *testing.T) {
	cause := stderrors.New("precondition failed")
	w := newGCSWriter((&fakeBucket{closeErr: cause}).open, "b", zap.NewNop())

	err := w.Put(context.Background(), "k.parquet", []byte("x"))

	var storageErr *errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "close", storageErr.Operation)
	assert.ErrorIs(t, err, cause)
}

func TestGCSWriter_Close(t *testing.T) {
	fb := &fakeBucket{}
	w := newGCSWriter(fb.open, "b", zap.NewNop())

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	err := w.Put(context.Background(), "k.parquet", []byte("x"))
	assert.ErrorIs(t, err, errors.ErrWriterClosed)
	assert.Empty(t, fb.objects)
}

func TestGCSClientOptions(t *testing.T) {
	tests := []struct {
		name   string
		config GCSConfig
		want   []option.ClientOption
	}{
		{
			name:   "application default credentials",
			config: GCSConfig{Bucket: "b"},
		},
		{
			name: "emulator with quota project",
			config: GCSConfig{
				Bucket:    "b",
				ProjectID: "b3-data",
				Endpoint:  "http://localhost:4443/storage/v1/",
			},
			want: []option.ClientOption{
				option.WithEndpoint("http://localhost:4443/storage/v1/"),
				option.WithQuotaProject("b3-data"),
			},
		},
		{
			name:   "credentials file",
			config: GCSConfig{Bucket: "b", CredentialsFile: "/etc/gcp/sa.json"},
			want: []option.ClientOption{
				option.WithCredentialsFile("/etc/gcp/sa.json"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gcsClientOptions(tt.config))
		})
	}
}
