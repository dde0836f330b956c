package storage

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jittakal/b3extractor/internal/errors"
)

type upload struct {
	container   string
	blob        string
	body        []byte
	contentType string
}

type fakeBlobClient struct {
	uploads []upload
	err     error
}

func (f *fakeBlobClient) UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
	if f.err != nil {
		return azblob.UploadBufferResponse{}, f.err
	}
	u := upload{container: containerName, blob: blobName, body: buffer}
	if o != nil && o.HTTPHeaders != nil && o.HTTPHeaders.BlobContentType != nil {
		u.contentType = *o.HTTPHeaders.BlobContentType
	}
	f.uploads = append(f.uploads, u)
	return azblob.UploadBufferResponse{}, nil
}

func TestAzureConfig_ConnectionString(t *testing.T) {
	tests := []struct {
		name   string
		config AzureConfig
		want   string
	}{
		{
			name:   "public cloud",
			config: AzureConfig{AccountName: "acct", AccountKey: "a2V5"},
			want:   "DefaultEndpointsProtocol=https;AccountName=acct;AccountKey=a2V5;EndpointSuffix=core.windows.net",
		},
		{
			name: "emulator endpoint",
			config: AzureConfig{
				AccountName: "devstoreaccount1",
				AccountKey:  "a2V5",
				Endpoint:    "http://127.0.0.1:10000/devstoreaccount1",
			},
			want: "DefaultEndpointsProtocol=https;AccountName=devstoreaccount1;AccountKey=a2V5;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.ConnectionString())
		})
	}
}

func TestAzureWriter_Put(t *testing.T) {
	client := &fakeBlobClient{}
	w := newAzureWriter(client, "snapshots", zap.NewNop())

	require.NoError(t, w.Put(context.Background(), "date=2024-03-15/b3_2024-03-15.parquet", []byte("PAR1")))

	require.Len(t, client.uploads, 1)
	assert.Equal(t, upload{
		container:   "snapshots",
		blob:        "date=2024-03-15/b3_2024-03-15.parquet",
		body:        []byte("PAR1"),
		contentType: "application/vnd.apache.parquet",
	}, client.uploads[0])
}

func TestAzureWriter_UploadError(t *testing.T) {
	cause := stderrors.New("AuthorizationFailure")
	w := newAzureWriter(&fakeBlobClient{err: cause}, "snapshots", zap.NewNop())

	err := w.Put(context.Background(), "k.parquet", []byte("x"))

	var storageErr *errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "snapshots/k.parquet", storageErr.Path)
	assert.ErrorIs(t, err, cause)
}

func TestAzureWriter_Close(t *testing.T) {
	client := &fakeBlobClient{}
	w := newAzureWriter(client, "snapshots", zap.NewNop())

	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Put(context.Background(), "k.parquet", nil), errors.ErrWriterClosed)
	assert.Empty(t, client.uploads)
}
