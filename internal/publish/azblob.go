package publish

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// DefaultContainer is the container Azure static website hosting serves from.
const DefaultContainer = "$web"

// BlobPublisher uploads the page to Azure Blob Storage.
type BlobPublisher struct {
	client    *azblob.Client
	container string
}

// NewBlobPublisher creates a publisher from a storage account connection string.
func NewBlobPublisher(connectionString, container string) (*BlobPublisher, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}
	if container == "" {
		container = DefaultContainer
	}
	return &BlobPublisher{client: client, container: container}, nil
}

// Publish overwrites the index.html block blob and sets its content type.
func (b *BlobPublisher) Publish(ctx context.Context, content []byte, contentType string) error {
	_, err := b.client.UploadBuffer(ctx, b.container, PageName, content, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		},
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", b.container, PageName, err)
	}
	return nil
}

func (b *BlobPublisher) Current(ctx context.Context) ([]byte, error) {
	resp, err := b.client.DownloadStream(ctx, b.container, PageName, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, ErrNotPublished
	}
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", b.container, PageName, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
