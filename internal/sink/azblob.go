package sink

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/mazrean/streamclone/log"
)

var _ Sink = &AzureBlob{}

// AzureBlob uploads into a container addressed by a SAS URL.
type AzureBlob struct {
	logger       log.Logger
	containerURL *url.URL
	blockSize    int64
	concurrency  int
}

const (
	defaultBlockSize   = 4 << 20
	defaultConcurrency = 4
)

func NewAzureBlob(logger log.Logger, containerSASURL string) (*AzureBlob, error) {
	u, err := url.Parse(containerSASURL)
	if err != nil {
		return nil, fmt.Errorf("parse container URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid container URL: %q", containerSASURL)
	}

	logger.Infof("Azure Blob sink initialized: container=%s%s", u.Host, u.Path)

	return &AzureBlob{
		logger:       logger,
		containerURL: u,
		blockSize:    defaultBlockSize,
		concurrency:  defaultConcurrency,
	}, nil
}

// blobURL appends name to the container path and keeps the SAS query.
func (a *AzureBlob) blobURL(name string) string {
	u := *a.containerURL
	u.Path = u.Path + "/" + encodeName(name)
	u.RawPath = ""

	return u.String()
}

func (a *AzureBlob) Put(ctx context.Context, name string, _ int64, r io.Reader) (string, error) {
	blobURL := a.blobURL(name)

	client, err := blockblob.NewClientWithNoCredential(blobURL, nil)
	if err != nil {
		return "", fmt.Errorf("create blob client: %w", err)
	}

	_, err = client.UploadStream(ctx, r, &blockblob.UploadStreamOptions{
		BlockSize:   a.blockSize,
		Concurrency: a.concurrency,
	})
	if err != nil {
		return "", fmt.Errorf("upload stream: %w", err)
	}

	location := *a.containerURL
	location.Path = location.Path + "/" + encodeName(name)
	location.RawQuery = ""
	a.logger.Debugf("blob uploaded: url=%s", location.String())

	return location.String(), nil
}

func (a *AzureBlob) Close() error {
	return nil
}
