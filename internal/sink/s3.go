package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/mazrean/streamclone/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/singleflight"
)

// Ensure S3 implements Sink
var _ Sink = &S3{}

// S3 implements the Sink interface using MinIO Go Client SDK.
type S3 struct {
	logger log.Logger
	client *minio.Client
	bucket string
	prefix string

	sf singleflight.Group
}

// NewS3 initializes a new S3 sink.
// endpoint: S3 endpoint URL
// accessKey: access key for S3
// secretKey: secret key for S3
// bucket: the bucket name to use
// prefix: prepended to every object name
// useSSL: whether to use SSL
// usePathStyle: whether to force path style
func NewS3(
	logger log.Logger,
	endpoint, region, accessKey, secretKey, bucket, prefix string,
	useSSL, usePathStyle bool,
) (*S3, error) {
	var creds *credentials.Credentials
	if accessKey != "" && secretKey != "" {
		creds = credentials.NewStaticV4(accessKey, secretKey, "")
	} else {
		creds = credentials.NewFileAWSCredentials("", "")
	}

	bucketLookupType := minio.BucketLookupDNS
	if usePathStyle {
		bucketLookupType = minio.BucketLookupPath
	}
	client, err := minio.New(endpoint, &minio.Options{
		Region:       region,
		Creds:        creds,
		Secure:       useSSL,
		BucketLookup: bucketLookupType,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize S3 client: %w", err)
	}

	logger.Infof("S3 sink initialized with bucket %q", bucket)

	return &S3{
		logger: logger,
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// Put uploads the body. Concurrent puts of the same name share one upload;
// the losers drain their body.
func (s *S3) Put(ctx context.Context, name string, size int64, r io.Reader) (string, error) {
	objectName := s.objectName(name)

	uploaded := false
	v, err, _ := s.sf.Do(objectName, func() (any, error) {
		uploaded = true

		opts := minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		}
		info, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, opts)
		if err != nil {
			return nil, fmt.Errorf("upload object: %w", err)
		}
		s.logger.Debugf("object uploaded: bucket=%s, key=%s, size=%d", info.Bucket, info.Key, info.Size)

		return fmt.Sprintf("s3://%s/%s", info.Bucket, info.Key), nil
	})
	if !uploaded {
		if _, err := io.Copy(io.Discard, r); err != nil {
			s.logger.Warnf("discard body: %v", err)
		}
	}
	if err != nil {
		return "", fmt.Errorf("do singleflight: %w", err)
	}

	return v.(string), nil
}

func (s *S3) objectName(name string) string {
	return s.prefix + encodeName(name)
}

func (s *S3) Close() error {
	return nil
}
