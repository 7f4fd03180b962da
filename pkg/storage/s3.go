package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// metadataOriginalName is the object metadata field carrying the URL-encoded
// original filename.
const metadataOriginalName = "original-name"

// ObjectStorage implements Backend against an S3-compatible bucket (AWS S3,
// MinIO and other S3-compatible services via the endpoint override).
type ObjectStorage struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// NewObjectStorage builds the object-storage provider. Construction is
// deliberately soft: a missing bucket does not fail here, so dependency
// wiring cannot crash at boot; data operations return ErrNotConfigured
// instead.
func NewObjectStorage(cfg ObjectStorageConfig) (*ObjectStorage, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Non-AWS S3-compatible services are addressed path-style.
			o.UsePathStyle = true
		}
	})

	return &ObjectStorage{
		client:   client,
		bucket:   cfg.Bucket,
		region:   region,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
	}, nil
}

// SaveFile validates the upload and puts it under a freshly generated key,
// with the declared MIME type as content-type and the URL-encoded original
// filename as object metadata.
func (s *ObjectStorage) SaveFile(ctx context.Context, file *UploadedFile) (*StoredFile, error) {
	if err := Validate(file); err != nil {
		return nil, err
	}
	if s.bucket == "" {
		return nil, ErrNotConfigured
	}

	key := GenerateKey(file.FileName, time.Now())
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
		Metadata: map[string]string{
			metadataOriginalName: url.QueryEscape(file.FileName),
		},
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, ioError("save", key, err)
	}

	return &StoredFile{
		Path:        key,
		Size:        file.Size,
		ContentType: file.ContentType,
		FileName:    file.FileName,
	}, nil
}

// GetFile fetches the object under key and drains the response body into a
// buffer before returning, keeping the contract identical to the local
// backend. Missing keys and missing buckets both translate to ErrNotFound.
func (s *ObjectStorage) GetFile(ctx context.Context, key string) ([]byte, error) {
	if s.bucket == "" {
		return nil, ErrNotConfigured
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isObjectMissing(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, ioError("get", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, ioError("get", key, err)
	}
	return data, nil
}

// isObjectMissing reports whether err denotes an absent object or bucket.
// NoSuchKey comes back as a typed error; NoSuchBucket is not modeled on
// GetObject and arrives as a generic API error, so it is matched by code.
func isObjectMissing(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket"
}

// DeleteFile removes the object under key. Object-storage delete is
// idempotent by definition of the backend, so no existence pre-check.
func (s *ObjectStorage) DeleteFile(ctx context.Context, key string) error {
	if s.bucket == "" {
		return ErrNotConfigured
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return ioError("delete", key, err)
	}
	return nil
}

// Exists issues a head-object call. Existence checks are advisory: every
// failure, missing key or transport error alike, is reported as false.
func (s *ObjectStorage) Exists(ctx context.Context, key string) bool {
	if s.bucket == "" {
		return false
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// FullPath renders a public-style URL for key. The bucket may be private,
// so the URL is not guaranteed to be reachable; diagnostic only.
func (s *ObjectStorage) FullPath(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Kind returns KindObjectStorage.
func (s *ObjectStorage) Kind() string { return KindObjectStorage }
