package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string // S3-compatible endpoint (MinIO, R2); empty for AWS
	AccessKeyID     string // empty uses the default credential chain
	SecretAccessKey string
	PublicURL       string // CDN or public bucket base URL
	UsePathStyle    bool
	PartSizeMB      int64
}

type s3Storage struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

// NewS3Storage creates an S3-backed VideoStorage. Uploads go through the
// multipart manager so large videos are never buffered whole.
func NewS3Storage(ctx context.Context, opts S3Options) (VideoStorage, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	partSize := opts.PartSizeMB * 1024 * 1024
	if partSize < manager.MinUploadPartSize {
		partSize = manager.MinUploadPartSize
	}
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = partSize
	})

	return &s3Storage{client: client, uploader: uploader, opts: opts}, nil
}

func (s *s3Storage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (*UploadResult, error) {
	key := objectKey(filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body := &countingReader{r: r}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to s3: %w", err)
	}

	return &UploadResult{URL: s.publicURL(key), Key: key, Size: body.n}, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete s3 object %s: %w", key, err)
	}
	return nil
}

func (s *s3Storage) Read(ctx context.Context, key, byteRange string) (*Object, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}
	if byteRange != "" {
		input.Range = aws.String(byteRange)
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrObjectNotFound
		}
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidRange" {
			return nil, ErrInvalidRange
		}
		return nil, fmt.Errorf("failed to read s3 object %s: %w", key, err)
	}

	return &Object{
		Body:          out.Body,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		ContentRange:  aws.ToString(out.ContentRange),
	}, nil
}

func (s *s3Storage) publicURL(key string) string {
	return buildS3URL(s.opts, key)
}

func buildS3URL(opts S3Options, key string) string {
	switch {
	case opts.PublicURL != "":
		return strings.TrimRight(opts.PublicURL, "/") + "/" + key
	case opts.Endpoint != "" && opts.UsePathStyle:
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(opts.Endpoint, "/"), opts.Bucket, key)
	case opts.Endpoint != "":
		endpoint := strings.TrimRight(opts.Endpoint, "/")
		scheme, host, found := strings.Cut(endpoint, "://")
		if !found {
			return fmt.Sprintf("https://%s.%s/%s", opts.Bucket, endpoint, key)
		}
		return fmt.Sprintf("%s://%s.%s/%s", scheme, opts.Bucket, host, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", opts.Bucket, opts.Region, key)
	}
}
