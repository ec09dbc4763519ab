// Package storage issues presigned URLs for attachments kept in an
// S3-compatible bucket. The server never proxies file bytes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrDisabled is returned when no bucket is configured
var ErrDisabled = errors.New("attachment storage is not configured")

// Presigned is a time-limited URL for one object
type Presigned struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// Presigner hands out upload and download URLs
type Presigner interface {
	PresignUpload(ctx context.Context, key string) (*Presigned, error)
	PresignDownload(ctx context.Context, key string) (*Presigned, error)
}

// Options configures the S3 presigner
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS, set for MinIO and friends
	AccessKey string
	SecretKey string
	TTL       time.Duration
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3Presigner implements Presigner on aws-sdk-go-v2
type S3Presigner struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
	now    func() time.Time
}

// NewS3Presigner builds the client once. Static credentials are used when an
// access key is set, otherwise the default AWS credential chain applies.
func NewS3Presigner(ctx context.Context, opts Options) (*S3Presigner, error) {
	if opts.Bucket == "" {
		return nil, ErrDisabled
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Presigner{
		client: s3.NewPresignClient(client),
		bucket: opts.Bucket,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (p *S3Presigner) PresignUpload(ctx context.Context, key string) (*Presigned, error) {
	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &Presigned{Key: key, URL: req.URL, ExpiresAt: p.now().Add(p.ttl)}, nil
}

func (p *S3Presigner) PresignDownload(ctx context.Context, key string) (*Presigned, error) {
	req, err := presignGetObject(p.client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}

	return &Presigned{Key: key, URL: req.URL, ExpiresAt: p.now().Add(p.ttl)}, nil
}

// ObjectKey builds a unique key under prefix/ownerID, keeping only the base
// name of the client supplied file name.
func ObjectKey(prefix, ownerID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "file"
	}
	return path.Join(prefix, ownerID, uuid.NewString()+"-"+name)
}
