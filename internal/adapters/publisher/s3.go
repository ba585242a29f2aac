package publisher

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/melih/graphbot/internal/logger"
)

const (
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
)

// s3API is the part of the S3 client the publisher uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options locate the bucket receiving the diagrams.
type S3Options struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
}

// S3 uploads rendered diagrams to a bucket.
type S3 struct {
	client s3API
	opts   S3Options
}

// NewS3 creates a publisher from the default AWS configuration chain.
// Static credentials from AWS_ACCESS_KEY and AWS_SECRET_KEY win when set.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	loaders := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithBaseEndpoint(opts.Endpoint),
	}
	accessKey, secretKey := os.Getenv(EnvAccessKey), os.Getenv(EnvSecretKey)
	if accessKey != "" && secretKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.Endpoint != ""
	})
	return &S3{client: client, opts: opts}, nil
}

func (p *S3) Name() string {
	return "s3"
}

// Key returns the object key of a rendered file.
func (p *S3) Key(file string) string {
	return path.Join(p.opts.Prefix, filepath.Base(file))
}

// Publish uploads every file under the configured prefix.
func (p *S3) Publish(ctx context.Context, files []string) error {
	for _, file := range files {
		if err := p.put(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

func (p *S3) put(ctx context.Context, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	key := p.Key(file)
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.opts.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(file)); mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}

	if _, err := p.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}
	logger.Debug("Uploaded diagram", "bucket", p.opts.Bucket, "key", key)
	return nil
}
