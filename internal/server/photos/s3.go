package photos

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3-compatible backend such as MinIO.
type S3Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Store uploads data: photos to a bucket and returns path-style object URLs.
type S3Store struct {
	client   objectPutter
	bucket   string
	endpoint string
	now      func() time.Time
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(opts *s3.Options) {
		opts.BaseEndpoint = aws.String(o.BaseEndpoint)
		opts.UsePathStyle = true
	})

	return &S3Store{
		client:   client,
		bucket:   o.Bucket,
		endpoint: strings.TrimRight(o.BaseEndpoint, "/"),
		now:      time.Now,
	}, nil
}

// Offload uploads a data: URL and returns the object URL. Any other value,
// including nil, is returned as is.
func (s *S3Store) Offload(ctx context.Context, photoURL *string) (*string, error) {
	if photoURL == nil || !isDataURL(*photoURL) {
		return photoURL, nil
	}

	d, err := parseDataURL(*photoURL)
	if err != nil {
		return nil, err
	}

	key := storageKey(s.now().UTC(), extensionFor(d.mediaType))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(d.data),
		ContentType: aws.String(d.mediaType),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	u := fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	return &u, nil
}
