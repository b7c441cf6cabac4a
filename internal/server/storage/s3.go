package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/staffkeeper/internal/server/apperr"
	sc "github.com/dmitrijs2005/staffkeeper/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
)

// extensions maps accepted image media types to object key suffixes.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// S3ImageSink uploads decoded image payloads to an S3-compatible bucket and
// returns the public object URL.
type S3ImageSink struct {
	client       *s3.Client
	bucket       string
	baseEndpoint string
}

// NewS3ImageSink builds the sink from startup configuration. The required
// credentials were already checked by config.Validate; a client construction
// failure here is a startup fault.
func NewS3ImageSink(cfg *sc.Config) (*S3ImageSink, error) {
	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config error: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3ImageSink{
		client:       client,
		bucket:       cfg.S3Bucket,
		baseEndpoint: strings.TrimRight(cfg.S3BaseEndpoint, "/"),
	}, nil
}

// Upload decodes the data-URL payload, stores it under folder with a random
// key, and returns the object URL. A payload the sink cannot decode or store
// is an internal failure: by the time it reaches the sink it has already
// passed request validation.
func (s *S3ImageSink) Upload(ctx context.Context, payload, folder string) (string, error) {
	contentType, data, err := decodeDataURL(payload)
	if err != nil {
		return "", apperr.Internal("image payload could not be decoded", err)
	}

	key := folder + "/" + uuid.New().String() + extensions[contentType]

	_, err = putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperr.Internal("image upload failed", err)
	}

	return s.baseEndpoint + "/" + s.bucket + "/" + key, nil
}

// decodeDataURL splits a "data:<type>;base64,<data>" payload into its media
// type and decoded bytes. A bare base64 string is accepted with an
// octet-stream type.
func decodeDataURL(payload string) (string, []byte, error) {
	contentType := "application/octet-stream"
	encoded := payload

	if strings.HasPrefix(payload, "data:") {
		header, rest, found := strings.Cut(payload, ",")
		if !found {
			return "", nil, fmt.Errorf("malformed data url")
		}
		header = strings.TrimPrefix(header, "data:")
		if mediaType, _, _ := strings.Cut(header, ";"); mediaType != "" {
			contentType = mediaType
		}
		encoded = rest
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("base64 decode: %w", err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("empty image payload")
	}

	return contentType, data, nil
}
