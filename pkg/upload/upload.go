// Package upload publishes finished renders to S3-compatible storage.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/joho/godotenv"
)

// UploadTimeout bounds a single PutObject call.
const UploadTimeout = 10 * time.Second

// Config holds the bucket settings and the object key to write.
type Config struct {
	Bucket    string
	Key       string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// FromEnv reads bucket settings from S3_* environment variables, loading
// a .env file first if one exists. key names the object to create.
func FromEnv(key string) (Config, error) {
	_ = godotenv.Load() // .env is optional; plain env vars win anyway

	cfg := Config{
		Bucket:    os.Getenv("S3_BUCKET"),
		Key:       key,
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    os.Getenv("S3_REGION"),
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
	}
	if cfg.Bucket == "" {
		return Config{}, fmt.Errorf("S3_BUCKET is not set")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	return cfg, nil
}

// Upload puts PNG data at cfg.Key in cfg.Bucket.
func Upload(ctx context.Context, cfg Config, data []byte) error {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return fmt.Errorf("create aws session: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	_, err = s3.New(sess).PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(cfg.Bucket),
		Key:           aws.String(cfg.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", cfg.Key, err)
	}
	return nil
}
