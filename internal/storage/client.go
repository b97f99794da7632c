package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint string
	Access   string
	Secret   string
	Region   string
	UseSSL   bool
}

type Client struct {
	minio *minio.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Access, cfg.Secret, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Client{minio: mc}, nil
}

func (c *Client) ObjectExists(ctx context.Context, loc Location) (bool, error) {
	_, err := c.minio.StatObject(ctx, loc.Bucket, loc.Key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NoSuchObject" || resp.Code == "NoSuchBucket" {
		return false, nil
	}
	return false, fmt.Errorf("stat object %s: %w", loc, err)
}

// OpenObject streams an object. The caller must Close the reader.
func (c *Client) OpenObject(ctx context.Context, loc Location) (io.ReadCloser, error) {
	obj, err := c.minio.GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", loc, err)
	}
	// GetObject is lazy; Stat surfaces missing objects before decoding starts.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("get object %s: %w", loc, err)
	}
	return obj, nil
}

func (c *Client) WriteObject(ctx context.Context, loc Location, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := c.minio.PutObject(
		ctx,
		loc.Bucket,
		loc.Key,
		reader,
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("put object %s: %w", loc, err)
	}
	return nil
}
