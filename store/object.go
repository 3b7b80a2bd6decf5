package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectConfig configures an S3-compatible object store.
type ObjectConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Validate checks the required fields.
func (c ObjectConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("store: object endpoint is required")
	}
	if c.Bucket == "" {
		return fmt.Errorf("store: object bucket is required")
	}
	return nil
}

// Object stores one object per record in an S3-compatible bucket.
type Object struct {
	cfg ObjectConfig

	mu     sync.RWMutex
	client *minio.Client
}

// NewObject creates an object store.
func NewObject(cfg ObjectConfig) *Object {
	return &Object{cfg: cfg}
}

// Name returns "object".
func (o *Object) Name() string { return "object" }

// ObjectName returns the object name for key.
func (o *Object) ObjectName(key string) string {
	return o.cfg.Prefix + key
}

// Open connects and creates the bucket when it does not exist.
func (o *Object) Open(ctx context.Context) error {
	if err := o.cfg.Validate(); err != nil {
		return err
	}

	client, err := minio.New(o.cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.cfg.AccessKey, o.cfg.SecretKey, ""),
		Secure: o.cfg.UseSSL,
		Region: o.cfg.Region,
	})
	if err != nil {
		return fmt.Errorf("store: object client: %w", err)
	}

	exists, err := client.BucketExists(ctx, o.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("%w: bucket %q: %v", ErrRead, o.cfg.Bucket, err)
	}
	if !exists {
		err := client.MakeBucket(ctx, o.cfg.Bucket, minio.MakeBucketOptions{Region: o.cfg.Region})
		if err != nil {
			return fmt.Errorf("%w: make bucket %q: %v", ErrWrite, o.cfg.Bucket, err)
		}
	}

	o.mu.Lock()
	o.client = client
	o.mu.Unlock()
	return nil
}

// Get downloads the object of key.
func (o *Object) Get(ctx context.Context, key string) ([]byte, bool, error) {
	client, err := o.conn()
	if err != nil {
		return nil, false, err
	}

	obj, err := client.GetObject(ctx, o.cfg.Bucket, o.ObjectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, o.readErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, false, o.readErr(err)
	}
	return data, true, nil
}

func (o *Object) readErr(err error) error {
	if isNoSuchKey(err) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrRead, err)
}

// Put uploads value as the object of key.
func (o *Object) Put(ctx context.Context, key string, value []byte) error {
	client, err := o.conn()
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, o.cfg.Bucket, o.ObjectName(key),
		bytes.NewReader(value), int64(len(value)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// Delete removes the object of key.
func (o *Object) Delete(ctx context.Context, key string) error {
	client, err := o.conn()
	if err != nil {
		return err
	}

	err = client.RemoveObject(ctx, o.cfg.Bucket, o.ObjectName(key), minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}
	return nil
}

// Close drops the client.
func (o *Object) Close() error {
	o.mu.Lock()
	o.client = nil
	o.mu.Unlock()
	return nil
}

func (o *Object) conn() (*minio.Client, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.client == nil {
		return nil, ErrClosed
	}
	return o.client, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

var _ Store = (*Object)(nil)
