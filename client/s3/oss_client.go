package s3

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

var ErrStorageNotConfigured = errors.New("object storage not configured")

var (
	PhotoBucket   *oss.Bucket
	GetObjectFunc = GetObject
	PutObjectFunc = PutObject
)

// Bootstrap opens the photo bucket when OSS_ENDPOINT is set, it reports false otherwise.
func Bootstrap() (bool, error) {
	if os.Getenv("OSS_ENDPOINT") == "" {
		return false, nil
	}
	bucket, err := BuildBucketFromEnv()
	if err != nil {
		return false, err
	}
	PhotoBucket = bucket
	return true, nil
}

func BuildBucketFromEnv() (*oss.Bucket, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucket := os.Getenv("OSS_BUCKET")
	if bucket == "" {
		bucket = "fieldjobs"
	}
	return BuildBucket(endpoint, accessKey, secretKey, bucket)
}

func BuildBucket(endpoint, accessKey, secretKey, bucketName string) (*oss.Bucket, error) {
	// endpoint http://oss-cn-hangzhou.aliyuncs.com
	cli, err := oss.New(endpoint, accessKey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}
	return cli.Bucket(bucketName)
}

func startSpan(ctx context.Context, operation, key string) opentracing.Span {
	parentSpan := opentracing.SpanFromContext(ctx)
	if parentSpan == nil {
		return nil
	}
	sp := parentSpan.Tracer().StartSpan(operation, opentracing.ChildOf(parentSpan.Context()))
	sp.SetTag("object-key", key)
	return sp
}

func GetObject(ctx context.Context, key string, opts ...oss.Option) (io.ReadCloser, error) {
	if PhotoBucket == nil {
		return nil, ErrStorageNotConfigured
	}
	sp := startSpan(ctx, "get-object", key)
	r, err := PhotoBucket.GetObject(key, opts...)
	if sp != nil {
		ext.Error.Set(sp, err != nil)
		sp.Finish()
	}
	return r, err
}

func PutObject(ctx context.Context, key string, r io.Reader, opts ...oss.Option) error {
	if PhotoBucket == nil {
		return ErrStorageNotConfigured
	}
	sp := startSpan(ctx, "put-object", key)
	err := PhotoBucket.PutObject(key, r, opts...)
	if sp != nil {
		ext.Error.Set(sp, err != nil)
		sp.Finish()
	}
	return err
}
