package repository

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	s3config "github.com/Padi142/beer-guesser/internal/config"
	"github.com/Padi142/beer-guesser/internal/domain"
)

// Browser uploads must be real images and between 1 KB and 10 MB; the
// provider enforces both through the presigned POST policy.
const (
	uploadMinBytes = 1_000
	uploadMaxBytes = 10_000_000
)

// ObjectInfo is the subset of object metadata the gallery needs.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

type S3Repository interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
	PresignPost(ctx context.Context, key string, expires time.Duration) (*domain.UploadTicket, error)
}

type s3Repository struct {
	client  *s3.Client
	presign *s3.PresignClient
	cfg     *s3config.S3Config
	log     *zap.Logger
}

func NewS3Repository(cfg *s3config.S3Config, log *zap.Logger) (S3Repository, error) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.Endpoint != "" {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				Source:            aws.EndpointSourceCustom,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	repo := &s3Repository{
		client:  client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		log:     log,
	}

	if err := repo.checkBucket(context.Background()); err != nil {
		log.Warn("Bucket not reachable at startup", zap.String("bucket", cfg.BucketName), zap.Error(err))
	}

	return repo, nil
}

func (r *s3Repository) checkBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.cfg.BucketName),
	})
	return err
}

func (r *s3Repository) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	output, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.cfg.BucketName),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		r.log.Error("Failed to list objects",
			zap.String("prefix", prefix),
			zap.Error(err))
		return nil, err
	}

	objects := make([]ObjectInfo, 0, len(output.Contents))
	for _, obj := range output.Contents {
		objects = append(objects, ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: obj.LastModified,
		})
	}

	return objects, nil
}

func (r *s3Repository) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := r.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		r.log.Error("Failed to presign read URL",
			zap.String("key", key),
			zap.Error(err))
		return "", err
	}

	return req.URL, nil
}

func (r *s3Repository) DeleteObject(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		r.log.Error("Failed to delete object",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	r.log.Info("Object deleted", zap.String("key", key))

	return nil
}

func (r *s3Repository) PresignPost(ctx context.Context, key string, expires time.Duration) (*domain.UploadTicket, error) {
	req, err := r.presign.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(r.cfg.BucketName),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = expires
		o.Conditions = []interface{}{
			[]interface{}{"starts-with", "$Content-Type", "image/"},
			[]interface{}{"content-length-range", uploadMinBytes, uploadMaxBytes},
		}
	})
	if err != nil {
		r.log.Error("Failed to presign upload",
			zap.String("key", key),
			zap.Error(err))
		return nil, err
	}

	return &domain.UploadTicket{
		URL:    req.URL,
		Fields: req.Values,
		Key:    key,
	}, nil
}
