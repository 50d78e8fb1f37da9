package storage

import (
	"Food-Share-Backend/internal/utils"
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

var AllowImage = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}

var ErrFileTypeNotAllowed = errors.New("file type not allowed")

const uploadTimeout = 30 * time.Second

type (
	AwsS3 interface {
		UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
		// Endpoint points at an S3-compatible store such as MinIO.
		Endpoint string
	}

	awsS3 struct {
		client   *s3.Client
		bucket   string
		baseLink string
	}
)

// ConfigFromEnv reads the AWS_* keys loaded by utils.LoadConfig.
func ConfigFromEnv() S3Config {
	return S3Config{
		Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
		Region:    utils.GetConfig("AWS_S3_REGION"),
		AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
		SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
		Endpoint:  utils.GetConfig("AWS_S3_ENDPOINT"),
	}
}

func NewAwsS3(cfg S3Config) (AwsS3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET is not set")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &awsS3{
		client:   client,
		bucket:   cfg.Bucket,
		baseLink: PublicBaseLink(cfg),
	}, nil
}

// PublicBaseLink is the URL prefix objects in the bucket are served under.
func PublicBaseLink(cfg S3Config) string {
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.Bucket, cfg.Region)
}

// Allowed reports whether contentType is one of allowed. No list means anything goes.
func Allowed(contentType string, allowed ...string) bool {
	if len(allowed) == 0 {
		return true
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, a := range allowed {
		if contentType == a {
			return true
		}
	}
	return false
}

func (a *awsS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !Allowed(contentType, allowed...) {
		return "", ErrFileTypeNotAllowed
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	objectKey := fmt.Sprintf("%s/%s%s", folder, fileName, strings.ToLower(filepath.Ext(file.Filename)))

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if _, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        src,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", errors.Wrap(err, "s3 put object")
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if _, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	}); err != nil {
		return errors.Wrap(err, "s3 delete object")
	}
	return nil
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseLink + objectKey
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, a.baseLink)
}
