package storage

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage implements the Storage interface for interacting with AWS S3.
type S3Storage struct {
	Config  Config
	Session *session.Session
}

// NewS3Storage creates a new S3Storage with a new aws session.
func NewS3Storage(config Config) S3Storage {
	return S3Storage{
		Config:  config,
		Session: newAWSSession(config),
	}
}

// Write writes the data to the key in the S3 Bucket.
func (s S3Storage) Write(ctx context.Context,
	key string,
	body []byte,
	options *Options) error {

	uploader := s3manager.NewUploader(s.Session)

	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(s.buildKey(key)),
		Body:   bytes.NewReader(body),
	})

	return err
}

// Read fetches the object stored at key, in the S3 Bucket.
func (s S3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	downloader := s3manager.NewDownloader(s.Session)

	buf := aws.NewWriteAtBuffer([]byte{})

	_, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(s.buildKey(key)),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return buf.Bytes(), nil
}

// Remove removes the object stored at key, in the S3 Bucket.
func (s S3Storage) Remove(ctx context.Context, key string) error {
	svc := s3.New(s.Session)

	_, err := svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Config.Bucket),
		Key:    aws.String(s.buildKey(key)),
	})

	return err
}

// List returns all objects stored under the path.
func (s S3Storage) List(ctx context.Context, path string) ([][]byte, error) {
	svc := s3.New(s.Session)

	keys := []string{}

	err := svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.Config.Bucket),
		Prefix: aws.String(s.buildKey(path)),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, *obj.Key)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	objects := make([][]byte, 0, len(keys))

	downloader := s3manager.NewDownloader(s.Session)
	for _, key := range keys {
		buf := aws.NewWriteAtBuffer([]byte{})

		_, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(s.Config.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}

		objects = append(objects, buf.Bytes())
	}

	return objects, nil
}

func (s S3Storage) buildKey(key string) string {
	if len(s.Config.Root) == 0 {
		return key
	}
	return strings.Join([]string{s.Config.Root, key}, "/")
}

func newAWSSession(config Config) *session.Session {
	return session.Must(session.NewSession(&aws.Config{
		MaxRetries: aws.Int(config.MaxRetries),
		Retryer: client.DefaultRetryer{
			NumMaxRetries: config.MaxRetries,
		},
	}))
}
