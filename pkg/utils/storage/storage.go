package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var client *s3.Client

func InitStorage() error {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %v", err)
	}

	client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return nil
}

func cdnBase() string {
	if base := os.Getenv("CDN_BASE_URL"); base != "" {
		return base
	}
	return "https://cdn.basera.in"
}

// ObjectKey users/<username>/listings/<slug>/images/<unique>.<ext>
// yapısında URL-safe bir anahtar üretir
func ObjectKey(username, listingSlug, filename string) string {
	ext := filepath.Ext(filename)
	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())

	return filepath.Join(
		"users", slug.Make(username),
		"listings", slug.Make(listingSlug),
		"images", uniqueID+ext,
	)
}

// Put objeyi R2'ye yükler ve public CDN URL'ini döner
func Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("could not upload file to R2: %v", err)
	}

	return fmt.Sprintf("%s/%s", cdnBase(), key), nil
}

// Delete CDN URL'i verilen objeyi R2'den siler
func Delete(ctx context.Context, fullURL string) error {
	objectKey := getObjectKeyFromURL(fullURL)

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	}

	if _, err := client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}

func getObjectKeyFromURL(fullURL string) string {
	trimmed := strings.TrimPrefix(fullURL, cdnBase())
	return strings.TrimPrefix(trimmed, "/")
}
