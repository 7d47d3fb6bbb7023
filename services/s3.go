package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AWSServiceProvider covers the R2 bucket holding rendered outfit images and
// synthesized narrations.
type AWSServiceProvider interface {
	InitPresignClient(ctx context.Context) error
	PresignLink(ctx context.Context, bucketName string, fileName string) (string, error)
	UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error)
	GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error)
}

type AWSService struct {
	S3PresignClient *s3.PresignClient
}

func (awsService *AWSService) InitPresignClient(ctx context.Context) error {
	var accountId = GetEnv("R2_ACCOUNT_ID", "")
	var accessKeyId = GetEnv("R2_ACCESS_KEY_ID", "")
	var accessKeySecret = GetEnv("R2_ACCESS_KEY_SECRET", "")
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId),
		}, nil
	})
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyId, accessKeySecret, "")),
	)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg)
	awsService.S3PresignClient = s3.NewPresignClient(s3Client)
	return nil
}

func (awsService *AWSService) PresignLink(ctx context.Context, bucketName string, fileName string) (string, error) {
	request, err := awsService.S3PresignClient.PresignPutObject(ctx, &s3.PutObjectInput{Bucket: &bucketName, Key: &fileName})
	if err != nil {
		return "", err
	}
	return request.URL, nil
}

func (awsService *AWSService) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	presignedGetRequest, err := awsService.S3PresignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(fileKey),
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign request: %v", err)
	}
	return presignedGetRequest.URL, nil
}

func (awsService *AWSService) UploadToPresignedURL(ctx context.Context, bucketName, url string, fileContent []byte) (string, int, error) {
	mimeType := http.DetectContentType(fileContent)

	// renders are images, narrations are mp3
	allowedMimeTypes := map[string]bool{
		"image/png":  true,
		"image/jpeg": true,
		"image/webp": true,
		"audio/mpeg": true,
	}
	if !allowedMimeTypes[mimeType] {
		return "", 0, fmt.Errorf("unsupported file type: %s", mimeType)
	}

	body := bytes.NewReader(fileContent)
	req, err := http.NewRequestWithContext(ctx, "PUT", url, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return "", 0, err
	}
	req.Header.Set("Content-Type", mimeType)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error uploading file: %v\n", err)
		return "", 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		return "", resp.StatusCode, err
	}
	return string(respBody), resp.StatusCode, nil
}
