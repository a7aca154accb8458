package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/navalhatech/agenda-api/internal/config"
)

// MediaStore guarda fotos de serviços e profissionais em um bucket
// compatível com S3 (MinIO em dev).
type MediaStore struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewMediaStore(cfg *config.Config) *MediaStore {
	opts := s3.Options{
		Region: cfg.S3Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		),
		UsePathStyle: true,
	}

	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}

	return &MediaStore{
		client:    s3.New(opts),
		bucket:    cfg.S3Bucket,
		publicURL: cfg.S3PublicURL,
	}
}

// UploadPhoto grava a imagem já normalizada e devolve a URL pública.
func (m *MediaStore) UploadPhoto(
	ctx context.Context,
	barbershopID uint,
	data []byte,
) (string, error) {

	key := fmt.Sprintf("shops/%d/%s.webp", barbershopID, uuid.NewString())

	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}

	if m.publicURL != "" {
		return fmt.Sprintf("%s/%s/%s", m.publicURL, m.bucket, key), nil
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", m.bucket, key), nil
}
