package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/models"
)

// S3Config points at an S3 compatible bucket
type S3Config struct {
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// Uploader puts CSV exports into object storage
type Uploader struct {
	client *s3.Client
	bucket string
	log    zerolog.Logger
}

// NewUploader builds an S3 client from static credentials
func NewUploader(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*Uploader, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("export S3 credentials not configured (EXPORT_BUCKET_NAME, EXPORT_ACCESS_KEY_ID, EXPORT_SECRET_ACCESS_KEY)")
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
		log:    logger.With().Str("component", "export").Logger(),
	}, nil
}

// ObjectKey names the export of pageID taken at t
func ObjectKey(pageID string, t time.Time) string {
	return fmt.Sprintf("%s/attendees-%s.csv", pageID, t.UTC().Format("20060102-150405"))
}

// UploadCSV serializes records and stores them under key, returning the
// s3:// location
func (u *Uploader) UploadCSV(ctx context.Context, key string, records []models.AttendeeRecord, loc *time.Location) (string, error) {
	body := []byte(attendees.ToCSV(records, loc))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload to S3: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", u.bucket, key)
	u.log.Info().Str("location", location).Int("rows", len(records)).Msg("Uploaded export")
	return location, nil
}
