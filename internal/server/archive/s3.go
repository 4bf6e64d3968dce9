// Package archive stores copies of evicted conversations in an S3-compatible
// bucket (MinIO in development).
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
)

// putter is the part of *s3.Client the archiver needs.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Options struct {
	User     string
	Password string
	Bucket   string
	Region   string
	Endpoint string
}

// S3Archiver uploads one JSON document per evicted conversation.
type S3Archiver struct {
	client putter
	bucket string
	now    func() time.Time
}

// NewS3Archiver builds a path-style client with static credentials. An empty
// Endpoint leaves the SDK's default resolution in place.
func NewS3Archiver(ctx context.Context, opts Options) (*S3Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.User,
			opts.Password,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})
	return newS3Archiver(client, opts.Bucket), nil
}

func newS3Archiver(client putter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, now: time.Now}
}

type document struct {
	ConversationID string          `json:"conversation_id"`
	OwnerID        string          `json:"owner_id"`
	Title          string          `json:"title"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	EvictedAt      time.Time       `json:"evicted_at"`
	Messages       []*models.Entry `json:"messages"`
}

// Key is evicted/<owner>/<yyyy>/<mm>/<dd>/<conversation>.json, dated by the
// eviction time.
func Key(ownerID, conversationID string, at time.Time) string {
	return fmt.Sprintf("evicted/%s/%04d/%02d/%02d/%s.json", ownerID, at.Year(), at.Month(), at.Day(), conversationID)
}

func (a *S3Archiver) Archive(ctx context.Context, c *models.Conversation, entries []*models.Entry) error {
	at := a.now().UTC()
	if entries == nil {
		entries = []*models.Entry{}
	}
	body, err := json.Marshal(document{
		ConversationID: c.ID,
		OwnerID:        c.OwnerID,
		Title:          c.Title,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		EvictedAt:      at,
		Messages:       entries,
	})
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(c.OwnerID, c.ID, at)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put archive object: %w", err)
	}
	return nil
}
