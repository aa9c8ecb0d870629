package remote

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/palpal-apps/work-tracker/internal/config"
	"github.com/palpal-apps/work-tracker/internal/domain"
	"github.com/palpal-apps/work-tracker/internal/errors"
)

// S3Store is the dedicated standalone backend: one JSON document per object
// under users/<uid>/<collection>/. Object keys derive from the entry's
// logical id directly, so no key resolution step is needed.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	user   User
}

// NewS3Store creates a store backed by an S3 bucket. Static credentials from
// the config take precedence over the ambient AWS credential chain.
func NewS3Store(ctx context.Context, cfg config.S3Config, user User) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.NewSyncError("load aws config", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: strings.TrimSuffix(cfg.Prefix, "/"),
		user:   user,
	}, nil
}

// IsAuthenticated reports whether the backend has a usable identity.
func (s *S3Store) IsAuthenticated() bool {
	return s.user.UID != ""
}

// User returns the authenticated user, or nil.
func (s *S3Store) User() *User {
	if !s.IsAuthenticated() {
		return nil
	}
	u := s.user
	return &u
}

func (s *S3Store) collectionPrefix(collection string) string {
	key := fmt.Sprintf("users/%s/%s/", s.user.UID, collection)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

func (s *S3Store) entryKey(collection string, id int64) string {
	return fmt.Sprintf("%s%d.json", s.collectionPrefix(collection), id)
}

func (s *S3Store) profileKey(uid string) string {
	key := fmt.Sprintf("users/%s/profile.json", uid)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

// SaveItem writes the entry document, overwriting any previous version.
func (s *S3Store) SaveItem(ctx context.Context, project, collection string, entry domain.TimeEntry) (string, error) {
	body, err := json.Marshal(entry)
	if err != nil {
		return "", errors.NewSyncError("encode entry", err)
	}

	key := s.entryKey(collection, entry.ID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", errors.NewSyncError("put "+key, err)
	}
	return key, nil
}

// GetAllItems lists and fetches every document in the collection.
func (s *S3Store) GetAllItems(ctx context.Context, project, collection string) ([]domain.TimeEntry, error) {
	prefix := s.collectionPrefix(collection)
	var entries []domain.TimeEntry

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.NewSyncError("list "+prefix, err)
		}
		for _, obj := range page.Contents {
			entry, err := s.getEntry(ctx, aws.ToString(obj.Key))
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *S3Store) getEntry(ctx context.Context, key string) (domain.TimeEntry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return domain.TimeEntry{}, errors.NewSyncError("get "+key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return domain.TimeEntry{}, errors.NewSyncError("read "+key, err)
	}

	var entry domain.TimeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.TimeEntry{}, errors.NewSyncError("decode "+key, err)
	}
	return entry, nil
}

// DeleteItem removes the entry document. S3 deletes are idempotent, so an
// absent id is naturally not an error.
func (s *S3Store) DeleteItem(ctx context.Context, project, collection string, id int64) error {
	key := s.entryKey(collection, id)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.NewSyncError("delete "+key, err)
	}
	return nil
}

// GetUserProfile returns the profile document, or nil when none exists.
func (s *S3Store) GetUserProfile(ctx context.Context, uid string) (domain.Profile, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.profileKey(uid)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if stderrors.As(err, &noKey) {
			return nil, nil
		}
		return nil, errors.NewSyncError("get profile", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.NewSyncError("read profile", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, errors.NewSyncError("decode profile", err)
	}
	return profile, nil
}

// SetUserProfile writes the profile document.
func (s *S3Store) SetUserProfile(ctx context.Context, profile domain.Profile, uid string) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return errors.NewSyncError("encode profile", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.profileKey(uid)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return errors.NewSyncError("put profile", err)
	}
	return nil
}
