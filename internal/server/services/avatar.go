package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophportal/internal/common"
	"github.com/dmitrijs2005/gophportal/internal/server/auth"
	sc "github.com/dmitrijs2005/gophportal/internal/server/config"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/dmitrijs2005/gophportal/internal/server/repositories/repomanager"
)

const avatarURLValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// PresignedURL is a time-limited link to an avatar object.
type PresignedURL struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// AvatarService hands out presigned S3 URLs so clients move avatar bytes
// directly to and from object storage.
type AvatarService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         func() time.Time
}

func NewAvatarService(m repomanager.RepositoryManager, config *sc.Config) *AvatarService {
	return &AvatarService{repomanager: m, config: config, now: time.Now}
}

// AvatarKey is the object key of an account's avatar.
func AvatarKey(accountID string) string {
	return "avatars/" + accountID
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// UploadURL presigns a PUT for the avatar of id. The caller must be allowed
// to modify id.
func (s *AvatarService) UploadURL(ctx context.Context, current *models.Account, id string) (*PresignedURL, error) {
	if err := auth.CheckModify(current, id); err != nil {
		return nil, err
	}
	if _, err := s.repomanager.Accounts().GetActiveByID(ctx, id); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := AvatarKey(id)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(avatarURLValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &PresignedURL{Key: key, URL: req.URL, ExpiresAt: s.now().Add(avatarURLValidity)}, nil
}

// DownloadURL presigns a GET for the avatar of id. Any authenticated caller
// may fetch any active account's avatar.
func (s *AvatarService) DownloadURL(ctx context.Context, current *models.Account, id string) (*PresignedURL, error) {
	if current == nil {
		return nil, common.ErrorUnauthorized
	}
	if _, err := s.repomanager.Accounts().GetActiveByID(ctx, id); err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := AvatarKey(id)

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(avatarURLValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &PresignedURL{Key: key, URL: req.URL, ExpiresAt: s.now().Add(avatarURLValidity)}, nil
}
