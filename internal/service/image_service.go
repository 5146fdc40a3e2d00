package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Padi142/beer-guesser/internal/domain"
	"github.com/Padi142/beer-guesser/internal/repository"
	"github.com/Padi142/beer-guesser/pkg/utils"
)

// Read URLs and upload tickets both expire after an hour.
const signedURLTTL = time.Hour

type ImageService interface {
	ListImages(ctx context.Context) ([]domain.ImageRecord, error)
	DeleteImage(ctx context.Context, key string) error
	CreateUploadTicket(ctx context.Context, fileName string) (*domain.UploadTicket, error)
}

type imageService struct {
	s3Repo repository.S3Repository
	log    *zap.Logger
	now    func() time.Time
}

func NewImageService(s3Repo repository.S3Repository, log *zap.Logger) ImageService {
	return &imageService{
		s3Repo: s3Repo,
		log:    log,
		now:    time.Now,
	}
}

// ListImages enumerates the beers prefix, keeps image keys only and
// signs a fresh read URL per object. Order is whatever the provider
// returns; callers must not rely on it being stable.
func (s *imageService) ListImages(ctx context.Context) ([]domain.ImageRecord, error) {
	objects, err := s.s3Repo.ListObjects(ctx, domain.BeersPrefix)
	if err != nil {
		return nil, err
	}

	images := make([]domain.ImageRecord, 0, len(objects))
	for _, obj := range objects {
		if !utils.IsImageKey(obj.Key) {
			continue
		}

		src, err := s.s3Repo.PresignGet(ctx, obj.Key, signedURLTTL)
		if err != nil {
			return nil, err
		}

		filename := strings.TrimPrefix(obj.Key, domain.BeersPrefix)
		images = append(images, domain.ImageRecord{
			ID:         obj.Key,
			Src:        src,
			Alt:        filename,
			Filename:   filename,
			UploadedAt: obj.LastModified,
			Size:       obj.Size,
		})
	}

	return images, nil
}

// DeleteImage removes one object. Keys outside the beers prefix are
// rejected before the provider is ever called.
func (s *imageService) DeleteImage(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, domain.BeersPrefix) {
		return domain.ErrInvalidKey
	}

	if err := s.s3Repo.DeleteObject(ctx, key); err != nil {
		return err
	}

	s.log.Info("Image deleted", zap.String("key", key))

	return nil
}

// CreateUploadTicket issues a presigned browser POST for a fresh key
// derived from the sanitized file name. Two tickets issued within the
// same millisecond for the same name collide; the epoch prefix is a
// uniqueness heuristic, not a guarantee.
func (s *imageService) CreateUploadTicket(ctx context.Context, fileName string) (*domain.UploadTicket, error) {
	sanitized := utils.SanitizeFileName(fileName)
	key := fmt.Sprintf("%s%d-%s", domain.BeersPrefix, s.now().UnixMilli(), sanitized)

	ticket, err := s.s3Repo.PresignPost(ctx, key, signedURLTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info("Upload ticket issued",
		zap.String("key", key),
		zap.String("fileName", fileName))

	return ticket, nil
}
