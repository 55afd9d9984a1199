package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"banthub/internal/authz"
	"banthub/internal/models"
	"banthub/internal/repositories"
)

const maxUploadSize = 10 << 20 // 10 MiB

var allowedMediaTypes = map[string]string{
	"image/jpeg": "image",
	"image/png":  "image",
	"image/gif":  "image",
	"image/webp": "image",
	"video/mp4":  "video",
	"video/webm": "video",
}

// ObjectStore is the slice of the hosted storage API uploads need.
type ObjectStore interface {
	UploadObject(ctx context.Context, bucket, path, contentType string, data []byte) error
	DeleteObject(ctx context.Context, bucket, path string) error
	PublicObjectURL(bucket, path string) string
}

type MediaService interface {
	Upload(ctx context.Context, userID, filename, contentType string, data []byte) (*models.Media, error)
	Delete(ctx context.Context, id, userID, role string) error
	ListByUser(userID string, limit, offset int) ([]*models.Media, error)
}

type mediaService struct {
	repo   repositories.MediaRepository
	store  ObjectStore
	bucket string
}

func NewMediaService(repo repositories.MediaRepository, store ObjectStore, bucket string) MediaService {
	return &mediaService{repo: repo, store: store, bucket: bucket}
}

// Upload validates type and size, writes the object under a fresh UUID key,
// and records the row. The original filename survives only as display metadata.
func (s *mediaService) Upload(ctx context.Context, userID, filename, contentType string, data []byte) (*models.Media, error) {
	kind, ok := allowedMediaTypes[contentType]
	if !ok {
		return nil, ErrInvalidInput
	}
	if len(data) == 0 || len(data) > maxUploadSize {
		return nil, ErrInvalidInput
	}

	key := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	if err := s.store.UploadObject(ctx, s.bucket, key, contentType, data); err != nil {
		return nil, err
	}

	media := &models.Media{
		UserID: userID,
		URL:    s.store.PublicObjectURL(s.bucket, key),
		Type:   kind,
		Name:   filepath.Base(filename),
		Size:   int64(len(data)),
	}
	if err := s.repo.Create(media); err != nil {
		// the object is orphaned if this delete fails, the cleanup job ignores it
		if derr := s.store.DeleteObject(ctx, s.bucket, key); derr != nil {
			log.Printf("[media][upload] rollback delete %s: %v", key, derr)
		}
		return nil, err
	}
	return media, nil
}

func (s *mediaService) Delete(ctx context.Context, id, userID, role string) error {
	media, err := s.repo.GetByID(id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if d := authz.OwnerOrModerator(userID, role, media.UserID); !d.Allowed() {
		return ErrForbidden
	}

	if key, ok := s.objectKey(media.URL); ok {
		if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
			log.Printf("[media][delete] object %s: %v", key, err)
		}
	}
	return s.repo.Delete(id)
}

func (s *mediaService) ListByUser(userID string, limit, offset int) ([]*models.Media, error) {
	return s.repo.ListByUser(userID, clampLimit(limit), offset)
}

func (s *mediaService) objectKey(url string) (string, bool) {
	marker := "/object/public/" + s.bucket + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	return url[i+len(marker):], true
}
