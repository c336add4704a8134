// Package media is the Control Centre's media library: uploads go to object
// storage and each object is recorded as a MediaAsset document entry.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/domain/events"
	"github.com/mastermind-creat/techsafi/internal/config"
	"github.com/mastermind-creat/techsafi/internal/storage"
	"github.com/mastermind-creat/techsafi/pkg/apperror"
	"github.com/mastermind-creat/techsafi/pkg/listops"
	"github.com/mastermind-creat/techsafi/pkg/logger"
)

var assets = listops.Accessors[content.MediaAsset]{
	ID: func(a *content.MediaAsset) *string { return &a.ID },
}

// allowedTypes are the content type prefixes accepted for upload.
var allowedTypes = []string{"image/", "video/", "application/pdf"}

// ObjectStore is the part of storage.Service the library needs.
type ObjectStore interface {
	Enabled() bool
	Upload(ctx context.Context, key string, data io.Reader, size int64, opts storage.UploadOptions) (*storage.UploadResult, error)
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Upload describes one incoming file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service manages the media library
type Service struct {
	content *content.Service
	acc     *content.Accessor[[]content.MediaAsset]
	store   ObjectStore
	maxSize int64
	log     *slog.Logger
	now     func() time.Time
}

// NewService creates a new media service
func NewService(contentSvc *content.Service, store ObjectStore, cfg *config.Config, log *slog.Logger) *Service {
	maxMB := cfg.Storage.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 10
	}
	return &Service{
		content: contentSvc,
		acc:     content.For(contentSvc, content.Media),
		store:   store,
		maxSize: int64(maxMB) << 20,
		log:     log.With(logger.Scope("media")),
		now:     time.Now,
	}
}

// Enabled reports whether uploads are possible.
func (s *Service) Enabled() bool {
	return s.store != nil && s.store.Enabled()
}

// MaxSize is the upload limit in bytes.
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// List returns the assets, newest first.
func (s *Service) List(ctx context.Context) ([]content.MediaAsset, error) {
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b content.MediaAsset) int {
		return b.UploadedAt.Compare(a.UploadedAt)
	})
	return all, nil
}

// Upload stores the file and records it.
func (s *Service) Upload(ctx context.Context, up Upload, actor string) (content.MediaAsset, error) {
	if !s.Enabled() {
		return content.MediaAsset{}, apperror.ErrStorageDisabled
	}
	if up.Size <= 0 {
		return content.MediaAsset{}, apperror.ErrValidation.WithMessage("file is empty")
	}
	if up.Size > s.maxSize {
		return content.MediaAsset{}, apperror.ErrPayloadTooLarge.WithMessage(
			fmt.Sprintf("file exceeds the %d MB upload limit", s.maxSize>>20))
	}
	if !allowedType(up.ContentType) {
		return content.MediaAsset{}, apperror.ErrValidation.WithMessage("unsupported file type: " + up.ContentType)
	}

	now := s.now().UTC()
	key := storage.MediaKey(up.Filename, now)
	if _, err := s.store.Upload(ctx, key, up.Body, up.Size, storage.UploadOptions{
		ContentType:  up.ContentType,
		CacheControl: "public, max-age=31536000, immutable",
	}); err != nil {
		return content.MediaAsset{}, apperror.NewInternal("failed to store file", err)
	}

	url, err := s.store.URL(ctx, key, 7*24*time.Hour)
	if err != nil {
		s.cleanup(key)
		return content.MediaAsset{}, apperror.NewInternal("failed to resolve file URL", err)
	}

	var created content.MediaAsset
	_, err = s.acc.Mutate(ctx, actor, func(list *[]content.MediaAsset) error {
		*list, created = assets.Append(*list, content.MediaAsset{
			Key:         key,
			URL:         url,
			Filename:    up.Filename,
			ContentType: up.ContentType,
			Size:        up.Size,
			UploadedAt:  now,
		})
		return nil
	})
	if err != nil {
		s.cleanup(key)
		return content.MediaAsset{}, err
	}

	s.log.Info("media uploaded",
		slog.String("id", created.ID),
		slog.String("key", key),
		slog.Int64("size", up.Size))
	s.content.ItemCreated(events.EntityMedia, created.ID, actor)
	return created, nil
}

// Delete removes the object and its record.
func (s *Service) Delete(ctx context.Context, id, actor string) error {
	if !s.Enabled() {
		return apperror.ErrStorageDisabled
	}
	all, err := s.acc.Fetch(ctx)
	if err != nil {
		return err
	}
	idx := assets.IndexOf(all, id)
	if idx < 0 {
		return apperror.NewNotFound("media asset", id)
	}
	if err := s.store.Delete(ctx, all[idx].Key); err != nil {
		return apperror.NewInternal("failed to delete file", err)
	}

	_, err = s.acc.Mutate(ctx, actor, func(list *[]content.MediaAsset) error {
		var err error
		*list, err = assets.Remove(*list, id)
		return err
	})
	if errors.Is(err, listops.ErrNotFound) {
		return nil
	}
	if err == nil {
		s.log.Info("media deleted", slog.String("id", id))
		s.content.ItemDeleted(events.EntityMedia, id, actor)
	}
	return err
}

func (s *Service) cleanup(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		s.log.Warn("failed to remove orphaned object", slog.String("key", key), logger.Error(err))
	}
}

func allowedType(ct string) bool {
	for _, prefix := range allowedTypes {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}
