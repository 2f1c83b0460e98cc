package upload

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
	"github.com/GioMjds/Printify-Mobile/internal/pkg/id"
)

// Accepted document MIME types mapped to their stored format label.
var formatByMIME = map[string]string{
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/vnd.ms-excel": "xls",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": "xlsx",
}

type Service interface {
	Create(ctx context.Context, customerID, filename, contentType string, r io.Reader) (*domain.Upload, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Upload, error)
	Get(ctx context.Context, customerID, uploadID string) (*domain.Upload, error)
}

type uploadStore interface {
	Put(ctx context.Context, u *domain.Upload) error
	Get(ctx context.Context, uploadID string) (*domain.Upload, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Upload, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo    uploadStore
	objects objectStore
}

func NewService(repo uploadStore, objects objectStore) Service {
	return &service{repo: repo, objects: objects}
}

func (s *service) Create(ctx context.Context, customerID, filename, contentType string, r io.Reader) (*domain.Upload, error) {
	format, ok := formatByMIME[contentType]
	if !ok {
		return nil, fmt.Errorf("only pdf, doc, docx, xls and xlsx files are accepted: %w", domain.ErrBadRequest)
	}

	key := fmt.Sprintf("uploads/%s/%s_%s", customerID, id.New(), filename)
	if _, err := s.objects.Upload(ctx, key, r, contentType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.Upload{
		UploadID:   id.New(),
		CustomerID: customerID,
		Filename:   filename,
		Object:     key,
		Format:     format,
		Status:     domain.UploadStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		// Don't leave an orphan object behind a failed record write.
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			slog.Warn("failed to clean up orphaned object", "key", key, "error", delErr)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]domain.Upload, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) Get(ctx context.Context, customerID, uploadID string) (*domain.Upload, error) {
	u, err := s.repo.Get(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	if u.CustomerID != customerID {
		return nil, fmt.Errorf("upload not found: %w", domain.ErrNotFound)
	}
	return u, nil
}
