package http

import (
	"context"
	"io"

	"github.com/GioMjds/Printify-Mobile/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	// GetByEmail resolves an account via the `email-index` GSI; emails are
	// stored normalized so lookups must pass normalized input.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

// UploadRepository is the minimal interface the router requires from an upload store.
type UploadRepository interface {
	Put(ctx context.Context, u *domain.Upload) error
	Get(ctx context.Context, uploadID string) (*domain.Upload, error)
	// ListByCustomer queries the `customer_id-index` GSI, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Upload, error)
	Update(ctx context.Context, uploadID string, updates map[string]interface{}) error
	Delete(ctx context.Context, uploadID string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
