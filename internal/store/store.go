// Package store defines the storage contract the services depend on, with
// an in-memory implementation for development and tests and a SQLite/GORM
// implementation for a real deployment.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/amrsamirtawfik/MicroPostingPlatform/internal/models"
)

var (
	// ErrNotFound is returned when no matching non-deleted record exists.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a non-deleted record already
	// holds the normalized email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserPatch is a partial update of a user record. Nil pointer fields are
// left untouched; LockedUntil and DeletedAt can be set to nil explicitly
// via their Set flags.
type UserPatch struct {
	DisplayName      *string
	PasswordHash     *string
	Status           *models.UserStatus
	FailedLoginCount *int

	SetLockedUntil bool
	LockedUntil    *time.Time

	SetDeletedAt bool
	DeletedAt    *time.Time
}

// PostFilter selects posts. Soft-deleted posts are always excluded.
type PostFilter struct {
	AuthorID string // empty means all authors
	Order    string // "ASC" or "DESC" by creation time, default DESC
	Limit    int    // <= 0 means no limit
	Offset   int
}

// Store is the single authority for user and post records. The credential
// verifier and the cached read path depend only on this contract.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindAllUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*models.User, error)

	FindPosts(ctx context.Context, f PostFilter) ([]models.Post, error)
	FindPostByID(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	SoftDeletePost(ctx context.Context, id string, when time.Time) error

	// InTransaction runs fn with all-or-nothing semantics: if fn returns
	// an error, every write made through tx is rolled back and the error
	// is returned unchanged. It does not isolate concurrent readers from
	// in-progress state.
	InTransaction(ctx context.Context, fn func(tx Store) error) error
}
