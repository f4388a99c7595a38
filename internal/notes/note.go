package notes

import (
	"context"
	"errors"
	"time"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is a single user-owned note. Title and Details hold whatever the
// store holds: ciphertext in the "<ivHex>:<cipherHex>" encoding for notes
// written after encryption was introduced, raw text for older ones.
type Note struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists notes. Every read and mutation is scoped to the owning
// user; an id that exists but belongs to someone else behaves exactly like
// an id that does not exist.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	FindByUser(ctx context.Context, userID string, skip, limit int64) ([]Note, error)
	FindByID(ctx context.Context, id, userID string) (*Note, error)
	SearchByTitle(ctx context.Context, userID, title string) ([]Note, error)
	Update(ctx context.Context, id, userID, title, details string) (*Note, error)
	Delete(ctx context.Context, id, userID string) (*Note, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// ValidationError enumerates the offending request fields.
type ValidationError struct {
	Message     string
	EmptyFields []string
}

func (e *ValidationError) Error() string { return e.Message }
