package notes

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/auth"
	"github.com/DibasDebnath/SimpleNotesBackend/internal/crypto"
)

const (
	TitleMaxLen   = 20
	DetailsMaxLen = 1000

	DefaultPage  = 1
	DefaultLimit = 5
)

var ErrWrongPassword = errors.New("wrong password")

// Service implements the note operations: per-request key resolution,
// field encryption around the store, and owner scoping. The caller's user
// profile is passed in because it carries the optional per-user key.
type Service struct {
	store Store
	keys  *KeyResolver
}

func NewService(store Store, keys *KeyResolver) *Service {
	return &Service{store: store, keys: keys}
}

// List returns the caller's notes, most recently updated first, with title
// and details decrypted. Decryption failures degrade to the stored value
// and never abort the listing.
func (s *Service) List(ctx context.Context, user *auth.User, page, limit int64) ([]Note, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	skip := (page - 1) * limit

	out, err := s.store.FindByUser(ctx, user.ID, skip, limit)
	if err != nil {
		return nil, err
	}
	key := s.keys.Resolve(user)
	for i := range out {
		out[i].Title = crypto.DecryptField(out[i].Title, key)
		out[i].Details = crypto.DecryptField(out[i].Details, key)
	}
	return out, nil
}

// Create validates the plaintext, encrypts both fields under the caller's
// key, persists the note, and echoes back the submitted plaintext with the
// store-assigned id and timestamps.
func (s *Service) Create(ctx context.Context, user *auth.User, title, details string) (*Note, error) {
	if err := validateFields(title, details); err != nil {
		return nil, err
	}

	key := s.keys.Resolve(user)
	encTitle, err := crypto.EncryptField(title, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt title: %w", err)
	}
	encDetails, err := crypto.EncryptField(details, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt details: %w", err)
	}

	n := &Note{UserID: user.ID, Title: encTitle, Details: encDetails}
	if err := s.store.Insert(ctx, n); err != nil {
		return nil, err
	}

	echo := *n
	echo.Title = title
	echo.Details = details
	return &echo, nil
}

// Get returns a single owned note as stored, without decrypting. Notes
// created after encryption was introduced come back as ciphertext here;
// that matches the deployed behavior of the single-fetch path.
func (s *Service) Get(ctx context.Context, user *auth.User, id string) (*Note, error) {
	return s.store.FindByID(ctx, id, user.ID)
}

// SearchByTitle matches the stored title with a case-insensitive substring
// search. Like Get, it returns notes as stored without decrypting.
func (s *Service) SearchByTitle(ctx context.Context, user *auth.User, title string) ([]Note, error) {
	return s.store.SearchByTitle(ctx, user.ID, title)
}

// Update re-validates and re-encrypts both fields, writes them if the note
// belongs to the caller, and echoes the submitted plaintext back.
func (s *Service) Update(ctx context.Context, user *auth.User, id, title, details string) (*Note, error) {
	if err := validateFields(title, details); err != nil {
		return nil, err
	}

	key := s.keys.Resolve(user)
	encTitle, err := crypto.EncryptField(title, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt title: %w", err)
	}
	encDetails, err := crypto.EncryptField(details, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt details: %w", err)
	}

	n, err := s.store.Update(ctx, id, user.ID, encTitle, encDetails)
	if err != nil {
		return nil, err
	}

	echo := *n
	echo.Title = title
	echo.Details = details
	return &echo, nil
}

// Delete removes a single owned note and returns it as stored.
func (s *Service) Delete(ctx context.Context, user *auth.User, id string) (*Note, error) {
	return s.store.Delete(ctx, id, user.ID)
}

// DeleteAll removes every note owned by the caller after re-authenticating
// the submitted password against the stored hash. Zero deletions is still
// success.
func (s *Service) DeleteAll(ctx context.Context, user *auth.User, password string) (int64, error) {
	if !auth.VerifyPassword(password, user.PassHash) {
		return 0, ErrWrongPassword
	}
	return s.store.DeleteAllForUser(ctx, user.ID)
}

func validateFields(title, details string) error {
	var empty []string
	if title == "" {
		empty = append(empty, "title")
	}
	if details == "" {
		empty = append(empty, "details")
	}
	if len(empty) > 0 {
		return &ValidationError{Message: "Please fill in all fields", EmptyFields: empty}
	}
	// Bounds count characters, not bytes, so multibyte titles are not
	// penalized for their encoding.
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return &ValidationError{Message: fmt.Sprintf("Title cannot be more than %d characters", TitleMaxLen)}
	}
	if utf8.RuneCountInString(details) > DetailsMaxLen {
		return &ValidationError{Message: fmt.Sprintf("Details cannot be more than %d characters", DetailsMaxLen)}
	}
	return nil
}
