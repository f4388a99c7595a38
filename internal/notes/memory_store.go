package notes

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore backs tests and local development.
type MemoryStore struct {
	mu   sync.Mutex
	byID map[string]*Note
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: map[string]*Note{}}
}

func (s *MemoryStore) Insert(_ context.Context, n *Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = newNoteID()
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	clone := *n
	s.byID[n.ID] = &clone
	return nil
}

func (s *MemoryStore) FindByUser(_ context.Context, userID string, skip, limit int64) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Same wire shape as the Mongo store: no notes is [], not null.
	all := []Note{}
	for _, n := range s.byID {
		if n.UserID == userID {
			all = append(all, *n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })
	if skip >= int64(len(all)) {
		return []Note{}, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id, userID string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, ErrNoteNotFound
	}
	clone := *n
	return &clone, nil
}

func (s *MemoryStore) SearchByTitle(_ context.Context, userID, title string) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Note{}
	q := strings.ToLower(title)
	for _, n := range s.byID {
		if n.UserID == userID && strings.Contains(strings.ToLower(n.Title), q) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *MemoryStore) Update(_ context.Context, id, userID, title, details string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, ErrNoteNotFound
	}
	n.Title = title
	n.Details = details
	n.UpdatedAt = time.Now()
	clone := *n
	return &clone, nil
}

func (s *MemoryStore) Delete(_ context.Context, id, userID string) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok || n.UserID != userID {
		return nil, ErrNoteNotFound
	}
	delete(s.byID, id)
	clone := *n
	return &clone, nil
}

func (s *MemoryStore) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for id, n := range s.byID {
		if n.UserID == userID {
			delete(s.byID, id)
			count++
		}
	}
	return count, nil
}

func newNoteID() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
