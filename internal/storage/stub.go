package storage

import (
	"context"
	"io"
	"strings"
	"sync"

	"tradehub-be/internal/apperr"
)

// Stub keeps uploads in memory. Used in development when no bucket is
// configured, and in tests.
type Stub struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

func NewStub() *Stub {
	return &Stub{BaseURL: "https://storage.example.com", objects: make(map[string][]byte)}
}

func (s *Stub) Upload(_ context.Context, folder, filename, _ string, body io.Reader) (Object, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxUploadSize+1))
	if err != nil {
		return Object{}, apperr.Infrastructure("read upload", err)
	}
	if len(data) == 0 {
		return Object{}, apperr.Validation("file", "file is empty")
	}
	if len(data) > MaxUploadSize {
		return Object{}, apperr.Validation("file", "file exceeds %d bytes", MaxUploadSize)
	}

	key := objectKey(folder, filename)
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return Object{URL: strings.TrimRight(s.BaseURL, "/") + "/" + key, PublicID: key}, nil
}

func (s *Stub) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[publicID]; !ok {
		return apperr.NotFound("object")
	}
	delete(s.objects, publicID)
	return nil
}

// Has reports whether publicID is stored.
func (s *Stub) Has(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[publicID]
	return ok
}

func (s *Stub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
