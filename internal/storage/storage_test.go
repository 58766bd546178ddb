package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"tradehub-be/internal/apperr"
	"tradehub-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("/products/", "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	assert.NotContains(t, objectKey("", "x.png"), "/")
}

func TestStub(t *testing.T) {
	ctx := context.Background()
	s := NewStub()

	obj, err := s.Upload(ctx, "products", "a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.URL, "https://storage.example.com/products/"))
	assert.True(t, s.Has(obj.PublicID))

	require.NoError(t, s.Delete(ctx, obj.PublicID))
	assert.False(t, s.Has(obj.PublicID))
	assert.ErrorIs(t, s.Delete(ctx, obj.PublicID), apperr.ErrNotFound)

	_, err = s.Upload(ctx, "products", "empty.png", "image/png", strings.NewReader(""))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNewS3_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3(ctx, config.StorageConfig{AccessKey: "k", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket is required")

	_, err = NewS3(ctx, config.StorageConfig{Bucket: "b"})
	assert.ErrorContains(t, err, "credentials are required")
}

// fakeS3 records path-style object requests.
type fakeS3 struct {
	mu       sync.Mutex
	puts     map[string]string
	deletes  []string
	failPuts bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		if f.failPuts {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.puts[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		f.deletes = append(f.deletes, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T, fake *fakeS3) *S3 {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3(context.Background(), config.StorageConfig{
		Endpoint:     srv.URL,
		Region:       "us-east-1",
		Bucket:       "media",
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	return s
}

func TestS3_UploadAndDelete(t *testing.T) {
	t.Setenv("AWS_MAX_ATTEMPTS", "1")
	ctx := context.Background()
	fake := &fakeS3{puts: map[string]string{}}
	s := newTestS3(t, fake)

	obj, err := s.Upload(ctx, "products", "coffee.jpg", "image/jpeg", strings.NewReader("jpeg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(obj.PublicID, "products/"))
	assert.True(t, strings.HasSuffix(obj.URL, "/media/"+obj.PublicID))
	assert.Contains(t, fake.puts, "/media/"+obj.PublicID)

	require.NoError(t, s.Delete(ctx, obj.PublicID))
	assert.Equal(t, []string{"/media/" + obj.PublicID}, fake.deletes)
}

func TestS3_UploadFailure(t *testing.T) {
	t.Setenv("AWS_MAX_ATTEMPTS", "1")
	fake := &fakeS3{puts: map[string]string{}, failPuts: true}
	s := newTestS3(t, fake)

	_, err := s.Upload(context.Background(), "products", "x.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrInfrastructure)
}

func TestS3_RejectsEmptyAndOversized(t *testing.T) {
	s := newTestS3(t, &fakeS3{puts: map[string]string{}})

	_, err := s.Upload(context.Background(), "products", "x.jpg", "image/jpeg", strings.NewReader(""))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	big := strings.NewReader(strings.Repeat("a", MaxUploadSize+1))
	_, err = s.Upload(context.Background(), "products", "x.jpg", "image/jpeg", big)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.ErrorIs(t, s.Delete(context.Background(), ""), apperr.ErrValidation)
}
