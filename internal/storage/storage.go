// Package storage is the object storage collaborator for product and blog
// media. The domain only keeps the returned URL and public id.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const MaxUploadSize = 10 << 20

// Object identifies an uploaded file. PublicID is the handle used to delete it.
type Object struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader) (Object, error)
	Delete(ctx context.Context, publicID string) error
}

// objectKey places a file under folder with a random name, keeping the
// original extension.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return uuid.New().String() + ext
	}
	return folder + "/" + uuid.New().String() + ext
}
