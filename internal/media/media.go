package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

const DefaultContentType = "application/octet-stream"

var ErrEmptyImage = errors.New("image has no content")

// Image is an uploaded file awaiting storage.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ImageStore stores an image and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, image Image) (string, error)
}

// ObjectPath builds <prefix>/<unix-ms>-<filename>. Directory components of the
// filename are dropped.
func ObjectPath(prefix, filename string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	object := fmt.Sprintf("%d-%s", now.UnixMilli(), name)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return object
	}
	return prefix + "/" + object
}

func contentType(image Image) string {
	if image.ContentType == "" {
		return DefaultContentType
	}
	return image.ContentType
}
