package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const maxNameAttempts = 10

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,10}$`)

// MediaService stores uploaded images and removes them by URL
type MediaService struct {
	storage Storage
	now     func() time.Time
}

// NewMediaService creates a new media service
func NewMediaService(storage Storage) *MediaService {
	return &MediaService{
		storage: storage,
		now:     time.Now,
	}
}

// UploadImage stores an image under "<unix millis><original extension>" and
// returns its public URL
func (s *MediaService) UploadImage(ctx context.Context, body io.ReadSeeker, contentType, originalFilename string) (string, error) {
	if body == nil {
		return "", validationError("No image uploaded")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return "", validationError("Only images are allowed")
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	if !extPattern.MatchString(ext) {
		ext = ""
	}

	stamp := s.now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		if i > 0 {
			// a failed attempt may have consumed part of the body
			if _, err := body.Seek(0, io.SeekStart); err != nil {
				return "", fmt.Errorf("failed to rewind image: %w", err)
			}
		}
		name := fmt.Sprintf("%d%s", stamp+int64(i), ext)
		err := s.storage.Save(ctx, name, contentType, body)
		if errors.Is(err, ErrObjectExists) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to store image: %w", err)
		}
		return s.storage.URL(name), nil
	}
	return "", fmt.Errorf("failed to pick a free file name after %d attempts", maxNameAttempts)
}

// DeleteImage removes the image referenced by imageURL. It reports false when
// no such image is stored.
func (s *MediaService) DeleteImage(ctx context.Context, imageURL string) (bool, error) {
	if strings.TrimSpace(imageURL) == "" {
		return false, validationError("imageUrl parameter is required")
	}

	name := imageName(imageURL)
	if name == "" {
		return false, nil
	}
	return s.storage.Delete(ctx, name)
}

// imageName extracts the last path segment of an image URL
func imageName(imageURL string) string {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
