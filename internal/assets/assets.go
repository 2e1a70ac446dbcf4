package assets

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Resolver builds public URLs for stored media references.
type Resolver struct {
	baseURL string
}

func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: strings.TrimRight(baseURL, "/")}
}

// AssetURL returns the public endpoint for a media reference, carrying
// the access token through when one is present.
func (r *Resolver) AssetURL(mediaID, token string) string {
	if mediaID == "" {
		return ""
	}
	u := r.baseURL + "/assets/" + url.PathEscape(mediaID)
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

// ErrInvalidMediaID rejects media references that would escape the
// storage directory.
var ErrInvalidMediaID = errors.New("invalid media id")

// Store is a directory-backed blob store for media renditions.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(mediaID string) (string, error) {
	if mediaID == "" || strings.ContainsAny(mediaID, `/\`) || strings.Contains(mediaID, "..") {
		return "", ErrInvalidMediaID
	}
	return filepath.Join(s.dir, mediaID), nil
}

// Open returns the blob and its guessed content type. A missing blob
// returns os.ErrNotExist.
func (s *Store) Open(mediaID string) (io.ReadSeekCloser, string, error) {
	path, err := s.path(mediaID)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(mediaID))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

// Save writes a blob under the media id.
func (s *Store) Save(mediaID string, r io.Reader) error {
	path, err := s.path(mediaID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create assets dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write asset: %w", err)
	}
	return nil
}
