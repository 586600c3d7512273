package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"atelier/internal/models"

	"github.com/google/uuid"
)

// providerTimeout bounds a single storage write. The transport default is
// not enough signal for the editor UI, so timeouts surface as their own
// error.
const providerTimeout = 30 * time.Second

// UploadResult is what the editor needs to reference a stored image: a
// dereferenceable URL and the provider key for later deletion.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadService is the upload gateway: it accepts image payloads, persists
// them under the upload directory, and hands back stable URLs.
type UploadService struct {
	uploadDir    string
	baseURL      string
	trustedHosts map[string]bool
	maxSize      int64
}

// NewUploadService creates the gateway. baseURL is the public prefix stored
// files are served under; its host is implicitly trusted for deletion.
func NewUploadService(uploadDir, baseURL string, trustedHosts []string, maxSize int64) *UploadService {
	if err := os.MkdirAll(uploadDir, 0700); err != nil {
		log.Printf("⚠️  Warning: Could not create upload directory: %v", err)
	}

	trusted := make(map[string]bool, len(trustedHosts)+1)
	for _, h := range trustedHosts {
		trusted[strings.ToLower(h)] = true
	}
	if u, err := url.Parse(baseURL); err == nil && u.Hostname() != "" {
		trusted[strings.ToLower(u.Hostname())] = true
	}

	return &UploadService{
		uploadDir:    uploadDir,
		baseURL:      strings.TrimRight(baseURL, "/"),
		trustedHosts: trusted,
		maxSize:      maxSize,
	}
}

// Upload validates and persists one image payload. Validation failures are
// returned before any provider call is made.
func (s *UploadService) Upload(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	mimeType := detectImageType(data, filename)
	if !strings.HasPrefix(mimeType, "image/") {
		s.countUpload("rejected")
		return nil, models.ErrInvalidFileType
	}

	if int64(len(data)) > s.maxSize {
		s.countUpload("rejected")
		return nil, models.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = extensionForMime(mimeType)
	}
	key := uuid.New().String() + ext
	path := filepath.Join(s.uploadDir, key)

	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	if err := writeFileCtx(ctx, path, data); err != nil {
		s.countUpload("failed")
		if ctx.Err() != nil {
			return nil, models.ErrUploadTimeout
		}
		return nil, &models.ProviderError{Op: "upload", Err: err}
	}

	s.countUpload("accepted")
	log.Printf("✅ [UPLOAD] Stored image %s (%d bytes)", key, len(data))

	return &UploadResult{
		URL: s.baseURL + "/" + key,
		Key: key,
	}, nil
}

// DeleteByURL removes the stored file a trusted-host URL points at.
// Deleting a key that no longer exists is success; deleting a URL on an
// untrusted host is refused.
func (s *UploadService) DeleteByURL(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		s.countDelete("rejected")
		return err
	}

	path := filepath.Join(s.uploadDir, key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.countDelete("failed")
		return &models.ProviderError{Op: "delete", Err: err}
	}

	s.countDelete("deleted")
	log.Printf("🗑️  [UPLOAD] Deleted %s", key)
	return nil
}

// keyFromURL validates the URL belongs to a trusted upload host and returns
// the provider key. The path base is cleaned so a crafted URL cannot escape
// the upload directory.
func (s *UploadService) keyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", models.ErrInvalidHost
	}
	if !s.trustedHosts[strings.ToLower(u.Hostname())] {
		return "", models.ErrInvalidHost
	}

	key := filepath.Base(u.Path)
	if key == "." || key == "/" || key == "" {
		return "", models.ErrInvalidHost
	}
	return key, nil
}

var imgSrcPattern = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

// ExtractReferencedURLs scans an HTML blob for <img> sources on trusted
// upload hosts. Pure; used by the delete cascade and the orphan sweeper.
func (s *UploadService) ExtractReferencedURLs(html string) []string {
	var out []string
	for _, m := range imgSrcPattern.FindAllStringSubmatch(html, -1) {
		src := m[1]
		u, err := url.Parse(src)
		if err != nil || u.Hostname() == "" {
			continue
		}
		if s.trustedHosts[strings.ToLower(u.Hostname())] {
			out = append(out, src)
		}
	}
	return out
}

// ListStoredKeys enumerates provider keys currently on disk, with their
// modification time. Used by the orphan sweeper.
func (s *UploadService) ListStoredKeys() (map[string]time.Time, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}

	keys := make(map[string]time.Time, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		keys[e.Name()] = info.ModTime()
	}
	return keys, nil
}

// KeyFromURL exposes trusted-host key resolution for the sweeper.
func (s *UploadService) KeyFromURL(rawURL string) (string, error) {
	return s.keyFromURL(rawURL)
}

// DeleteKey removes a stored file by provider key. Idempotent.
func (s *UploadService) DeleteKey(key string) error {
	path := filepath.Join(s.uploadDir, filepath.Base(key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &models.ProviderError{Op: "delete", Err: err}
	}
	return nil
}

func (s *UploadService) countUpload(outcome string) {
	if m := GetMetrics(); m != nil {
		m.Uploads.WithLabelValues(outcome).Inc()
	}
}

func (s *UploadService) countDelete(outcome string) {
	if m := GetMetrics(); m != nil {
		m.UploadDeletes.WithLabelValues(outcome).Inc()
	}
}

// writeFileCtx writes the file in a goroutine so a stalled provider (e.g. a
// network mount) cannot hold the request past the deadline.
func writeFileCtx(ctx context.Context, path string, data []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- os.WriteFile(path, data, 0600)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// detectImageType sniffs content, falling back to the filename extension
// when detection is inconclusive.
func detectImageType(data []byte, filename string) string {
	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	mimeType := http.DetectContentType(sniff)

	if mimeType == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			return "image/jpeg"
		case ".png":
			return "image/png"
		case ".gif":
			return "image/gif"
		case ".webp":
			return "image/webp"
		}
	}

	return mimeType
}

func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
