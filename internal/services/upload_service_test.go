package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atelier/internal/models"
)

// pngHeader is enough of a real PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newTestUploadService(t *testing.T) *UploadService {
	t.Helper()
	dir := t.TempDir()
	return NewUploadService(dir, "http://localhost:3001/uploads", []string{"localhost"}, 4*1024*1024)
}

func TestUploadRejectsNonImage(t *testing.T) {
	svc := newTestUploadService(t)

	_, err := svc.Upload(context.Background(), "notes.txt", []byte("plain text payload"))
	if !errors.Is(err, models.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}

	// Nothing was written.
	entries, _ := os.ReadDir(svc.uploadDir)
	if len(entries) != 0 {
		t.Errorf("expected no stored files after rejected upload, found %d", len(entries))
	}
}

func TestUploadRejectsOversized(t *testing.T) {
	svc := newTestUploadService(t)

	big := make([]byte, 5_000_000)
	copy(big, pngHeader)

	_, err := svc.Upload(context.Background(), "huge.png", big)
	if !errors.Is(err, models.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(svc.uploadDir)
	if len(entries) != 0 {
		t.Errorf("expected no stored files after rejected upload, found %d", len(entries))
	}
}

func TestUploadStoresImage(t *testing.T) {
	svc := newTestUploadService(t)

	result, err := svc.Upload(context.Background(), "cover.png", pngHeader)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if result.Key == "" {
		t.Fatal("expected a non-empty provider key")
	}
	if !strings.HasPrefix(result.URL, "http://localhost:3001/uploads/") {
		t.Errorf("unexpected URL %q", result.URL)
	}
	if !strings.HasSuffix(result.Key, ".png") {
		t.Errorf("expected key with .png extension, got %q", result.Key)
	}

	stored := filepath.Join(svc.uploadDir, result.Key)
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestDeleteByURL(t *testing.T) {
	svc := newTestUploadService(t)

	result, err := svc.Upload(context.Background(), "cover.png", pngHeader)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.DeleteByURL(context.Background(), result.URL); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(svc.uploadDir, result.Key)); !os.IsNotExist(err) {
		t.Error("expected stored file to be removed")
	}

	// Deleting again is success, not an error.
	if err := svc.DeleteByURL(context.Background(), result.URL); err != nil {
		t.Errorf("second delete should be idempotent, got %v", err)
	}
}

func TestDeleteByURLUntrustedHost(t *testing.T) {
	svc := newTestUploadService(t)

	err := svc.DeleteByURL(context.Background(), "http://evil.example.com/uploads/some-key.png")
	if !errors.Is(err, models.ErrInvalidHost) {
		t.Fatalf("expected ErrInvalidHost, got %v", err)
	}

	if err := svc.DeleteByURL(context.Background(), "not a url"); !errors.Is(err, models.ErrInvalidHost) {
		t.Fatalf("expected ErrInvalidHost for malformed URL, got %v", err)
	}
}

func TestExtractReferencedURLs(t *testing.T) {
	svc := newTestUploadService(t)

	content := `<p>intro</p>
<img src="http://localhost:3001/uploads/a.png" alt="first">
<img src='http://localhost:3001/uploads/b.jpg'>
<img src="https://cdn.example.com/external.png">
<img src="relative/path.png">`

	urls := svc.ExtractReferencedURLs(content)
	want := []string{
		"http://localhost:3001/uploads/a.png",
		"http://localhost:3001/uploads/b.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d URLs, got %d: %v", len(want), len(urls), urls)
	}
	for i, u := range want {
		if urls[i] != u {
			t.Errorf("url[%d] = %q, want %q", i, urls[i], u)
		}
	}
}

func TestExtractReferencedURLsEmpty(t *testing.T) {
	svc := newTestUploadService(t)

	if urls := svc.ExtractReferencedURLs("<p>no images here</p>"); len(urls) != 0 {
		t.Errorf("expected no URLs, got %v", urls)
	}
}

func TestListStoredKeys(t *testing.T) {
	svc := newTestUploadService(t)

	r1, err := svc.Upload(context.Background(), "a.png", pngHeader)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	r2, err := svc.Upload(context.Background(), "b.png", pngHeader)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	keys, err := svc.ListStoredKeys()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	for _, k := range []string{r1.Key, r2.Key} {
		if _, ok := keys[k]; !ok {
			t.Errorf("expected key %q in listing", k)
		}
	}
}
