package editor

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"atelier/internal/logging"
	"atelier/internal/services"

	"github.com/google/uuid"
)

// Uploader is the slice of the upload gateway the batch coordinator needs.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*services.UploadResult, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}

// BatchItem is one file submitted for upload.
type BatchItem struct {
	Filename string
	Data     []byte
}

// TaskResult reports one upload task's outcome. ID is generated per task so
// callers can correlate results without relying on filenames being unique.
type TaskResult struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Key      string `json:"key,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchResult is the settled state of a whole batch. Succeeded is in
// completion order, which is the order insertions are applied in. That
// order is not guaranteed to match submission order.
type BatchResult struct {
	Succeeded []TaskResult `json:"succeeded"`
	Failed    []TaskResult `json:"failed"`
}

// UploadBatch runs every item's upload concurrently and blocks until all of
// them settle. Each task succeeds or fails on its own; one failure never
// aborts the rest.
func UploadBatch(ctx context.Context, uploader Uploader, items []BatchItem) *BatchResult {
	batchLog := logging.WithBatch(slog.Default(), uuid.New().String(), len(items))
	batchLog.Info("upload batch started")

	done := make(chan TaskResult, len(items))
	for _, item := range items {
		go func(item BatchItem) {
			task := TaskResult{ID: uuid.New().String(), Filename: item.Filename}
			stored, err := uploader.Upload(ctx, item.Filename, item.Data)
			if err != nil {
				task.Error = err.Error()
			} else {
				task.URL = stored.URL
				task.Key = stored.Key
			}
			done <- task
		}(item)
	}

	result := &BatchResult{}
	for range items {
		task := <-done
		if task.Error != "" {
			batchLog.Warn("upload task failed", "filename", task.Filename, "error", task.Error)
			result.Failed = append(result.Failed, task)
		} else {
			result.Succeeded = append(result.Succeeded, task)
		}
	}

	batchLog.Info("upload batch settled",
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))
	return result
}

// InsertImages applies every successful upload to the document HTML as one
// edit, in the batch's completion order.
func InsertImages(content string, succeeded []TaskResult) string {
	if len(succeeded) == 0 {
		return content
	}
	var b strings.Builder
	b.WriteString(content)
	for _, task := range succeeded {
		b.WriteString(`<img src="` + task.URL + `" alt="` + escapeAttr(task.Filename) + `">`)
	}
	return b.String()
}

// RemoveImage drops the img tag for url from the document HTML and asks the
// gateway to delete the stored file. The document edit always applies;
// gateway failure is logged and swallowed since a dangling blob is less
// harmful than losing the author's edit.
func RemoveImage(ctx context.Context, uploader Uploader, content, url string) string {
	edited := stripImageTag(content, url)

	if err := uploader.DeleteByURL(ctx, url); err != nil {
		slog.Warn("stored image deletion failed after document edit", "url", url, "error", err)
	}
	return edited
}

func stripImageTag(content, url string) string {
	pattern := regexp.MustCompile(`<img[^>]+src=["']` + regexp.QuoteMeta(url) + `["'][^>]*>`)
	return pattern.ReplaceAllString(content, "")
}

func escapeAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
