// Package jobs holds the background maintenance work that runs alongside
// the HTTP server.
package jobs

import (
	"context"
	"log"
	"time"

	"atelier/internal/models"

	"github.com/go-co-op/gocron/v2"
)

// ProjectLister and PostLister are the read slices of the stores the
// sweeper scans for image references.
type ProjectLister interface {
	List(ctx context.Context) ([]*models.Project, error)
}

type PostLister interface {
	List(ctx context.Context, includeUnpublished bool) ([]*models.Post, error)
}

// UploadStore is the slice of the upload gateway the sweeper needs.
type UploadStore interface {
	ListStoredKeys() (map[string]time.Time, error)
	ExtractReferencedURLs(html string) []string
	KeyFromURL(rawURL string) (string, error)
	DeleteKey(key string) error
}

// OrphanSweeper deletes stored images no document references anymore.
// Files younger than the grace period are kept because they may belong to
// an upload batch whose document save has not happened yet.
type OrphanSweeper struct {
	projects ProjectLister
	posts    PostLister
	uploads  UploadStore
	grace    time.Duration
}

func NewOrphanSweeper(projects ProjectLister, posts PostLister, uploads UploadStore, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		projects: projects,
		posts:    posts,
		uploads:  uploads,
		grace:    grace,
	}
}

// Run performs one sweep: collect every referenced key across both
// collections, then delete unreferenced files past the grace period.
func (j *OrphanSweeper) Run(ctx context.Context) error {
	log.Println("[SWEEP] Starting orphan upload sweep...")
	startTime := time.Now()

	referenced, err := j.referencedKeys(ctx)
	if err != nil {
		log.Printf("[SWEEP] Failed to collect references: %v", err)
		return err
	}

	stored, err := j.uploads.ListStoredKeys()
	if err != nil {
		log.Printf("[SWEEP] Failed to list stored files: %v", err)
		return err
	}

	deleted := 0
	for key, modTime := range stored {
		if referenced[key] {
			continue
		}
		if time.Since(modTime) < j.grace {
			continue
		}
		if err := j.uploads.DeleteKey(key); err != nil {
			log.Printf("[SWEEP] Failed to delete orphan %s: %v", key, err)
			continue
		}
		deleted++
	}

	log.Printf("[SWEEP] Sweep complete: %d stored, %d referenced, %d deleted in %v",
		len(stored), len(referenced), deleted, time.Since(startTime))
	return nil
}

// referencedKeys gathers the provider keys referenced by any document's
// content or image sections.
func (j *OrphanSweeper) referencedKeys(ctx context.Context) (map[string]bool, error) {
	referenced := make(map[string]bool)

	addContent := func(content string, sections []models.Section) {
		for _, u := range j.uploads.ExtractReferencedURLs(content) {
			if key, err := j.uploads.KeyFromURL(u); err == nil {
				referenced[key] = true
			}
		}
		for _, s := range sections {
			if s.Type != models.SectionImage {
				continue
			}
			if key, err := j.uploads.KeyFromURL(s.Content); err == nil {
				referenced[key] = true
			}
		}
	}

	projects, err := j.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		addContent(p.Content, p.Sections)
	}

	posts, err := j.posts.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		addContent(p.Content, p.Sections)
	}

	return referenced, nil
}

// Schedule registers the sweeper on a new scheduler running every interval.
// The returned scheduler is already started; shut it down on exit.
func (j *OrphanSweeper) Schedule(interval time.Duration) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := j.Run(ctx); err != nil {
				log.Printf("[SWEEP] Sweep run failed: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Printf("⏰ [SWEEP] Orphan sweep scheduled every %v", interval)
	return scheduler, nil
}
