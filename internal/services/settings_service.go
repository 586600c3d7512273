package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// SiteSettings is the operator-editable site configuration loaded from
// site.yaml. Fields feed the public page templates.
type SiteSettings struct {
	Title       string   `yaml:"title"`
	Tagline     string   `yaml:"tagline"`
	Author      string   `yaml:"author"`
	Description string   `yaml:"description"`
	SocialLinks []Social `yaml:"social_links"`
	FooterText  string   `yaml:"footer_text"`

	// Network page content.
	Philosophy   string   `yaml:"philosophy"`
	Focus        []string `yaml:"focus"`
	ContactEmail string   `yaml:"contact_email"`
}

type Social struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
	Icon  string `yaml:"icon"`
}

// SettingsService holds the current site settings and hot-reloads them when
// the backing file changes.
type SettingsService struct {
	path string

	mu       sync.RWMutex
	settings SiteSettings
}

func defaultSettings() SiteSettings {
	return SiteSettings{
		Title:       "Portfolio",
		Tagline:     "Projects and writing",
		Author:      "Author",
		Description: "A portfolio and journal",
		FooterText:  "",
	}
}

// NewSettingsService loads settings from path. A missing file is not an
// error; defaults apply until the file appears.
func NewSettingsService(path string) *SettingsService {
	s := &SettingsService{
		path:     path,
		settings: defaultSettings(),
	}

	if err := s.reload(); err != nil {
		if os.IsNotExist(err) {
			log.Printf("ℹ️  No settings file at %s, using defaults", path)
		} else {
			log.Printf("⚠️  Failed to load settings from %s: %v", path, err)
		}
	}

	return s
}

// Get returns a copy of the current settings.
func (s *SettingsService) Get() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsService) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	loaded := defaultSettings()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	s.mu.Lock()
	s.settings = loaded
	s.mu.Unlock()
	return nil
}

// Watch blocks watching the settings file's directory and re-loads on
// change. Run it in a goroutine. A bad edit keeps the last good settings.
func (s *SettingsService) Watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("⚠️  Failed to create settings watcher: %v", err)
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(s.path)
	if err != nil {
		log.Printf("⚠️  Failed to resolve settings path %s: %v", s.path, err)
		return
	}

	dir := filepath.Dir(absPath)
	filename := filepath.Base(absPath)

	if err := watcher.Add(dir); err != nil {
		log.Printf("⚠️  Failed to watch directory %s: %v", dir, err)
		return
	}

	log.Printf("👁️  Watching %s for changes (hot-reload enabled)", s.path)

	// Debounce rapid successive writes from editors that save in chunks.
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}

				debounceTimer = time.AfterFunc(debounceDuration, func() {
					log.Printf("🔄 Detected changes in %s, reloading settings...", s.path)
					if err := s.reload(); err != nil {
						log.Printf("❌ Failed to reload settings, keeping previous: %v", err)
					} else {
						log.Printf("✅ Settings reloaded from %s", s.path)
					}
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("⚠️  Settings watcher error: %v", err)
		}
	}
}
