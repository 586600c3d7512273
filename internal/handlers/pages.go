package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"html/template"
	"log"
	"strings"

	"atelier/internal/models"
	"atelier/internal/render"
	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PageHandler serves the public read surfaces. Unpublished or missing
// content never leaks an error detail; it renders the standard not-found
// page.
type PageHandler struct {
	projects  ProjectStore
	posts     PostStore
	settings  *services.SettingsService
	renders   *render.Cache
	templates *template.Template
}

func NewPageHandler(projects ProjectStore, posts PostStore, settings *services.SettingsService, renders *render.Cache, templateGlob string) (*PageHandler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"icon": render.IconGlyph,
		"safe": func(s string) template.HTML { return template.HTML(s) },
	}).ParseGlob(templateGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &PageHandler{
		projects:  projects,
		posts:     posts,
		settings:  settings,
		renders:   renders,
		templates: tmpl,
	}, nil
}

// Home handles GET / with featured projects and recent posts.
func (h *PageHandler) Home(c *fiber.Ctx) error {
	featured, err := h.projects.ListFeatured(c.Context())
	if err != nil {
		log.Printf("❌ Failed to load featured projects: %v", err)
		featured = nil
	}

	posts, err := h.posts.List(c.Context(), false)
	if err != nil {
		log.Printf("❌ Failed to load posts: %v", err)
		posts = nil
	}
	if len(posts) > 3 {
		posts = posts[:3]
	}

	return h.renderPage(c, "index", fiber.Map{
		"Site":     h.settings.Get(),
		"Featured": featured,
		"Posts":    posts,
	})
}

// ProjectList handles GET /projects
func (h *PageHandler) ProjectList(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.Context())
	if err != nil {
		log.Printf("❌ Failed to load projects: %v", err)
		projects = nil
	}
	return h.renderPage(c, "projects", fiber.Map{
		"Site":     h.settings.Get(),
		"Projects": projects,
	})
}

// ProjectDetail handles GET /projects/:slug
func (h *PageHandler) ProjectDetail(c *fiber.Ctx) error {
	project, err := h.projects.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("❌ Failed to load project: %v", err)
		}
		return h.NotFound(c)
	}

	body := project.Content + sectionsHTML(project.Sections)
	rendered, err := h.renders.Render(project.Slug, project.UpdatedAt, body)
	if err != nil {
		log.Printf("❌ Render failed for project %s: %v", project.Slug, err)
		return h.NotFound(c)
	}

	return h.renderPage(c, "project_detail", fiber.Map{
		"Site":     h.settings.Get(),
		"Project":  project,
		"Body":     rendered.HTML,
		"Diagrams": len(rendered.Diagrams) > 0,
	})
}

// JournalList handles GET /journal with published posts only.
func (h *PageHandler) JournalList(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.Context(), false)
	if err != nil {
		log.Printf("❌ Failed to load posts: %v", err)
		posts = nil
	}
	return h.renderPage(c, "journal", fiber.Map{
		"Site":  h.settings.Get(),
		"Posts": posts,
	})
}

// JournalDetail handles GET /journal/:slug. Drafts are not served here
// regardless of session state.
func (h *PageHandler) JournalDetail(c *fiber.Ctx) error {
	post, err := h.posts.GetBySlug(c.Context(), c.Params("slug"), true)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("❌ Failed to load post: %v", err)
		}
		return h.NotFound(c)
	}

	body := post.Content + sectionsHTML(post.Sections)
	rendered, err := h.renders.Render(post.Slug, post.UpdatedAt, body)
	if err != nil {
		log.Printf("❌ Render failed for post %s: %v", post.Slug, err)
		return h.NotFound(c)
	}

	return h.renderPage(c, "journal_detail", fiber.Map{
		"Site":     h.settings.Get(),
		"Post":     post,
		"Body":     rendered.HTML,
		"Diagrams": len(rendered.Diagrams) > 0,
	})
}

// Network handles GET /network, the about and contact page.
func (h *PageHandler) Network(c *fiber.Ctx) error {
	return h.renderPage(c, "network", fiber.Map{
		"Site": h.settings.Get(),
	})
}

// Login handles GET /login
func (h *PageHandler) Login(c *fiber.Ctx) error {
	return h.renderPage(c, "login", fiber.Map{
		"Site": h.settings.Get(),
	})
}

// NotFound renders the standard not-found page with a 404 status.
func (h *PageHandler) NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return h.renderPage(c, "not_found", fiber.Map{
		"Site": h.settings.Get(),
	})
}

func (h *PageHandler) renderPage(c *fiber.Ctx, name string, data fiber.Map) error {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("❌ Template %s failed: %v", name, err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// sectionsHTML turns a document's typed sections into the HTML the view
// pipeline consumes, in list order.
func sectionsHTML(sections []models.Section) string {
	var b strings.Builder
	for _, s := range sections {
		if s.Title != "" {
			b.WriteString("<h3>" + html.EscapeString(s.Title) + "</h3>")
		}
		switch s.Type {
		case models.SectionCode:
			class := ""
			if s.Language != "" {
				class = ` class="language-` + html.EscapeString(s.Language) + `"`
			}
			b.WriteString("<pre><code" + class + ">" + html.EscapeString(s.Content) + "</code></pre>")
		case models.SectionImage:
			b.WriteString(`<img src="` + html.EscapeString(s.Content) + `" alt="` + html.EscapeString(s.Title) + `">`)
		case models.SectionCallout:
			b.WriteString(`<div class="callout">` + s.Content + `</div>`)
		default:
			b.WriteString(s.Content)
		}
	}
	return b.String()
}
