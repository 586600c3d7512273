// Package handlers wires the HTTP surface to the service layer. Handlers
// accept small store interfaces rather than concrete services so they can
// be exercised against in-memory fakes.
package handlers

import (
	"context"
	"errors"
	"log"

	"atelier/internal/editor"
	"atelier/internal/logging"
	"atelier/internal/models"
	"atelier/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProjectStore is the slice of the project service the handlers use.
type ProjectStore interface {
	List(ctx context.Context) ([]*models.Project, error)
	ListFeatured(ctx context.Context) ([]*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	Create(ctx context.Context, draft *models.Project) (*models.Project, error)
	Update(ctx context.Context, slug string, patch *models.ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, slug string) error
}

// PostStore is the slice of the post service the handlers use.
type PostStore interface {
	List(ctx context.Context, includeUnpublished bool) ([]*models.Post, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error)
	Create(ctx context.Context, draft *models.Post) (*models.Post, error)
	Update(ctx context.Context, slug string, patch *models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, slug string) error
}

// UploadGateway is the slice of the upload service the delete cascade uses.
type UploadGateway interface {
	Upload(ctx context.Context, filename string, data []byte) (*services.UploadResult, error)
	DeleteByURL(ctx context.Context, rawURL string) error
	ExtractReferencedURLs(html string) []string
}

// ContentHandler serves the admin CRUD API for projects and journal posts.
type ContentHandler struct {
	projects ProjectStore
	posts    PostStore
	uploads  UploadGateway
}

func NewContentHandler(projects ProjectStore, posts PostStore, uploads UploadGateway) *ContentHandler {
	return &ContentHandler{projects: projects, posts: posts, uploads: uploads}
}

// ListProjects handles GET /api/projects
func (h *ContentHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.Context())
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(projects)
}

// GetProject handles GET /api/projects/:slug
func (h *ContentHandler) GetProject(c *fiber.Ctx) error {
	project, err := h.projects.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(project)
}

// CreateProject handles POST /api/projects
func (h *ContentHandler) CreateProject(c *fiber.Ctx) error {
	var draft models.Project
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	draft.Content = editor.Sanitize(draft.Content)

	created, err := h.projects.Create(c.Context(), &draft)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateProject handles PUT /api/projects/:slug
func (h *ContentHandler) UpdateProject(c *fiber.Ctx) error {
	var patch models.ProjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if patch.Content != nil {
		clean := editor.Sanitize(*patch.Content)
		patch.Content = &clean
	}

	updated, err := h.projects.Update(c.Context(), c.Params("slug"), &patch)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(updated)
}

// DeleteProject handles DELETE /api/projects/:slug
// Stored images referenced by the document are cleaned up first; a failed
// image deletion is logged and does not block removing the document.
func (h *ContentHandler) DeleteProject(c *fiber.Ctx) error {
	slug := c.Params("slug")

	project, err := h.projects.GetBySlug(c.Context(), slug)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	h.cascadeImages(c.Context(), "projects", slug, project.Content, project.Sections)

	if err := h.projects.Delete(c.Context(), slug); err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ListPosts handles GET /api/journals. Admin sessions see drafts too.
func (h *ContentHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.Context(), isAdmin(c))
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/journals/:slug
func (h *ContentHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.posts.GetBySlug(c.Context(), c.Params("slug"), !isAdmin(c))
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/journals
func (h *ContentHandler) CreatePost(c *fiber.Ctx) error {
	var draft models.Post
	if err := c.BodyParser(&draft); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	draft.Content = editor.Sanitize(draft.Content)

	created, err := h.posts.Create(c.Context(), &draft)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdatePost handles PUT /api/journals/:slug
func (h *ContentHandler) UpdatePost(c *fiber.Ctx) error {
	var patch models.PostPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if patch.Content != nil {
		clean := editor.Sanitize(*patch.Content)
		patch.Content = &clean
	}

	updated, err := h.posts.Update(c.Context(), c.Params("slug"), &patch)
	if err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(updated)
}

// DeletePost handles DELETE /api/journals/:slug with the same image cascade
// as project deletion.
func (h *ContentHandler) DeletePost(c *fiber.Ctx) error {
	slug := c.Params("slug")

	post, err := h.posts.GetBySlug(c.Context(), slug, false)
	if err != nil {
		return storeErrorResponse(c, err)
	}

	h.cascadeImages(c.Context(), "journals", slug, post.Content, post.Sections)

	if err := h.posts.Delete(c.Context(), slug); err != nil {
		return storeErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// ImportMarkdown handles POST /api/editor/markdown. It converts a markdown
// draft to the sanitized content HTML the editor works with, so existing
// markdown documents can be pasted in instead of re-authored.
func (h *ContentHandler) ImportMarkdown(c *fiber.Ctx) error {
	var req struct {
		Markdown string `json:"markdown"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	content, err := editor.FromMarkdown(req.Markdown)
	if err != nil {
		log.Printf("❌ Markdown conversion failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Markdown conversion failed",
		})
	}
	return c.JSON(fiber.Map{"content": content})
}

// cascadeImages deletes every trusted-host image the document references,
// from its content HTML and its image sections.
func (h *ContentHandler) cascadeImages(ctx context.Context, collection, slug, content string, sections []models.Section) {
	docLog := logging.WithDocument(collection, slug)

	urls := h.uploads.ExtractReferencedURLs(content)
	for _, section := range sections {
		if section.Type == models.SectionImage && section.Content != "" {
			urls = append(urls, h.uploads.ExtractReferencedURLs(`<img src="`+section.Content+`">`)...)
		}
	}

	for _, u := range urls {
		if err := h.uploads.DeleteByURL(ctx, u); err != nil {
			docLog.Warn("cascade image deletion failed", "url", u, "error", err)
		}
	}
}

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("user_role").(string)
	return role == "admin"
}

// storeErrorResponse maps service errors to HTTP responses. Validation and
// duplicate-slug failures are the caller's fault; anything unrecognized is
// a 500 and gets logged server-side only.
func storeErrorResponse(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, models.ErrDuplicateSlug):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A document with this slug already exists",
		})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
		})
	default:
		log.Printf("❌ Store operation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
