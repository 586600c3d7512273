package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"atelier/internal/database"
	"atelier/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storeTimeout = 10 * time.Second

// ProjectService handles project CRUD against MongoDB
type ProjectService struct {
	mongoDB *database.MongoDB
}

// NewProjectService creates a new project service
func NewProjectService(mongoDB *database.MongoDB) *ProjectService {
	return &ProjectService{mongoDB: mongoDB}
}

func (s *ProjectService) collection() *mongo.Collection {
	return s.mongoDB.Collection(database.CollectionProjects)
}

// List returns all projects sorted newest-first by creation time.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cursor, err := s.collection().Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

// ListFeatured returns featured projects for the homepage, newest first.
func (s *ProjectService) ListFeatured(ctx context.Context) ([]*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cursor, err := s.collection().Find(ctx, bson.M{"featured": true},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list featured projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	return projects, nil
}

// GetBySlug returns the project or models.ErrNotFound.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var project models.Project
	err := s.collection().FindOne(ctx, bson.M{"slug": slug}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// Create validates and inserts a project draft. A violated slug index is
// reported as models.ErrDuplicateSlug, distinct from storage failure.
func (s *ProjectService) Create(ctx context.Context, draft *models.Project) (*models.Project, error) {
	if err := draft.ValidateForCreate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now

	result, err := s.collection().InsertOne(ctx, draft)
	if mongo.IsDuplicateKeyError(err) {
		return nil, models.ErrDuplicateSlug
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		draft.ID = oid
	}
	log.Printf("📝 [PROJECT] Created project %s", draft.Slug)
	return draft, nil
}

// Update applies a partial patch to the project identified by slug and
// returns the updated document.
func (s *ProjectService) Update(ctx context.Context, slug string, patch *models.ProjectPatch) (*models.Project, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var updated models.Project
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$set": patch.SetFields(time.Now())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	log.Printf("📝 [PROJECT] Updated project %s", slug)
	return &updated, nil
}

// Delete removes the project record. Cleanup of externally hosted assets
// referenced by its content is the caller's job, before this call.
func (s *ProjectService) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result, err := s.collection().DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	log.Printf("🗑️  [PROJECT] Deleted project %s", slug)
	return nil
}
