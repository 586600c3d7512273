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

// PostService handles journal post CRUD against MongoDB
type PostService struct {
	mongoDB *database.MongoDB
}

// NewPostService creates a new post service
func NewPostService(mongoDB *database.MongoDB) *PostService {
	return &PostService{mongoDB: mongoDB}
}

func (s *PostService) collection() *mongo.Collection {
	return s.mongoDB.Collection(database.CollectionPosts)
}

// List returns posts sorted newest-first by date. The admin variant includes
// unpublished drafts; the public variant never does.
func (s *PostService) List(ctx context.Context, includeUnpublished bool) ([]*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	filter := bson.M{}
	if !includeUnpublished {
		filter["published"] = true
	}

	cursor, err := s.collection().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, nil
}

// GetBySlug returns the post or models.ErrNotFound. With publishedOnly set,
// an unpublished post is indistinguishable from a missing one.
func (s *PostService) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	filter := bson.M{"slug": slug}
	if publishedOnly {
		filter["published"] = true
	}

	var post models.Post
	err := s.collection().FindOne(ctx, filter).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

// Create validates and inserts a post draft. A violated slug index is
// reported as models.ErrDuplicateSlug, distinct from storage failure.
func (s *PostService) Create(ctx context.Context, draft *models.Post) (*models.Post, error) {
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
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		draft.ID = oid
	}
	log.Printf("📝 [POST] Created post %s", draft.Slug)
	return draft, nil
}

// Update applies a partial patch to the post identified by slug and returns
// the updated document. Overlapping admin edits are last-write-wins.
func (s *PostService) Update(ctx context.Context, slug string, patch *models.PostPatch) (*models.Post, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var updated models.Post
	err := s.collection().FindOneAndUpdate(ctx,
		bson.M{"slug": slug},
		bson.M{"$set": patch.SetFields(time.Now())},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	log.Printf("📝 [POST] Updated post %s", slug)
	return &updated, nil
}

// Delete removes the post record. Asset cleanup happens in the caller first.
func (s *PostService) Delete(ctx context.Context, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	result, err := s.collection().DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	log.Printf("🗑️  [POST] Deleted post %s", slug)
	return nil
}
