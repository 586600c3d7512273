package services

import (
	"context"
	"errors"
	"log"
	"time"

	"atelier/internal/database"
	"atelier/internal/models"
	"atelier/pkg/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserService handles admin account lookup and first-boot seeding.
type UserService struct {
	mongoDB *database.MongoDB
}

func NewUserService(mongoDB *database.MongoDB) *UserService {
	return &UserService{mongoDB: mongoDB}
}

func (s *UserService) collection() *mongo.Collection {
	return s.mongoDB.Collection(database.CollectionUsers)
}

// GetByEmail returns the user with the given email, or ErrNotFound.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var user models.User
	err := s.collection().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureAdmin seeds the admin account from configuration on first boot. An
// existing account with the same email is left untouched.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		log.Println("⚠️  Admin credentials not configured, skipping admin seeding")
		return nil
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	_, err := s.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	_, err = s.collection().InsertOne(ctx, &models.User{
		Email:        email,
		Name:         "Admin",
		PasswordHash: hash,
		Role:         "admin",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return err
	}

	log.Printf("✅ Seeded admin account: %s", email)
	return nil
}
