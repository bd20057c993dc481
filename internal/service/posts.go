package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/models"
	"github.com/minibank/bank/internal/repository"
)

// PostService handles user-authored posts. No ledger rules apply here.
type PostService struct {
	db     *db.DB
	logger *slog.Logger
}

// NewPostService creates a new PostService
func NewPostService(database *db.DB, logger *slog.Logger) *PostService {
	return &PostService{db: database, logger: logger}
}

// CreatePost stores a post owned by the account
func (s *PostService) CreatePost(ctx context.Context, accountID uuid.UUID, title, content string) (*models.Post, error) {
	if err := ValidatePostTitle(title); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidTitle, Message: err.Error()}
	}

	post := &models.Post{
		ID:        uuid.New(),
		AccountID: accountID,
		Title:     title,
		Content:   content,
	}

	repo := repository.NewPostRepository(s.db)
	if err := repo.Create(ctx, post); err != nil {
		return nil, internalError("failed to create post: %v", err)
	}

	return post, nil
}

// ListPosts returns the account's posts, newest first
func (s *PostService) ListPosts(ctx context.Context, accountID uuid.UUID) ([]*models.Post, error) {
	repo := repository.NewPostRepository(s.db)
	posts, err := repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, internalError("failed to list posts: %v", err)
	}
	return posts, nil
}
