package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/minibank/bank/internal/db"
	"github.com/minibank/bank/internal/models"
)

// PostRepository defines the interface for user-authored posts
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Post, error)
}

type postRepository struct {
	db db.Querier
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(q db.Querier) PostRepository {
	return &postRepository{db: q}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, account_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		post.ID,
		post.AccountID,
		post.Title,
		post.Content,
	).Scan(&post.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *postRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Post, error) {
	query := `
		SELECT id, account_id, title, content, created_at
		FROM posts
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		if err := rows.Scan(&post.ID, &post.AccountID, &post.Title, &post.Content, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}
