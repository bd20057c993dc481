package handlers

import (
	"net/http"

	"github.com/minibank/bank/internal/middleware"
	"github.com/minibank/bank/internal/models"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type postResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreatePost handles POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	var req createPostRequest
	if !h.decode(w, r, &req) {
		return
	}

	post, err := h.posts.CreatePost(r.Context(), accountID, req.Title, req.Content)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, toPostResponse(post))
}

// ListPosts handles GET /api/v1/posts
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		h.respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_credentials", Message: "invalid token"})
		return
	}

	posts, err := h.posts.ListPosts(r.Context(), accountID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	responses := make([]postResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, toPostResponse(post))
	}

	h.respondJSON(w, http.StatusOK, responses)
}
