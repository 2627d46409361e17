package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crucial707/blog-api/internal/cache"
	"github.com/crucial707/blog-api/internal/events"
	"github.com/crucial707/blog-api/internal/metrics"
	"github.com/crucial707/blog-api/internal/middleware"
	"github.com/crucial707/blog-api/internal/models"
	"github.com/crucial707/blog-api/internal/repo"
)

const (
	msgPostNotFound    = "post not found"
	msgContentRequired = "title and content required"
	msgTitleTooLong    = "title too long"
)

// PostHandler serves posts and their comments.
type PostHandler struct {
	Posts    *repo.PostRepo
	Comments *repo.CommentRepo
	Cache    cache.PostCache
	Events   events.Publisher

	// RequireContent rejects empty title/content (posts) and empty content (comments).
	RequireContent bool
}

type postInput struct {
	Title   string `json:"title" validate:"max=100"`
	Content string `json:"content"`
}

type commentInput struct {
	Content string `json:"content"`
}

func (h *PostHandler) postCache() cache.PostCache {
	if h.Cache == nil {
		return cache.Nop{}
	}
	return h.Cache
}

//
// ==========================
// Create Post
// ==========================
//

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, r, AuthError(middleware.MsgInvalidUser))
		return
	}

	var input postInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	fields := fieldErrors(validate.Struct(input))
	if h.RequireContent {
		if strings.TrimSpace(input.Title) == "" {
			fields["title"] = "required"
		}
		if strings.TrimSpace(input.Content) == "" {
			fields["content"] = "required"
		}
	}
	if len(fields) > 0 {
		msg := msgTitleTooLong
		if fields["title"] == "required" || fields["content"] == "required" {
			msg = msgContentRequired
		}
		writeError(w, r, ValidationError(msg, fields))
		return
	}

	post, err := h.Posts.Create(r.Context(), input.Title, input.Content, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, r, AuthError(middleware.MsgInvalidUser))
			return
		}
		writeError(w, r, err)
		return
	}

	metrics.IncCreated("post")
	publisher(h.Events).Publish(r.Context(), events.Event{
		Type:      events.PostCreated,
		ID:        post.ID,
		UserID:    userID,
		CreatedAt: post.CreatedAt,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"msg": "Post created successfully",
		"id":  post.ID,
	})
}

//
// ==========================
// List Posts
// ==========================
//

// ListPosts returns every post in id order, each with its comments.
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Posts.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	byPost, err := h.Comments.ListByPosts(r.Context(), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, models.NewPostView(p, byPost[p.ID]))
	}
	writeJSON(w, http.StatusOK, views)
}

//
// ==========================
// Get Post By ID
// ==========================
//

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := postIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, gen, ok := h.postCache().Get(r.Context(), id)
	if ok {
		writeJSON(w, http.StatusOK, view)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, r, NotFoundError(msgPostNotFound))
			return
		}
		writeError(w, r, err)
		return
	}

	comments, err := h.Comments.ListByPost(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view = models.NewPostView(post, comments)
	h.postCache().Set(r.Context(), view, gen)
	writeJSON(w, http.StatusOK, view)
}

//
// ==========================
// Create Comment
// ==========================
//

// CreateComment adds a comment to the post in the path. The post is resolved
// before the body is validated, so an unknown post is a 404 whatever the body.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, r, AuthError(middleware.MsgInvalidUser))
		return
	}

	postID, err := postIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input commentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := h.Posts.GetByID(r.Context(), postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, r, NotFoundError(msgPostNotFound))
			return
		}
		writeError(w, r, err)
		return
	}

	if h.RequireContent && strings.TrimSpace(input.Content) == "" {
		writeError(w, r, ValidationError("content required", map[string]string{"content": "required"}))
		return
	}

	comment, err := h.Comments.Create(r.Context(), postID, userID, input.Content)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, r, NotFoundError(msgPostNotFound))
			return
		}
		writeError(w, r, err)
		return
	}

	h.postCache().Invalidate(r.Context(), postID)
	metrics.IncCreated("comment")
	publisher(h.Events).Publish(r.Context(), events.Event{
		Type:      events.CommentCreated,
		ID:        comment.ID,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: comment.CreatedAt,
	})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"msg": "Comment added successfully",
		"id":  comment.ID,
	})
}
