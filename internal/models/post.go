package models

import "time"

type Post struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `json:"user_id"`
}

// PostView is the response shape for GET /posts and GET /posts/{id}:
// the post plus its comments in creation order.
type PostView struct {
	ID        int           `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	Comments  []CommentView `json:"comments"`
}

// NewPostView builds the response shape. A nil comments slice is rendered as [].
func NewPostView(p Post, comments []Comment) PostView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, c.View())
	}
	return PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		Comments:  views,
	}
}
