package models

// Post represents a blog entry with its author embedded
type Post struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     int    `json:"user_id"`
	DatePosted string `json:"date_posted"`
	Author     User   `json:"author"`
}

// PostCreate is the body of POST /api/posts
type PostCreate struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int    `json:"user_id"`
}

// PostUpdate is a partial update; nil fields are not sent
type PostUpdate struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	UserID  *int    `json:"user_id,omitempty"`
}
