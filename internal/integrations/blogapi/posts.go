package blogapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Dan9191/super-blog/internal/models"
)

// GetAllPosts returns every post with its author, or an empty list on failure
func (c *Client) GetAllPosts(ctx context.Context) []models.Post {
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, "/api/allPosts", nil, &posts); err != nil {
		c.log.Errorf("Error fetching posts: %v", err)
		return []models.Post{}
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts
}

// CreatePost creates a post and returns the stored copy, or nil on failure
func (c *Client) CreatePost(ctx context.Context, data models.PostCreate) *models.Post {
	post := &models.Post{}
	err := c.do(ctx, http.MethodPost, "/api/posts", data, post)
	if err == nil {
		err = checkID(post.ID)
	}
	if err != nil {
		c.log.Errorf("Error creating post: %v", err)
		return nil
	}
	return post
}

// UpdatePost applies a partial update, returning the updated post or nil on failure
func (c *Client) UpdatePost(ctx context.Context, postID int, data models.PostUpdate) *models.Post {
	post := &models.Post{}
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/posts/%d", postID), data, post)
	if err == nil {
		err = checkID(post.ID)
	}
	if err != nil {
		c.log.Errorf("Error updating post %d: %v", postID, err)
		return nil
	}
	return post
}

// DeletePost reports whether the backend accepted the deletion
func (c *Client) DeletePost(ctx context.Context, postID int) bool {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil, nil); err != nil {
		c.log.Errorf("Error deleting post %d: %v", postID, err)
		return false
	}
	return true
}
