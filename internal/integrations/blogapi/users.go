package blogapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Dan9191/super-blog/internal/models"
)

// GetAllUsers returns every user, or an empty list on failure
func (c *Client) GetAllUsers(ctx context.Context) []models.User {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/allUsers", nil, &users); err != nil {
		c.log.Errorf("Error fetching users: %v", err)
		return []models.User{}
	}
	if users == nil {
		users = []models.User{}
	}
	return users
}

// GetUserByID returns one user, or nil on failure
func (c *Client) GetUserByID(ctx context.Context, userID int) *models.User {
	user := &models.User{}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d", userID), nil, user)
	if err == nil {
		err = checkID(user.ID)
	}
	if err != nil {
		c.log.Errorf("Error fetching user %d: %v", userID, err)
		return nil
	}
	return user
}

// CreateUser registers a user, returning the stored copy or nil on failure
func (c *Client) CreateUser(ctx context.Context, data models.UserCreate) *models.User {
	user := &models.User{}
	err := c.do(ctx, http.MethodPost, "/api/users", data, user)
	if err == nil {
		err = checkID(user.ID)
	}
	if err != nil {
		c.log.Errorf("Error creating user: %v", err)
		return nil
	}
	c.log.Infof("User created: %s", user.Username)
	return user
}
