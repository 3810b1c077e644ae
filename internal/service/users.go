package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dan9191/super-blog/internal/models"
)

var ErrCreateUserFailed = errors.New("failed to create user")

// UserInput is the new-user form
type UserInput struct {
	Username string `form:"username" validate:"required,max=50"`
	Email    string `form:"email" validate:"required,email,max=120"`
}

// CreateUser registers a user and reloads both lists
func (v *View) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}

	user := v.api.CreateUser(ctx, models.UserCreate{Username: in.Username, Email: in.Email})

	v.Reload(ctx)

	if user == nil {
		v.setToast(ToastFailure, ErrCreateUserFailed.Error())
		return nil, ErrCreateUserFailed
	}
	v.setToast(ToastSuccess, "User created")
	return user, nil
}

// User looks up a single user on the backend; nil when it has none
func (v *View) User(ctx context.Context, userID int) *models.User {
	return v.api.GetUserByID(ctx, userID)
}
