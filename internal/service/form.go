package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dan9191/super-blog/internal/models"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrSubmitFailed = errors.New("failed to save post")
	ErrDeleteFailed = errors.New("failed to delete post")
)

// FormState is the lifecycle position of the post form
type FormState int

const (
	FormHidden FormState = iota
	FormCreate
	FormEdit
	FormSubmitting
)

func (s FormState) String() string {
	switch s {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	case FormSubmitting:
		return "submitting"
	default:
		return "hidden"
	}
}

// Form is the create/edit post form
type Form struct {
	State   FormState
	PostID  int // Set in edit mode
	Title   string
	Content string
	UserID  int
	// AuthorLocked disables author selection; set when editing
	AuthorLocked bool
	Errors       map[string]string
}

// Visible reports whether the form is shown
func (f Form) Visible() bool {
	return f.State != FormHidden
}

// Editing reports whether the form targets an existing post
func (f Form) Editing() bool {
	return f.PostID != 0
}

func (f Form) clone() Form {
	if f.Errors != nil {
		errs := make(map[string]string, len(f.Errors))
		for k, v := range f.Errors {
			errs[k] = v
		}
		f.Errors = errs
	}
	return f
}

// PostInput is what the user typed into the form
type PostInput struct {
	Title   string `form:"title" validate:"required,max=15"`
	Content string `form:"content" validate:"required"`
	UserID  int    `form:"user_id" validate:"required,gt=0"`
}

// OpenCreate shows an empty form for a new post
func (v *View) OpenCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = Form{State: FormCreate}
}

// OpenEdit shows the form prefilled with an existing post.
// The author cannot be changed while editing.
func (v *View) OpenEdit(postID int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	post, ok := v.findPost(postID)
	if !ok {
		return ErrPostNotFound
	}
	v.form = Form{
		State:        FormEdit,
		PostID:       post.ID,
		Title:        post.Title,
		Content:      post.Content,
		UserID:       post.UserID,
		AuthorLocked: true,
	}
	return nil
}

// CloseForm hides and clears the form
func (v *View) CloseForm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = Form{}
}

// Submit validates the input, creates or updates the post, then reloads
// both lists. Invalid input never reaches the backend.
func (v *View) Submit(ctx context.Context, in PostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)

	v.mu.Lock()
	if v.form.State == FormHidden {
		v.form = Form{State: FormCreate}
	}
	if v.form.AuthorLocked {
		in.UserID = v.form.UserID
	}
	v.form.Title = in.Title
	v.form.Content = in.Content
	v.form.UserID = in.UserID
	v.form.Errors = nil

	if err := validate(in); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			v.form.Errors = ve.Fields
		}
		v.mu.Unlock()
		return err
	}

	postID := v.form.PostID
	prev := FormCreate
	if postID != 0 {
		prev = FormEdit
	}
	v.form.State = FormSubmitting
	v.mu.Unlock()

	var saved *models.Post
	if postID != 0 {
		saved = v.api.UpdatePost(ctx, postID, models.PostUpdate{
			Title:   &in.Title,
			Content: &in.Content,
		})
	} else {
		saved = v.api.CreatePost(ctx, models.PostCreate{
			Title:   in.Title,
			Content: in.Content,
			UserID:  in.UserID,
		})
	}

	v.Reload(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if saved == nil {
		if v.form.State == FormSubmitting {
			v.form.State = prev
		}
		v.toast = &Toast{Kind: ToastFailure, Message: ErrSubmitFailed.Error()}
		return ErrSubmitFailed
	}

	if postID != 0 {
		v.log.Infof("Post updated: ID=%d, Title=%q", saved.ID, saved.Title)
		v.toast = &Toast{Kind: ToastSuccess, Message: "Post updated"}
	} else {
		v.log.Infof("Post created: ID=%d, Title=%q, UserID=%d", saved.ID, saved.Title, in.UserID)
		v.toast = &Toast{Kind: ToastSuccess, Message: "Post created"}
	}
	v.form = Form{}
	return nil
}

// Delete removes a post and reloads both lists
func (v *View) Delete(ctx context.Context, postID int) error {
	ok := v.api.DeletePost(ctx, postID)

	v.Reload(ctx)

	if !ok {
		v.setToast(ToastFailure, ErrDeleteFailed.Error())
		return ErrDeleteFailed
	}

	v.mu.Lock()
	if v.form.PostID == postID {
		v.form = Form{}
	}
	v.toast = &Toast{Kind: ToastSuccess, Message: "Post deleted"}
	v.mu.Unlock()

	v.log.Infof("Post deleted: ID=%d", postID)
	return nil
}
