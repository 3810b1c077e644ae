package service

import (
	"context"
	"sync"

	"github.com/Dan9191/super-blog/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Backend is the data-access layer the view depends on.
// Methods return sentinel values instead of errors.
type Backend interface {
	GetAllPosts(ctx context.Context) []models.Post
	CreatePost(ctx context.Context, data models.PostCreate) *models.Post
	UpdatePost(ctx context.Context, postID int, data models.PostUpdate) *models.Post
	DeletePost(ctx context.Context, postID int) bool
	GetAllUsers(ctx context.Context) []models.User
	GetUserByID(ctx context.Context, userID int) *models.User
	CreateUser(ctx context.Context, data models.UserCreate) *models.User
}

// View holds the transient copy of posts and users plus the post form.
// Lists are never patched in place: every mutation is followed by a full reload.
type View struct {
	api Backend
	log *logrus.Logger

	mount   sync.Once
	mu      sync.Mutex
	mounted bool
	posts   []models.Post
	users   []models.User
	form    Form
	toast   *Toast
}

// NewView initializes a new view over the backend
func NewView(api Backend, log *logrus.Logger) *View {
	return &View{
		api:   api,
		log:   log,
		posts: []models.Post{},
		users: []models.User{},
	}
}

// Mount performs the initial load unless a load has already completed.
// Concurrent callers block until that first load settles. It reports
// whether this call loaded.
func (v *View) Mount(ctx context.Context) bool {
	loaded := false
	v.mount.Do(func() {
		v.mu.Lock()
		done := v.mounted
		v.mu.Unlock()
		if !done {
			v.Reload(ctx)
			loaded = true
		}
	})
	return loaded
}

// Reload fetches posts and users in parallel and replaces both lists
// once both calls have settled.
func (v *View) Reload(ctx context.Context) {
	var (
		g     errgroup.Group
		posts []models.Post
		users []models.User
	)
	g.Go(func() error {
		posts = v.api.GetAllPosts(ctx)
		return nil
	})
	g.Go(func() error {
		users = v.api.GetAllUsers(ctx)
		return nil
	})
	_ = g.Wait()

	if posts == nil {
		posts = []models.Post{}
	}
	if users == nil {
		users = []models.User{}
	}

	v.mu.Lock()
	v.posts = posts
	v.users = users
	v.mounted = true
	v.mu.Unlock()

	v.log.Debugf("Loaded %d posts and %d users", len(posts), len(users))
}

// UserPosts fetches the posts of one author straight from the backend
func (v *View) UserPosts(ctx context.Context, userID int) []models.Post {
	var posts []models.Post
	for _, p := range v.api.GetAllPosts(ctx) {
		if p.UserID == userID {
			posts = append(posts, p)
		}
	}
	return posts
}

// Posts returns a copy of the current post list
func (v *View) Posts() []models.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	posts := make([]models.Post, len(v.posts))
	copy(posts, v.posts)
	return posts
}

// Users returns a copy of the current user list
func (v *View) Users() []models.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	users := make([]models.User, len(v.users))
	copy(users, v.users)
	return users
}

// Form returns a copy of the post form
func (v *View) Form() Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.form.clone()
}

// Toast returns the pending notice and clears it
func (v *View) Toast() *Toast {
	v.mu.Lock()
	defer v.mu.Unlock()
	t := v.toast
	v.toast = nil
	return t
}

func (v *View) setToast(kind ToastKind, msg string) {
	v.mu.Lock()
	v.toast = &Toast{Kind: kind, Message: msg}
	v.mu.Unlock()
}

func (v *View) findPost(postID int) (models.Post, bool) {
	for _, p := range v.posts {
		if p.ID == postID {
			return p, true
		}
	}
	return models.Post{}, false
}
