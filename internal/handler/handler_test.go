package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dan9191/super-blog/internal/integrations/blogapi"
	"github.com/Dan9191/super-blog/internal/models"
	"github.com/Dan9191/super-blog/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory blog REST backend.
type fakeBackend struct {
	mu     sync.Mutex
	posts  []models.Post
	users  []models.User
	nextID int
	fail   bool
	delay  time.Duration
	calls  map[string]int
}

func newFakeBackend() *fakeBackend {
	bob := models.User{ID: 1, Username: "bob", Email: "b@x.com", ImagePath: "/b.png"}
	amy := models.User{ID: 2, Username: "amy", Email: "a@x.com", ImagePath: "/static/profile_pics/default.jpg"}
	return &fakeBackend{
		posts: []models.Post{{
			ID: 1, Title: "Hi", Content: "x", UserID: 1,
			DatePosted: "2024-01-01T00:00:00Z", Author: bob,
		}},
		users:  []models.User{bob, amy},
		nextID: 2,
		calls:  map[string]int{},
	}
}

func (f *fakeBackend) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	delay := f.delay
	f.mu.Unlock()
	time.Sleep(delay)

	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	if strings.HasPrefix(r.URL.Path, "/api/posts/") {
		key = r.Method + " /api/posts/{id}"
	}
	f.calls[key]++
	if f.fail {
		http.Error(w, "down", http.StatusServiceUnavailable)
		return
	}

	switch key {
	case "GET /api/allPosts":
		_ = json.NewEncoder(w).Encode(f.posts)
	case "GET /api/allUsers":
		_ = json.NewEncoder(w).Encode(f.users)
	case "POST /api/posts":
		var in models.PostCreate
		_ = json.NewDecoder(r.Body).Decode(&in)
		p := models.Post{ID: f.nextID, Title: in.Title, Content: in.Content, UserID: in.UserID,
			DatePosted: "2024-02-01T10:30:00Z", Author: f.user(in.UserID)}
		f.nextID++
		f.posts = append(f.posts, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	case "PATCH /api/posts/{id}":
		var in models.PostUpdate
		_ = json.NewDecoder(r.Body).Decode(&in)
		for i := range f.posts {
			if "/api/posts/"+itoa(f.posts[i].ID) == r.URL.Path {
				if in.Title != nil {
					f.posts[i].Title = *in.Title
				}
				if in.Content != nil {
					f.posts[i].Content = *in.Content
				}
				_ = json.NewEncoder(w).Encode(f.posts[i])
				return
			}
		}
		http.NotFound(w, r)
	case "DELETE /api/posts/{id}":
		for i := range f.posts {
			if "/api/posts/"+itoa(f.posts[i].ID) == r.URL.Path {
				f.posts = append(f.posts[:i], f.posts[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)
	case "POST /api/users":
		var in models.UserCreate
		_ = json.NewDecoder(r.Body).Decode(&in)
		u := models.User{ID: len(f.users) + 1, Username: in.Username, Email: in.Email}
		f.users = append(f.users, u)
		_ = json.NewEncoder(w).Encode(u)
	default:
		for _, u := range f.users {
			if r.Method == http.MethodGet && r.URL.Path == "/api/users/"+itoa(u.ID) {
				_ = json.NewEncoder(w).Encode(u)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) user(id int) models.User {
	for _, u := range f.users {
		if u.ID == id {
			return u
		}
	}
	return models.User{}
}

func (f *fakeBackend) update(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	log, _ := test.NewNullLogger()
	view := service.NewView(blogapi.NewClient(api.URL, log), log)
	h, err := NewHandler(view, log)
	require.NoError(t, err)

	r := mux.NewRouter()
	h.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, backend
}

func noRedirect() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := noRedirect().Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, srv *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := noRedirect().PostForm(srv.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIndex_RendersPostCard(t *testing.T) {
	srv, backend := newTestServer(t)

	code, body := get(t, srv, "/")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, 1, strings.Count(body, `<article class="card">`))
	assert.Contains(t, body, `<div class="card-title">Hi</div>`)
	assert.Contains(t, body, `<div class="username">bob</div>`)
	assert.Contains(t, body, "01 Jan 2024 00:00")
	assert.Contains(t, body, `src="/b.png"`)
	assert.Equal(t, 1, backend.count("GET /api/allPosts"))
	assert.Equal(t, 1, backend.count("GET /api/allUsers"))

	// mounted once
	get(t, srv, "/")
	assert.Equal(t, 1, backend.count("GET /api/allPosts"))
}

func TestIndex_CardCountMatchesPosts(t *testing.T) {
	srv, backend := newTestServer(t)
	backend.update(func(f *fakeBackend) {
		f.posts = append(f.posts,
			models.Post{ID: 5, Title: "Two", UserID: 2, Author: f.users[1]},
			models.Post{ID: 6, Title: "Three", UserID: 2, Author: f.users[1]},
		)
	})

	_, body := get(t, srv, "/")
	assert.Equal(t, 3, strings.Count(body, `<article class="card">`))
}

func TestIndex_BackendDownShowsEmptyList(t *testing.T) {
	srv, backend := newTestServer(t)
	backend.update(func(f *fakeBackend) { f.fail = true })

	code, body := get(t, srv, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, strings.Count(body, `<article class="card">`))
	assert.Contains(t, body, "No posts yet.")
}

func TestCreatePost(t *testing.T) {
	srv, backend := newTestServer(t)
	get(t, srv, "/")

	code, _ := get(t, srv, "/posts/new")
	require.Equal(t, http.StatusSeeOther, code)
	_, body := get(t, srv, "/")
	assert.Contains(t, body, `<form class="post-form"`)

	code, _ = post(t, srv, "/posts", url.Values{"title": {"Second"}, "content": {"more"}, "user_id": {"2"}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, 1, backend.count("POST /api/posts"))
	assert.Equal(t, 2, backend.count("GET /api/allPosts"))
	assert.Equal(t, 2, backend.count("GET /api/allUsers"))

	_, body = get(t, srv, "/")
	assert.Equal(t, 2, strings.Count(body, `<article class="card">`))
	assert.Contains(t, body, "Post created")
	assert.NotContains(t, body, `<form class="post-form"`)
}

func TestCreatePost_LongTitleRejected(t *testing.T) {
	srv, backend := newTestServer(t)
	get(t, srv, "/")
	get(t, srv, "/posts/new")

	code, body := post(t, srv, "/posts", url.Values{
		"title": {"This title is far too long"}, "content": {"c"}, "user_id": {"1"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Title must be at most 15 characters")
	assert.Contains(t, body, `value="This title is far too long"`)
	assert.Zero(t, backend.count("POST /api/posts"))
	assert.Equal(t, 1, backend.count("GET /api/allPosts"))
}

func TestEditPost(t *testing.T) {
	srv, backend := newTestServer(t)

	code, _ := get(t, srv, "/posts/1/edit")
	require.Equal(t, http.StatusSeeOther, code)

	_, body := get(t, srv, "/")
	assert.Contains(t, body, `name="title" maxlength="15" required value="Hi"`)
	assert.Contains(t, body, `<textarea name="content" required>x</textarea>`)
	assert.Contains(t, body, `<select name="user_id" disabled>`)
	assert.Contains(t, body, `<option value="1" selected>bob</option>`)

	code, _ = post(t, srv, "/posts", url.Values{"title": {"Edited"}, "content": {"y"}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, 1, backend.count("PATCH /api/posts/{id}"))
	backend.update(func(f *fakeBackend) {
		assert.Equal(t, "Edited", f.posts[0].Title)
		assert.Equal(t, 1, f.posts[0].UserID)
	})

	code, _ = get(t, srv, "/posts/99/edit")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCancelPost(t *testing.T) {
	srv, _ := newTestServer(t)
	get(t, srv, "/posts/new")

	code, _ := post(t, srv, "/posts/cancel", nil)
	require.Equal(t, http.StatusSeeOther, code)
	_, body := get(t, srv, "/")
	assert.NotContains(t, body, `<form class="post-form"`)
}

func TestDeletePost(t *testing.T) {
	srv, backend := newTestServer(t)
	get(t, srv, "/")

	code, _ := post(t, srv, "/posts/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, 1, backend.count("DELETE /api/posts/{id}"))
	assert.Equal(t, 2, backend.count("GET /api/allPosts"))
	assert.Equal(t, 2, backend.count("GET /api/allUsers"))

	_, body := get(t, srv, "/")
	assert.Zero(t, strings.Count(body, `<article class="card">`))
	assert.Contains(t, body, "Post deleted")

	post(t, srv, "/posts/1/delete", nil)
	_, body = get(t, srv, "/")
	assert.Contains(t, body, "toast-failure")
}

func TestCreateUser(t *testing.T) {
	srv, backend := newTestServer(t)
	get(t, srv, "/")

	code, _ := post(t, srv, "/users", url.Values{"username": {"zed"}, "email": {"z@x.com"}})
	require.Equal(t, http.StatusSeeOther, code)
	assert.Equal(t, 1, backend.count("POST /api/users"))

	_, body := get(t, srv, "/")
	assert.Contains(t, body, `<a href="/users/3">zed</a>`)

	code, body = post(t, srv, "/users", url.Values{"username": {"eve"}, "email": {"nope"}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, "Email must be a valid email address")
	assert.Equal(t, 1, backend.count("POST /api/users"))
}

func TestViewUser(t *testing.T) {
	srv, _ := newTestServer(t)

	code, body := get(t, srv, "/users/1")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h2>bob</h2>")
	assert.Equal(t, 1, strings.Count(body, `<article class="card">`))

	code, _ = get(t, srv, "/users/42")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01T00:00:00Z", "01 Jan 2024 00:00"},
		{"2024-03-09T17:05:42.123456+00:00", "09 Mar 2024 17:05"},
		{"2024-03-09T17:05:42.123456", "09 Mar 2024 17:05"},
		{"2024-12-31 23:59:00", "31 Dec 2024 23:59"},
		{"yesterday", "yesterday"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatDate(tc.in), tc.in)
	}
}

func TestDeleteBeforeFirstRender_RefetchesOnce(t *testing.T) {
	srv, backend := newTestServer(t)

	code, _ := post(t, srv, "/posts/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, code)
	_, body := get(t, srv, "/")

	assert.Contains(t, body, "Post deleted")
	assert.Equal(t, 1, backend.count("GET /api/allPosts"))
	assert.Equal(t, 1, backend.count("GET /api/allUsers"))
}

func TestIndex_ConcurrentFirstRendersWaitForLoad(t *testing.T) {
	srv, backend := newTestServer(t)
	backend.update(func(f *fakeBackend) { f.delay = 100 * time.Millisecond })

	var wg sync.WaitGroup
	bodies := make([]string, 2)
	for i := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(srv.URL + "/")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			b, _ := io.ReadAll(resp.Body)
			bodies[i] = string(b)
		}()
	}
	wg.Wait()

	for i, body := range bodies {
		assert.Equal(t, 1, strings.Count(body, `<article class="card">`), "request %d", i)
	}
	assert.Equal(t, 1, backend.count("GET /api/allPosts"))
}

func TestViewUser_ShowsFreshPosts(t *testing.T) {
	srv, backend := newTestServer(t)
	get(t, srv, "/")

	backend.update(func(f *fakeBackend) {
		f.posts = append(f.posts, models.Post{ID: 8, Title: "Fresh", UserID: 1, Author: f.users[0]})
	})

	code, body := get(t, srv, "/users/1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, strings.Count(body, `<article class="card">`))
	assert.Contains(t, body, "Fresh")
}
