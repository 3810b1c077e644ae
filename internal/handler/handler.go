package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/Dan9191/super-blog/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	view  *service.View
	log   *logrus.Logger
	pages map[string]*template.Template
}

func NewHandler(view *service.View, log *logrus.Logger) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Handler{view: view, log: log, pages: pages}, nil
}

// Register wires every UI route onto the router
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/", h.Index).Methods("GET")
	r.HandleFunc("/feed.xml", h.Feed).Methods("GET")
	r.HandleFunc("/posts", h.SubmitPost).Methods("POST")
	r.HandleFunc("/posts/new", h.NewPost).Methods("GET")
	r.HandleFunc("/posts/cancel", h.CancelPost).Methods("POST")
	r.HandleFunc("/posts/{id:[0-9]+}/edit", h.EditPost).Methods("GET")
	r.HandleFunc("/posts/{id:[0-9]+}/delete", h.DeletePost).Methods("POST")
	r.HandleFunc("/users", h.CreateUser).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}", h.ViewUser).Methods("GET")
}

// Index renders the post list, the form and the authors
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.view.Mount(r.Context())
	h.renderIndex(w, http.StatusOK, nil, nil)
}

func (h *Handler) renderIndex(w http.ResponseWriter, status int, userForm, userErrors map[string]string) {
	data := &HTMLData{
		Title:      "Super Blog",
		Toast:      h.view.Toast(),
		Form:       h.view.Form(),
		Posts:      h.view.Posts(),
		Users:      h.view.Users(),
		UserForm:   userForm,
		UserErrors: userErrors,
	}
	h.render(w, status, "index.page.html", data)
}

// NewPost opens an empty form
func (h *Handler) NewPost(w http.ResponseWriter, r *http.Request) {
	h.view.OpenCreate()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditPost opens the form prefilled with an existing post
func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.notFound(w)
		return
	}

	h.view.Mount(r.Context())
	if err := h.view.OpenEdit(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			h.notFound(w)
			return
		}
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CancelPost hides the form
func (h *Handler) CancelPost(w http.ResponseWriter, r *http.Request) {
	h.view.CloseForm()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitPost creates or updates a post from the form
func (h *Handler) SubmitPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, "invalid form")
		return
	}

	// An empty or malformed author is left at zero and rejected by validation
	userID, _ := strconv.Atoi(r.PostForm.Get("user_id"))
	in := service.PostInput{
		Title:   r.PostForm.Get("title"),
		Content: r.PostForm.Get("content"),
		UserID:  userID,
	}

	err := h.view.Submit(r.Context(), in)
	var ve *service.ValidationError
	switch {
	case err == nil, errors.Is(err, service.ErrSubmitFailed):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &ve):
		h.renderIndex(w, http.StatusUnprocessableEntity, nil, nil)
	default:
		h.serverError(w, err)
	}
}

// DeletePost deletes a post and returns to the list
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.notFound(w)
		return
	}

	// Failures are reported through the toast
	_ = h.view.Delete(r.Context(), id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CreateUser adds an author
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, "invalid form")
		return
	}

	in := service.UserInput{
		Username: r.PostForm.Get("username"),
		Email:    r.PostForm.Get("email"),
	}

	_, err := h.view.CreateUser(r.Context(), in)
	var ve *service.ValidationError
	switch {
	case err == nil, errors.Is(err, service.ErrCreateUserFailed):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.As(err, &ve):
		form := map[string]string{"username": in.Username, "email": in.Email}
		h.renderIndex(w, http.StatusUnprocessableEntity, form, ve.Fields)
	default:
		h.serverError(w, err)
	}
}

// ViewUser renders one author with their posts
func (h *Handler) ViewUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.notFound(w)
		return
	}

	user := h.view.User(r.Context(), id)
	if user == nil {
		h.notFound(w)
		return
	}

	posts := h.view.UserPosts(r.Context(), user.ID)

	h.render(w, http.StatusOK, "user.page.html", &HTMLData{
		Title: user.Username,
		Toast: h.view.Toast(),
		User:  user,
		Posts: posts,
	})
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
