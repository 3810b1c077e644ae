package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Dan9191/super-blog/internal/models"
	"github.com/Dan9191/super-blog/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// DateLayout renders timestamps as "01 Jan 2024 00:00"
const DateLayout = "02 Jan 2006 15:04"

// HTMLData is passed to every page template
type HTMLData struct {
	Title      string
	Toast      *service.Toast
	Form       service.Form
	Posts      []models.Post
	Users      []models.User
	User       *models.User
	UserForm   map[string]string
	UserErrors map[string]string
}

var functions = template.FuncMap{
	"formatDate": FormatDate,
}

// FormatDate formats an ISO-like timestamp in its own offset.
// Unparseable input is returned unchanged.
func FormatDate(s string) string {
	if t, ok := models.ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return s
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, page := range []string{"index.page.html", "user.page.html"} {
		ts, err := template.New(page).Funcs(functions).ParseFS(templateFS,
			"templates/base.layout.html",
			"templates/"+page,
			"templates/*.partial.html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		pages[page] = ts
	}
	return pages, nil
}

// render buffers the page before writing any header
func (h *Handler) render(w http.ResponseWriter, status int, page string, data *HTMLData) {
	ts, ok := h.pages[page]
	if !ok {
		h.serverError(w, fmt.Errorf("template %s does not exist", page))
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		h.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}
