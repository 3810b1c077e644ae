package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/super-blog/internal/models"
	"github.com/beevik/etree"
)

// Feed serves the current post list as RSS 2.0
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	h.view.Mount(r.Context())

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	doc := buildFeed(scheme+"://"+r.Host, h.view.Posts())
	doc.Indent(2)

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := doc.WriteTo(w); err != nil {
		h.log.Errorf("Failed to write feed: %v", err)
	}
}

func buildFeed(site string, posts []models.Post) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText("Super Blog")
	channel.CreateElement("link").SetText(site + "/")
	channel.CreateElement("description").SetText("Latest posts")

	for _, p := range posts {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(p.Title)
		item.CreateElement("description").SetText(p.Content)
		item.CreateElement("link").SetText(fmt.Sprintf("%s/users/%d", site, p.UserID))
		if p.Author.Email != "" {
			item.CreateElement("author").SetText(fmt.Sprintf("%s (%s)", p.Author.Email, p.Author.Username))
		}
		if t, ok := p.Posted(); ok {
			item.CreateElement("pubDate").SetText(t.Format(time.RFC1123Z))
		}
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "false")
		guid.SetText("post-" + strconv.Itoa(p.ID))
	}
	return doc
}
