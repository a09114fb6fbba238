package handlers

import (
	"net/http"
	"strconv"

	"gamehub/internal/models"
)

func pageParams(r *http.Request, defLimit int) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defLimit
	}
	return page, limit
}

func pagination(page, limit, total int) map[string]any {
	pages := (total + limit - 1) / limit
	return map[string]any{
		"currentPage": page,
		"totalPages":  pages,
		"hasNextPage": page < pages,
		"totalItems":  total,
	}
}

func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 10)
	items, total, err := h.registry.ListArticles(r.Context(), page, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"articles":   items,
		"pagination": pagination(page, limit, total),
	})
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := h.registry.ArticleByRef(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"article": a})
}

type articleInput struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Excerpt        string `json:"excerpt"`
	Content        string `json:"content"`
	Image          string `json:"image"`
	SecondaryImage string `json:"secondaryImage"`
	ReadingTime    string `json:"readingTime"`
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request, u models.User) {
	var in articleInput
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Title == "" || in.Slug == "" {
		writeMsg(w, http.StatusBadRequest, "title and slug are required")
		return
	}
	a := models.Article{
		AuthorID: u.ID, Title: in.Title, Slug: in.Slug, Excerpt: in.Excerpt,
		Content: in.Content, Image: in.Image, SecondaryImage: in.SecondaryImage,
		ReadingTime: in.ReadingTime, Author: u.Username,
	}
	if err := h.registry.CreateArticle(r.Context(), &a); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "article created", "article": a})
}

func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	var in articleInput
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	a := models.Article{
		ID: id, Title: in.Title, Slug: in.Slug, Excerpt: in.Excerpt,
		Content: in.Content, Image: in.Image, SecondaryImage: in.SecondaryImage,
		ReadingTime: in.ReadingTime,
	}
	if err := h.registry.UpdateArticle(r.Context(), &a); err != nil {
		writeErr(w, err)
		return
	}
	writeMsg(w, http.StatusOK, "article updated")
}

func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	tally, err := h.cascade.DeleteContent(r.Context(), models.TypeArticle, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "article deleted", "deletedData": tally})
}
