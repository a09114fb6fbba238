package handlers

import (
	"net/http"
	"strconv"

	"gamehub/internal/models"
)

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r, 10)
	items, total, err := h.registry.ListReviews(r.Context(), page, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews":    items,
		"pagination": pagination(page, limit, total),
	})
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.registry.ReviewByRef(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"review": rv})
}

type reviewInput struct {
	articleInput
	GameTitle string `json:"gameTitle"`
	Platform  string `json:"platform"`
	Genre     string `json:"genre"`
	Rating    int    `json:"rating"`
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request, u models.User) {
	var in reviewInput
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Title == "" || in.Slug == "" {
		writeMsg(w, http.StatusBadRequest, "title and slug are required")
		return
	}
	if in.Rating < 0 || in.Rating > 10 {
		writeMsg(w, http.StatusBadRequest, "rating must be between 0 and 10")
		return
	}
	rv := models.Review{
		AuthorID: u.ID, Title: in.Title, Slug: in.Slug, Excerpt: in.Excerpt,
		Content: in.Content, Image: in.Image, SecondaryImage: in.SecondaryImage,
		ReadingTime: in.ReadingTime, GameTitle: in.GameTitle, Platform: in.Platform,
		Genre: in.Genre, Rating: in.Rating, Author: u.Username,
	}
	if err := h.registry.CreateReview(r.Context(), &rv); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "review created", "review": rv})
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	var in reviewInput
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Rating < 0 || in.Rating > 10 {
		writeMsg(w, http.StatusBadRequest, "rating must be between 0 and 10")
		return
	}
	rv := models.Review{
		ID: id, Title: in.Title, Slug: in.Slug, Excerpt: in.Excerpt,
		Content: in.Content, Image: in.Image, SecondaryImage: in.SecondaryImage,
		ReadingTime: in.ReadingTime, GameTitle: in.GameTitle, Platform: in.Platform,
		Genre: in.Genre, Rating: in.Rating,
	}
	if err := h.registry.UpdateReview(r.Context(), &rv); err != nil {
		writeErr(w, err)
		return
	}
	writeMsg(w, http.StatusOK, "review updated")
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	tally, err := h.cascade.DeleteContent(r.Context(), models.TypeReview, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "review deleted", "deletedData": tally})
}
