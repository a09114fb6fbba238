package handlers

import (
	"net/http"
	"strconv"

	"gamehub/internal/models"
)

type commentView struct {
	models.Comment
	IsLiked   bool `json:"isLiked"`
	CanDelete bool `json:"canDelete"`
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request, target models.ContentType) {
	targetID, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	page, limit := pageParams(r, 5)
	byLikes := r.URL.Query().Get("sortBy") == "likes"

	items, total, err := h.registry.ListComments(r.Context(), target, targetID, page, limit, byLikes)
	if err != nil {
		writeErr(w, err)
		return
	}

	// The liked flag is per-viewer; anonymous visitors always see false.
	viewer, _ := h.sessions.CurrentUser(r)
	out := make([]commentView, 0, len(items))
	for _, c := range items {
		liked, err := h.ledger.IsLikedBy(r.Context(), viewer.ID, models.TypeComment, c.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		out = append(out, commentView{
			Comment:   c,
			IsLiked:   liked,
			CanDelete: viewer.ID != 0 && (c.AuthorID == viewer.ID || viewer.IsAdmin()),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"comments":   out,
		"pagination": pagination(page, limit, total),
	})
}

func (h *Handler) ArticleComments(w http.ResponseWriter, r *http.Request) {
	h.listComments(w, r, models.TypeArticle)
}

func (h *Handler) ReviewComments(w http.ResponseWriter, r *http.Request) {
	h.listComments(w, r, models.TypeReview)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request, u models.User) {
	var in struct {
		Content   string `json:"content"`
		ArticleID *int64 `json:"articleId"`
		ReviewID  *int64 `json:"reviewId"`
		ParentID  *int64 `json:"parentCommentId"`
	}
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Content == "" || len(in.Content) > 1000 {
		writeMsg(w, http.StatusBadRequest, "content must be 1-1000 characters")
		return
	}
	c := models.Comment{
		AuthorID: u.ID, ArticleID: in.ArticleID, ReviewID: in.ReviewID,
		ParentID: in.ParentID, Content: in.Content, Author: u.Username,
	}
	if err := h.registry.CreateComment(r.Context(), &c); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "comment added", "comment": c})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	res, err := h.cascade.DeleteComment(r.Context(), id, u)
	if err != nil {
		writeErr(w, err)
		return
	}
	msg := "comment deleted, replies retained"
	if res.HardDeleted {
		msg = "comment deleted permanently"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msg, "deleted": true, "hardDeleted": res.HardDeleted,
	})
}

func (h *Handler) ForceDeleteComment(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	_, err := h.cascade.ForceDeleteComment(r.Context(), id, u)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "comment deleted permanently", "deleted": true, "hardDeleted": true,
	})
}
