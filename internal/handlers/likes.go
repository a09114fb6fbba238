package handlers

import (
	"net/http"
	"strconv"

	"gamehub/internal/likes"
	"gamehub/internal/models"
)

func likeTarget(r *http.Request) (models.ContentType, int64) {
	t := models.ContentType(r.PathValue("type"))
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return t, id
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request, u models.User) {
	t, id := likeTarget(r)
	res, err := h.toggler.Toggle(r.Context(), u.ID, t, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	msg := "like removed"
	if res.Liked {
		msg = "like added"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msg, "liked": res.Liked, "likeCount": res.LikeCount,
	})
}

// LikeStatus works for anonymous visitors too: liked is simply false.
func (h *Handler) LikeStatus(w http.ResponseWriter, r *http.Request) {
	t, id := likeTarget(r)
	viewer, _ := h.sessions.CurrentUser(r)
	res, err := h.toggler.Status(r.Context(), viewer.ID, t, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ContentLikes(w http.ResponseWriter, r *http.Request, u models.User) {
	t, id := likeTarget(r)
	list, err := h.ledger.ListFor(r.Context(), t, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contentType": t, "contentId": id, "likeCount": len(list), "likes": list,
	})
}

func (h *Handler) LikeStats(w http.ResponseWriter, r *http.Request, u models.User) {
	stats, err := likes.GatherStats(r.Context(), h.db)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
