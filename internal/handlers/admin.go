package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"gamehub/internal/auth"
	"gamehub/internal/consistency"
	"gamehub/internal/models"
)

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request, u models.User) {
	list, err := h.users.List(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	admins := 0
	out := make([]map[string]any, 0, len(list))
	for _, usr := range list {
		if usr.IsAdmin() {
			admins++
		}
		out = append(out, userPayload(usr))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": out,
		"stats": map[string]int{
			"total":    len(list),
			"admins":   admins,
			"visitors": len(list) - admins,
		},
	})
}

func (h *Handler) PromoteUser(w http.ResponseWriter, r *http.Request, u models.User) {
	var in struct {
		UserID int64  `json:"userId"`
		Email  string `json:"email"`
	}
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.UserID == 0 && in.Email != "" {
		target, err := h.users.ByEmail(r.Context(), in.Email)
		if err != nil {
			writeErr(w, err)
			return
		}
		in.UserID = target.ID
	}
	if in.UserID == 0 {
		writeMsg(w, http.StatusBadRequest, "userId or email is required")
		return
	}
	promoted, err := h.users.Promote(r.Context(), in.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "user promoted to admin", "user": userPayload(promoted),
	})
}

// FirstAdmin bootstraps the very first admin account. It is gated by the
// configured secret and refused as soon as any admin exists.
func (h *Handler) FirstAdmin(w http.ResponseWriter, r *http.Request) {
	if h.cfg.FirstAdminSecret == "" {
		writeMsg(w, http.StatusServiceUnavailable, "server configuration incomplete")
		return
	}
	var in struct {
		credentials
		SecretKey string `json:"secretKey"`
	}
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.SecretKey != h.cfg.FirstAdminSecret {
		writeMsg(w, http.StatusForbidden, "invalid secret key")
		return
	}
	exists, err := h.users.AdminExists(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if exists {
		writeMsg(w, http.StatusBadRequest, "an administrator already exists")
		return
	}
	if in.Email == "" || len(in.Password) < 6 {
		writeMsg(w, http.StatusBadRequest, "email and a password of at least 6 characters are required")
		return
	}
	if in.Username == "" {
		in.Username = strings.SplitN(in.Email, "@", 2)[0]
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	admin := models.User{Email: in.Email, Username: in.Username, PasswordHash: hash, Role: models.RoleAdmin}
	if err := h.users.Create(r.Context(), &admin); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "first administrator created", "admin": userPayload(admin),
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, u models.User) {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if id == u.ID {
		writeMsg(w, http.StatusBadRequest, "use the account endpoint to delete your own account")
		return
	}
	var in struct {
		ConfirmAction bool `json:"confirmAction"`
	}
	if err := decode(r, &in); err != nil || !in.ConfirmAction {
		writeMsg(w, http.StatusBadRequest, "deletion confirmation is required")
		return
	}
	tally, err := h.cascade.DeleteUser(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.sessions.DestroyAllFor(id)
	writeJSON(w, http.StatusOK, map[string]any{"message": "user deleted", "deletedData": tally})
}

func (h *Handler) AuditConsistency(w http.ResponseWriter, r *http.Request, u models.User) {
	rep, err := h.auditor.Audit(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *Handler) ResyncCounters(w http.ResponseWriter, r *http.Request, u models.User) {
	res, err := h.resync.Resync(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	msg := "all counters were already in sync"
	if res.Total > 0 {
		msg = "counters resynchronized"
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg, "fixed": res})
}

func (h *Handler) CleanupOrphanedLikes(w http.ResponseWriter, r *http.Request, u models.User) {
	n, err := consistency.CleanupOrphans(r.Context(), h.db)
	if err != nil {
		writeErr(w, err)
		return
	}
	msg := "no orphaned likes found"
	if n > 0 {
		msg = "orphaned likes removed"
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg, "cleaned": n})
}
