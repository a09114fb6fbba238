package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"gamehub/internal/auth"
	"gamehub/internal/cascade"
	"gamehub/internal/config"
	"gamehub/internal/consistency"
	"gamehub/internal/content"
	"gamehub/internal/likes"
	"gamehub/internal/models"
	"gamehub/internal/users"
)

type Handler struct {
	db       *sql.DB
	cfg      config.Config
	sessions *auth.Manager
	registry *content.Registry
	users    *users.Store
	ledger   *likes.Ledger
	toggler  *likes.Toggler
	auditor  *consistency.Auditor
	resync   *consistency.Resynchronizer
	cascade  *cascade.Coordinator
}

func New(db *sql.DB, cfg config.Config, sessions *auth.Manager) *Handler {
	return &Handler{
		db:       db,
		cfg:      cfg,
		sessions: sessions,
		registry: content.NewRegistry(db),
		users:    users.NewStore(db),
		ledger:   likes.NewLedger(db),
		toggler:  likes.NewToggler(db),
		auditor:  consistency.NewAuditor(db),
		resync:   consistency.NewResynchronizer(db),
		cascade:  cascade.NewCoordinator(db),
	}
}

// --- JSON plumbing

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeErr maps engine errors onto the response taxonomy. Raw store errors
// never reach the client.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrNotFound), errors.Is(err, users.ErrNotFound),
		errors.Is(err, likes.ErrNotFound):
		writeMsg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, content.ErrForbidden):
		writeMsg(w, http.StatusForbidden, err.Error())
	case errors.Is(err, likes.ErrDuplicate):
		writeMsg(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrInvalidState):
		writeMsg(w, http.StatusConflict, err.Error())
	case errors.Is(err, content.ErrInvalidContentType):
		writeMsg(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrDuplicateSlug), errors.Is(err, users.ErrExists):
		writeMsg(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeMsg(w, http.StatusInternalServerError, "server error")
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// --- auth endpoints

type credentials struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func userPayload(u models.User) map[string]any {
	return map[string]any{"id": u.ID, "email": u.Email, "username": u.Username, "role": u.Role}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
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
	u := models.User{Email: in.Email, Username: in.Username, PasswordHash: hash}
	if err := h.users.Create(r.Context(), &u); err != nil {
		writeErr(w, err)
		return
	}
	if err := h.sessions.Create(w, u.ID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "account created", "user": userPayload(u)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	u, err := h.users.ByEmail(r.Context(), in.Email)
	if err != nil || !auth.CheckPassword(in.Password, u.PasswordHash) {
		writeMsg(w, http.StatusUnauthorized, "wrong email or password")
		return
	}
	if err := h.sessions.Create(w, u.ID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "logged in", "user": userPayload(u)})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w, r)
	writeMsg(w, http.StatusOK, "logged out")
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessions.CurrentUser(r)
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, userPayload(u))
}

type profileUpdate struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessions.CurrentUser(r)
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in profileUpdate
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	var newHash string
	if in.NewPassword != "" {
		full, err := h.users.ByID(r.Context(), u.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !auth.CheckPassword(in.CurrentPassword, full.PasswordHash) {
			writeMsg(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		newHash, err = auth.HashPassword(in.NewPassword)
		if err != nil {
			writeErr(w, err)
			return
		}
	}
	if err := h.users.UpdateProfile(r.Context(), u.ID, in.Username, newHash); err != nil {
		writeErr(w, err)
		return
	}
	writeMsg(w, http.StatusOK, "profile updated")
}

// deleteAccountConfirm is the phrase a user must type to delete their own
// account, carried over from the original client contract.
const deleteAccountConfirm = "DELETE MY ACCOUNT"

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sessions.CurrentUser(r)
	if !ok {
		writeMsg(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in struct {
		Password    string `json:"password"`
		ConfirmText string `json:"confirmText"`
	}
	if err := decode(r, &in); err != nil {
		writeMsg(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.ConfirmText != deleteAccountConfirm {
		writeMsg(w, http.StatusBadRequest, "deletion confirmation is incorrect")
		return
	}
	full, err := h.users.ByID(r.Context(), u.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !auth.CheckPassword(in.Password, full.PasswordHash) {
		writeMsg(w, http.StatusBadRequest, "password is incorrect")
		return
	}
	tally, err := h.cascade.DeleteUser(r.Context(), u.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.sessions.DestroyAllFor(u.ID)
	h.sessions.Destroy(w, r)
	writeJSON(w, http.StatusOK, map[string]any{"message": "account deleted", "deletedData": tally})
}
