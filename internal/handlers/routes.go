package handlers

import "net/http"

// Routes wires every endpoint onto a fresh mux. The server wraps the result
// with WithRecover.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// auth
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/profile", h.Profile)
	mux.HandleFunc("PUT /api/auth/profile", h.UpdateProfile)
	mux.HandleFunc("DELETE /api/auth/account", h.DeleteAccount)

	// articles
	mux.HandleFunc("GET /api/articles", h.ListArticles)
	mux.HandleFunc("GET /api/articles/{ref}", h.GetArticle)
	mux.HandleFunc("POST /api/articles", h.RequireAdmin(h.CreateArticle))
	mux.HandleFunc("PUT /api/articles/{id}", h.RequireAdmin(h.UpdateArticle))
	mux.HandleFunc("DELETE /api/articles/{id}", h.RequireAdmin(h.DeleteArticle))

	// reviews
	mux.HandleFunc("GET /api/reviews", h.ListReviews)
	mux.HandleFunc("GET /api/reviews/{ref}", h.GetReview)
	mux.HandleFunc("POST /api/reviews", h.RequireAdmin(h.CreateReview))
	mux.HandleFunc("PUT /api/reviews/{id}", h.RequireAdmin(h.UpdateReview))
	mux.HandleFunc("DELETE /api/reviews/{id}", h.RequireAdmin(h.DeleteReview))

	// comments
	mux.HandleFunc("GET /api/articles/{id}/comments", h.ArticleComments)
	mux.HandleFunc("GET /api/reviews/{id}/comments", h.ReviewComments)
	mux.HandleFunc("POST /api/comments", h.RequireAuth(h.CreateComment))
	mux.HandleFunc("DELETE /api/comments/{id}", h.RequireAuth(h.DeleteComment))
	mux.HandleFunc("DELETE /api/comments/{id}/force", h.RequireAuth(h.ForceDeleteComment))

	// likes
	mux.HandleFunc("POST /api/likes/{type}/{id}", h.RequireAuth(h.ToggleLike))
	mux.HandleFunc("GET /api/likes/{type}/{id}", h.LikeStatus)
	mux.HandleFunc("GET /api/likes/{type}/{id}/users", h.RequireAdmin(h.ContentLikes))

	// admin
	mux.HandleFunc("GET /api/admin/users", h.RequireAdmin(h.ListUsers))
	mux.HandleFunc("POST /api/admin/users/promote", h.RequireAdmin(h.PromoteUser))
	mux.HandleFunc("POST /api/admin/first-admin", h.FirstAdmin)
	mux.HandleFunc("DELETE /api/admin/users/{id}", h.RequireAdmin(h.DeleteUser))
	mux.HandleFunc("GET /api/admin/likes/stats", h.RequireAdmin(h.LikeStats))
	mux.HandleFunc("GET /api/admin/likes/audit", h.RequireAdmin(h.AuditConsistency))
	mux.HandleFunc("POST /api/admin/likes/resync", h.RequireAdmin(h.ResyncCounters))
	mux.HandleFunc("POST /api/admin/likes/cleanup", h.RequireAdmin(h.CleanupOrphanedLikes))

	return mux
}
