package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public browsing surface, the authenticated
// profile route, and the admin back-office.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/prompts", handlers.promptHandler.listPublicPrompts())
		r.Get("/prompt/{promptID}", handlers.promptHandler.getPrompt())
		r.Post("/prompt/{promptID}/view", handlers.promptHandler.recordView())
		r.Get("/api/debug-prompts", handlers.promptHandler.debugPrompts())

		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Get("/tags/stats", handlers.tagHandler.getTagsWithStats())
		r.Get("/tags/popular", handlers.tagHandler.getPopularTags())
		r.Get("/tag/{slug}", handlers.tagHandler.getTagBySlug())

		r.Post("/copy", handlers.copyHandler.trackCopy())

		r.Get("/settings", handlers.settingsHandler.getSettings())
		r.Get("/sitemap.xml", handlers.sitemapHandler.getSitemap())

		r.Post("/auth/login", handlers.authHandler.login())
		r.Get("/auth/callback", handlers.authHandler.oauthCallback())
	})

	// Authenticated self-service routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Put("/profile", handlers.userHandler.updateOwnProfile())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)
		r.Use(authMiddleware.adminOnly)

		r.Get("/admin/prompts", handlers.promptHandler.listAllPrompts())
		r.Post("/prompt", handlers.promptHandler.createPrompt())
		r.Put("/prompt/{promptID}", handlers.promptHandler.updatePrompt())
		r.Patch("/prompt/{promptID}/status", handlers.promptHandler.togglePromptStatus())
		r.Delete("/prompt/{promptID}", handlers.promptHandler.deletePrompt())

		r.Post("/tag", handlers.tagHandler.createTag())
		r.Put("/tag/{tagID}", handlers.tagHandler.updateTag())
		r.Delete("/tag/{tagID}", handlers.tagHandler.deleteTag())

		r.Get("/admin/users", handlers.userHandler.getUsers())
		r.Get("/admin/users/stats", handlers.userHandler.getUserStats())
		r.Post("/admin/users", handlers.userHandler.createUser())
		r.Get("/admin/user/{userID}", handlers.userHandler.getUser())
		r.Put("/admin/user/{userID}", handlers.userHandler.updateUser())
		r.Post("/admin/user/{userID}/ban", handlers.userHandler.banUser())
		r.Post("/admin/user/{userID}/unban", handlers.userHandler.unbanUser())
		r.Post("/admin/user/{userID}/reset-password", handlers.userHandler.resetUserPassword())

		r.Get("/admin/copy-stats", handlers.copyHandler.getCopyStats())
		r.Get("/admin/copy-stats/popular", handlers.copyHandler.getPopularPrompts())
		r.Get("/admin/copy-events/export", handlers.copyHandler.exportCopyEvents())

		r.Put("/admin/settings", handlers.settingsHandler.updateSettings())
	})
}
