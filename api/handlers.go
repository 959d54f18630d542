package api

import (
	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/services"
	"github.com/promptlib/backend/validation"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, tokens *services.TokenManager, oauth *services.OAuthService, baseURL string) *routeHandlers {
	validator := validation.New()

	return &routeHandlers{
		promptHandler:   newPromptHandler(database.PromptRepo(), database.PromptTagRepo(), validator),
		tagHandler:      newTagHandler(database.TagRepo(), database.PromptTagRepo(), validator),
		userHandler:     newUserHandler(database.ProfileRepo(), validator),
		copyHandler:     newCopyHandler(database.CopyEventRepo(), database.PromptRepo()),
		settingsHandler: newSettingsHandler(database.SettingsRepo(), validator),
		authHandler:     newAuthHandler(database.ProfileRepo(), tokens, oauth),
		sitemapHandler:  newSitemapHandler(database.PromptRepo(), database.TagRepo(), baseURL),
	}
}
