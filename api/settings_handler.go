package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
	"github.com/promptlib/backend/validation"
)

type settingsHandler struct {
	responder    Responder
	logger       zerolog.Logger
	settingsRepo *database.SettingsRepo
	validator    *validation.Validator
}

func newSettingsHandler(settingsRepo *database.SettingsRepo, validator *validation.Validator) settingsHandler {
	logger := log.With().Str("handlerName", "settingsHandler").Logger()

	return settingsHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		settingsRepo: settingsRepo,
		validator:    validator,
	}
}

// UpdateSettingsInput is a partial settings payload; absent fields keep
// their current values.
type UpdateSettingsInput struct {
	CopySuccessMessage     *string `json:"copy_success_message,omitempty"`
	SiteName               *string `json:"site_name,omitempty"`
	SiteDescription        *string `json:"site_description,omitempty"`
	AllowPublicSubmissions *bool   `json:"allow_public_submissions,omitempty"`
	RequireApproval        *bool   `json:"require_approval,omitempty"`
}

// getSettings returns the site configuration, defaults included.
func (h settingsHandler) getSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := h.settingsRepo.Load()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "settings", err))
			return
		}

		h.responder.WriteJSON(w, settings)
	}
}

// updateSettings merges the payload over the stored settings and upserts
// @Summary Update settings
// @Description Merges the provided fields over the current site settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body UpdateSettingsInput true "Settings fields to change"
// @Success 200 {object} models.SiteSettings "Updated settings"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid settings"
// @Router /admin/settings [put]
func (h settingsHandler) updateSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input UpdateSettingsInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode settings request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("settings", err))
			return
		}

		current, err := h.settingsRepo.Load()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "settings", err))
			return
		}

		merged := mergeSettings(current, input)
		if err := h.validator.Validate(merged); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.settingsRepo.Save(merged); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("save", "settings", err))
			return
		}

		h.responder.WriteJSON(w, merged)
	}
}

func mergeSettings(current models.SiteSettings, input UpdateSettingsInput) models.SiteSettings {
	if input.CopySuccessMessage != nil {
		current.CopySuccessMessage = *input.CopySuccessMessage
	}
	if input.SiteName != nil {
		current.SiteName = *input.SiteName
	}
	if input.SiteDescription != nil {
		current.SiteDescription = *input.SiteDescription
	}
	if input.AllowPublicSubmissions != nil {
		current.AllowPublicSubmissions = *input.AllowPublicSubmissions
	}
	if input.RequireApproval != nil {
		current.RequireApproval = *input.RequireApproval
	}
	return current
}
