package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
	"github.com/promptlib/backend/services"
)

type authHandler struct {
	responder   Responder
	logger      zerolog.Logger
	profileRepo *database.ProfileRepo
	tokens      *services.TokenManager
	oauth       *services.OAuthService
}

func newAuthHandler(profileRepo *database.ProfileRepo, tokens *services.TokenManager, oauth *services.OAuthService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		profileRepo: profileRepo,
		tokens:      tokens,
		oauth:       oauth,
	}
}

// LoginInput is the credential payload for password sign-in
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token plus the signed-in profile
type LoginResponse struct {
	Token              string          `json:"token"`
	User               *models.Profile `json:"user"`
	MustChangePassword bool            `json:"must_change_password"`
}

// login verifies credentials and issues a session token
// @Summary Log in
// @Description Verifies username and password and returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Credentials"
// @Success 200 {object} LoginResponse "Session token and profile"
// @Failure 401 {object} ErrorResponse "Unauthorized - Bad credentials"
// @Failure 403 {object} ErrorResponse "Forbidden - Account banned"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode login request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("credentials", err))
			return
		}
		if input.Username == "" || input.Password == "" {
			h.responder.WriteError(w, errs.NewBadCredentialError())
			return
		}

		profile, err := h.profileRepo.FindByUsername(input.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewBadCredentialError())
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		if profile.Status == models.StatusBanned {
			h.responder.WriteError(w, errs.NewUserBannedError())
			return
		}
		if !services.CheckPassword(profile.PasswordHash, input.Password) {
			h.responder.WriteError(w, errs.NewBadCredentialError())
			return
		}

		token, err := h.tokens.Issue(profile)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to sign session token")
			h.responder.WriteError(w, errs.NewInternalError("failed to issue session token"))
			return
		}

		h.responder.WriteJSON(w, LoginResponse{
			Token:              token,
			User:               profile,
			MustChangePassword: profile.MustChangePassword,
		})
	}
}

// oauthCallback completes the provider round trip: exchanges the code,
// provisions a profile on first sight, and redirects back to the app.
// Failures redirect to the login page with an error code, never a JSON
// body, because the browser arrives here directly from the provider.
func (h authHandler) oauthCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		redirectTo := q.Get("redirect_to")
		if redirectTo == "" || !strings.HasPrefix(redirectTo, "/") {
			redirectTo = "/admin"
		}

		if providerErr := q.Get("error"); providerErr != "" {
			h.logger.Warn().Str("error", providerErr).Msg("OAuth provider returned an error")
			h.redirectWithError(w, r, providerErr)
			return
		}

		code := q.Get("code")
		if code == "" {
			h.redirectWithError(w, r, "missing_code")
			return
		}
		if h.oauth == nil {
			h.redirectWithError(w, r, "oauth_not_configured")
			return
		}

		info, err := h.oauth.Exchange(r.Context(), code)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to exchange OAuth code")
			h.redirectWithError(w, r, "exchange_failed")
			return
		}

		if _, err := h.profileRepo.FindByID(info.ID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				h.redirectWithError(w, r, "server_error")
				return
			}
			if err := h.provisionProfile(info); err != nil {
				h.logger.Error().Err(err).Msg("Failed to provision OAuth profile")
				h.redirectWithError(w, r, "server_error")
				return
			}
		}

		http.Redirect(w, r, redirectTo, http.StatusFound)
	}
}

func (h authHandler) provisionProfile(info *services.OAuthUserInfo) error {
	username := info.Name
	if username == "" {
		username = strings.SplitN(info.Email, "@", 2)[0]
	}
	if username == "" {
		username = "user-" + uuid.New().String()[:8]
	}

	profile := models.Profile{
		ID:       info.ID,
		Username: username,
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	if info.Email != "" {
		profile.Email = &info.Email
	}
	if info.Picture != "" {
		profile.AvatarURL = &info.Picture
	}
	return h.profileRepo.Add(&profile)
}

func (h authHandler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(code), http.StatusFound)
}
