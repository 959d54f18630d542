package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
	"github.com/promptlib/backend/services"
	"github.com/promptlib/backend/validation"
)

type userHandler struct {
	responder   Responder
	logger      zerolog.Logger
	profileRepo *database.ProfileRepo
	validator   *validation.Validator
}

func newUserHandler(profileRepo *database.ProfileRepo, validator *validation.Validator) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		profileRepo: profileRepo,
		validator:   validator,
	}
}

// CreateUserInput is the payload for creating an account
type CreateUserInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=user admin"`
}

// UpdateUserInput is the payload for a partial profile update by an admin
type UpdateUserInput struct {
	Username           *string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	AvatarURL          *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Role               *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Status             *string `json:"status,omitempty" validate:"omitempty,oneof=active banned"`
	MustChangePassword *bool   `json:"must_change_password,omitempty"`
}

// UpdateOwnProfileInput is the payload for self-service profile edits
type UpdateOwnProfileInput struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// getUsers retrieves one page of profiles
// @Summary List users
// @Description Retrieves profiles filtered by role, status and username search
// @Tags Users
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param role query string false "user or admin"
// @Param status query string false "active or banned"
// @Param search query string false "Substring match on username or email"
// @Success 200 {object} database.ProfilePage "One page of users"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /admin/users [get]
func (h userHandler) getUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := database.ListProfilesParams{
			Role:   q.Get("role"),
			Status: q.Get("status"),
			Search: q.Get("search"),
		}
		if page, err := strconv.Atoi(q.Get("page")); err == nil {
			params.Page = page
		}
		if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
			params.Limit = limit
		}

		page, err := h.profileRepo.List(params)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "users", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// getUserStats aggregates profile counts for the admin dashboard.
func (h userHandler) getUserStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.profileRepo.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "user stats", err))
			return
		}

		h.responder.WriteJSON(w, stats)
	}
}

// getUser retrieves a single profile by id.
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing userID"))
			return
		}

		user, err := h.profileRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// updateUser applies a partial profile update on behalf of an admin.
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing userID"))
			return
		}

		var input UpdateUserInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode user request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("user", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields := map[string]any{}
		if input.Username != nil {
			fields["username"] = *input.Username
		}
		if input.AvatarURL != nil {
			fields["avatar_url"] = *input.AvatarURL
		}
		if input.Role != nil {
			fields["role"] = *input.Role
		}
		if input.Status != nil {
			fields["status"] = *input.Status
		}
		if input.MustChangePassword != nil {
			fields["must_change_password"] = *input.MustChangePassword
		}
		if len(fields) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		if err := h.profileRepo.Update(userID, fields); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}

		user, err := h.profileRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// banUser sets a profile's status to banned. Their session tokens age out
// on their own expiry; the status check at login blocks new ones.
func (h userHandler) banUser() http.HandlerFunc {
	return h.setStatus(models.StatusBanned, "user banned successfully")
}

// unbanUser restores a banned profile to active.
func (h userHandler) unbanUser() http.HandlerFunc {
	return h.setStatus(models.StatusActive, "user unbanned successfully")
}

func (h userHandler) setStatus(status, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing userID"))
			return
		}

		if err := h.profileRepo.SetStatus(userID, status); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update status of", "user", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: message})
	}
}

// resetUserPassword generates a temporary password, stores its hash, and
// emails it to the user. The password never appears in the response.
func (h userHandler) resetUserPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing userID"))
			return
		}

		user, err := h.profileRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		tempPassword, err := services.GenerateTempPassword(12)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to generate temporary password"))
			return
		}
		hash, err := services.HashPassword(tempPassword)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash temporary password"))
			return
		}

		// Resetting also re-activates a banned account.
		err = h.profileRepo.Update(userID, map[string]any{
			"password_hash":        hash,
			"must_change_password": true,
			"status":               models.StatusActive,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("reset password of", "user", err))
			return
		}

		if user.Email != nil && *user.Email != "" {
			if err := services.SendPasswordResetEmail(user.Username, *user.Email, tempPassword); err != nil {
				// The reset itself succeeded; the admin can re-send.
				h.logger.Error().Err(err).Str("userID", userID).Msg("Failed to send password reset email")
			}
		}

		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: "password reset; the user must change it at next sign-in",
		})
	}
}

// createUser provisions a new profile with a hashed password
// @Summary Create user
// @Description Creates a profile with the requested role
// @Tags Users
// @Accept json
// @Produce json
// @Param user body CreateUserInput true "User data"
// @Success 201 {object} models.Profile "Created profile"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid user data"
// @Failure 409 {object} ErrorResponse "Conflict - Username already exists"
// @Router /admin/users [post]
func (h userHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateUserInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode user request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("user", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := services.HashPassword(input.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		email := input.Email
		profile := models.Profile{
			ID:           uuid.New().String(),
			Username:     input.Username,
			Email:        &email,
			Role:         input.Role,
			Status:       models.StatusActive,
			PasswordHash: hash,
		}

		if err := h.profileRepo.Add(&profile); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, profile)
	}
}

// updateOwnProfile lets a signed-in user edit their username and avatar.
func (h userHandler) updateOwnProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		var input UpdateOwnProfileInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode profile request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("profile", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields := map[string]any{}
		if input.Username != nil {
			fields["username"] = *input.Username
		}
		if input.AvatarURL != nil {
			fields["avatar_url"] = *input.AvatarURL
		}
		if len(fields) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		if err := h.profileRepo.Update(claims.Subject, fields); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "profile", err))
			return
		}

		user, err := h.profileRepo.FindByID(claims.Subject)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "profile", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}
