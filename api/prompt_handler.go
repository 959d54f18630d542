package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
	"github.com/promptlib/backend/validation"
)

type promptHandler struct {
	responder     Responder
	logger        zerolog.Logger
	promptRepo    *database.PromptRepo
	promptTagRepo *database.PromptTagRepo
	validator     *validation.Validator
}

func newPromptHandler(promptRepo *database.PromptRepo, promptTagRepo *database.PromptTagRepo, validator *validation.Validator) promptHandler {
	logger := log.With().Str("handlerName", "promptHandler").Logger()

	return promptHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		promptRepo:    promptRepo,
		promptTagRepo: promptTagRepo,
		validator:     validator,
	}
}

// CreatePromptInput is the payload for creating a prompt
type CreatePromptInput struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Content       string  `json:"content" validate:"required,min=10"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	IsPublic      *bool   `json:"is_public,omitempty"`
	TagIDs        []uint  `json:"tag_ids"`
}

// UpdatePromptInput is the payload for a partial prompt update. TagIDs nil
// means "leave the tag set alone"; an empty slice clears it.
type UpdatePromptInput struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Content       *string `json:"content,omitempty" validate:"omitempty,min=10"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	IsPublic      *bool   `json:"is_public,omitempty"`
	IsFeatured    *bool   `json:"is_featured,omitempty"`
	TagIDs        *[]uint `json:"tag_ids,omitempty"`
}

// listPublicPrompts serves the browsing surface: only published prompts.
// @Summary List public prompts
// @Description Retrieves one page of public prompts with tags and author
// @Tags Prompts
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Param tagId query int false "Filter by tag id"
// @Param search query string false "Substring match on title or content"
// @Param sortBy query string false "created_at, title or view_count"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} database.PromptPage "One page of prompts"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /prompts [get]
func (h promptHandler) listPublicPrompts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := listParamsFromQuery(r)
		isPublic := true
		params.IsPublic = &isPublic

		page, err := h.promptRepo.List(params)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "prompts", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// listAllPrompts serves the admin listing; is_public becomes an optional
// filter instead of a fixed one.
func (h promptHandler) listAllPrompts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := listParamsFromQuery(r)
		if raw := r.URL.Query().Get("isPublic"); raw != "" {
			if isPublic, err := strconv.ParseBool(raw); err == nil {
				params.IsPublic = &isPublic
			}
		}

		page, err := h.promptRepo.List(params)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "prompts", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// getPrompt retrieves a specific public prompt by ID with its tags
// @Summary Get prompt
// @Description Retrieves a public prompt by ID with tags and author
// @Tags Prompts
// @Produce json
// @Param promptID path int true "Prompt ID"
// @Success 200 {object} models.Prompt "Prompt details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid promptID"
// @Failure 404 {object} ErrorResponse "Not Found - Prompt not found"
// @Router /prompt/{promptID} [get]
func (h promptHandler) getPrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, err := promptIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		prompt, err := h.promptRepo.FindByID(promptID, true)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "prompt", err))
			return
		}

		h.responder.WriteJSON(w, prompt)
	}
}

// recordView bumps a prompt's view counter. The increment happens inside
// the database, so concurrent views cannot under-count.
func (h promptHandler) recordView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, err := promptIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.promptRepo.IncrementViewCount(promptID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("increment view count for", "prompt", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "view recorded"})
	}
}

// debugPrompts mirrors the listing with its inputs and outputs echoed
// back, for diagnosing filter problems from the browser.
func (h promptHandler) debugPrompts() http.HandlerFunc {
	type debugInfo struct {
		Error         *string `json:"error"`
		PromptsLength int     `json:"promptsLength"`
		Total         int64   `json:"total"`
		TotalPages    int     `json:"totalPages"`
		CurrentPage   int     `json:"currentPage"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		params := listParamsFromQuery(r)
		if params.Limit <= 0 {
			params.Limit = 12
		}
		isPublic := true
		params.IsPublic = &isPublic

		page, err := h.promptRepo.List(params)
		if err != nil {
			errMsg := err.Error()
			h.logger.Error().Err(err).Msg("debug prompt listing failed")
			h.responder.WriteJSON(w, map[string]any{
				"success": false,
				"debug":   debugInfo{Error: &errMsg},
				"prompts": []*models.Prompt{},
				"total":   0,
			})
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"success": true,
			"debug": debugInfo{
				PromptsLength: len(page.Prompts),
				Total:         page.Total,
				TotalPages:    page.TotalPages,
				CurrentPage:   page.CurrentPage,
			},
			"prompts":     page.Prompts,
			"total":       page.Total,
			"currentPage": page.CurrentPage,
			"totalPages":  page.TotalPages,
		})
	}
}

// createPrompt creates a new prompt together with its tag relations
// @Summary Create prompt
// @Description Creates a prompt and its tag relations in one transaction
// @Tags Prompts
// @Accept json
// @Produce json
// @Param prompt body CreatePromptInput true "Prompt data"
// @Success 201 {object} models.Prompt "Created prompt with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid prompt data"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /prompt [post]
func (h promptHandler) createPrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreatePromptInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode prompt request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("prompt", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		isPublic := true
		if input.IsPublic != nil {
			isPublic = *input.IsPublic
		}

		prompt := models.Prompt{
			Title:         input.Title,
			Description:   input.Description,
			Content:       input.Content,
			CoverImageURL: input.CoverImageURL,
			IsPublic:      isPublic,
		}

		if claims, err := ctxGetSession(r.Context()); err == nil {
			authorID := claims.Subject
			prompt.AuthorID = &authorID
		}

		if err := h.promptRepo.CreateWithTags(&prompt, input.TagIDs); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "prompt", err))
			return
		}

		// Reload to pick up tags and author
		created, err := h.promptRepo.FindByID(prompt.ID, false)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "prompt", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, created)
	}
}

// updatePrompt updates an existing prompt
// @Summary Update prompt
// @Description Applies a partial update; when tag_ids is present the tag set is replaced
// @Tags Prompts
// @Accept json
// @Produce json
// @Param promptID path int true "Prompt ID"
// @Param prompt body UpdatePromptInput true "Updated prompt data"
// @Success 200 {object} models.Prompt "Updated prompt with tags"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid prompt data"
// @Failure 404 {object} ErrorResponse "Not Found - Prompt not found"
// @Router /prompt/{promptID} [put]
func (h promptHandler) updatePrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, err := promptIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input UpdatePromptInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode prompt request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("prompt", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields := map[string]any{}
		if input.Title != nil {
			fields["title"] = *input.Title
		}
		if input.Description != nil {
			fields["description"] = *input.Description
		}
		if input.Content != nil {
			fields["content"] = *input.Content
		}
		if input.CoverImageURL != nil {
			fields["cover_image_url"] = *input.CoverImageURL
		}
		if input.IsPublic != nil {
			fields["is_public"] = *input.IsPublic
		}
		if input.IsFeatured != nil {
			fields["is_featured"] = *input.IsFeatured
		}

		if len(fields) > 0 {
			if err := h.promptRepo.Update(promptID, fields); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("update", "prompt", err))
				return
			}
		}

		if input.TagIDs != nil {
			if err := h.promptTagRepo.ReplaceForPrompt(promptID, *input.TagIDs); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("replace tags for", "prompt", err))
				return
			}
		}

		updated, err := h.promptRepo.FindByID(promptID, false)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "prompt", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

// togglePromptStatus flips the published flag of a prompt.
func (h promptHandler) togglePromptStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, err := promptIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		prompt, err := h.promptRepo.FindByID(promptID, false)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "prompt", err))
			return
		}

		if err := h.promptRepo.SetPublic(promptID, !prompt.IsPublic); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update status of", "prompt", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":    "success",
			"is_public": !prompt.IsPublic,
		})
	}
}

// deletePrompt deletes a prompt by ID
// @Summary Delete prompt
// @Description Deletes a prompt; join rows and copy events follow database cascade rules
// @Tags Prompts
// @Produce json
// @Param promptID path int true "Prompt ID"
// @Success 200 {object} StatusResponse "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Prompt not found"
// @Router /prompt/{promptID} [delete]
func (h promptHandler) deletePrompt() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, err := promptIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		// Verify prompt exists
		if _, err := h.promptRepo.FindByID(promptID, false); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "prompt", err))
			return
		}

		if err := h.promptRepo.Delete(promptID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "prompt", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: "prompt deleted successfully",
		})
	}
}

// listParamsFromQuery reads the shared listing parameters from the query
// string. Unparsable values fall back to defaults.
func listParamsFromQuery(r *http.Request) database.ListPromptsParams {
	q := r.URL.Query()

	params := database.ListPromptsParams{
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	if tagID, err := strconv.ParseUint(q.Get("tagId"), 10, 32); err == nil {
		id := uint(tagID)
		params.TagID = &id
	}
	return params
}

func promptIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "promptID")
	if raw == "" {
		return 0, errs.NewBadRequestError("missing promptID")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid promptID")
	}
	return uint(id), nil
}
