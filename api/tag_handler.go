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

type tagHandler struct {
	responder     Responder
	logger        zerolog.Logger
	tagRepo       *database.TagRepo
	promptTagRepo *database.PromptTagRepo
	validator     *validation.Validator
}

func newTagHandler(tagRepo *database.TagRepo, promptTagRepo *database.PromptTagRepo, validator *validation.Validator) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		tagRepo:       tagRepo,
		promptTagRepo: promptTagRepo,
		validator:     validator,
	}
}

// CreateTagInput is the payload for creating a tag
type CreateTagInput struct {
	Name  string `json:"name" validate:"required,max=50"`
	Slug  string `json:"slug" validate:"required,max=50,slug"`
	Color string `json:"color,omitempty"`
}

// UpdateTagInput is the payload for a partial tag update
type UpdateTagInput struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=50"`
	Slug  *string `json:"slug,omitempty" validate:"omitempty,min=1,max=50,slug"`
	Color *string `json:"color,omitempty"`
}

// TagCollection wraps a tag list
type TagCollection struct {
	Tags  any `json:"tags"`
	Total int `json:"total,omitempty"`
}

// getAllTags retrieves all tags ordered by name
// @Summary Get all tags
// @Description Retrieves all tags from the database ordered by name
// @Tags Tags
// @Produce json
// @Success 200 {object} TagCollection "List of tags"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /tags [get]
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

// getTagsWithStats returns every tag with its prompt count from a single
// aggregate query.
func (h tagHandler) getTagsWithStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.ListWithStats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "tag stats", err))
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

// getPopularTags returns the most-used tags, busiest first.
func (h tagHandler) getPopularTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		tags, err := h.tagRepo.Popular(limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "popular tags", err))
			return
		}

		h.responder.WriteJSON(w, TagCollection{Tags: tags, Total: len(tags)})
	}
}

// getTagBySlug resolves a tag by its URL alias.
func (h tagHandler) getTagBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		tag, err := h.tagRepo.FindBySlug(slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tag", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// createTag creates a new tag
// @Summary Create tag
// @Description Creates a tag after checking name and slug uniqueness
// @Tags Tags
// @Accept json
// @Produce json
// @Param tag body CreateTagInput true "Tag data"
// @Success 201 {object} models.Tag "Created tag"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid tag data"
// @Failure 409 {object} ErrorResponse "Conflict - Name or slug already taken"
// @Router /tag [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateTagInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("tag", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		color := input.Color
		if color == "" {
			color = "blue"
		}

		tag := models.Tag{
			Name:  input.Name,
			Slug:  input.Slug,
			Color: color,
		}

		if err := h.tagRepo.Add(&tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "tag", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

// updateTag updates an existing tag
// @Summary Update tag
// @Description Applies a partial tag update with uniqueness pre-checks excluding the tag itself
// @Tags Tags
// @Accept json
// @Produce json
// @Param tagID path int true "Tag ID"
// @Param tag body UpdateTagInput true "Updated tag data"
// @Success 200 {object} models.Tag "Updated tag"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Failure 409 {object} ErrorResponse "Conflict - Name or slug already taken"
// @Router /tag/{tagID} [put]
func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := tagIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input UpdateTagInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode tag request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("tag", err))
			return
		}

		if err := h.validator.Validate(input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		fields := map[string]any{}
		if input.Name != nil {
			fields["name"] = *input.Name
		}
		if input.Slug != nil {
			fields["slug"] = *input.Slug
		}
		if input.Color != nil {
			fields["color"] = *input.Color
		}
		if len(fields) == 0 {
			h.responder.WriteError(w, errs.NewBadRequestError("no fields to update"))
			return
		}

		if err := h.tagRepo.Update(tagID, fields); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "tag", err))
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "tag", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag deletes a tag unless any prompt still references it
// @Summary Delete tag
// @Description Refuses deletion while the tag is attached to any prompt
// @Tags Tags
// @Produce json
// @Param tagID path int true "Tag ID"
// @Success 200 {object} StatusResponse "Success message"
// @Failure 409 {object} ErrorResponse "Conflict - Tag still in use"
// @Router /tag/{tagID} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := tagIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		inUse, err := h.promptTagRepo.CountByTag(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check usage of", "tag", err))
			return
		}
		if inUse > 0 {
			h.responder.WriteError(w, errs.NewTagInUseError())
			return
		}

		if err := h.tagRepo.Delete(tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "tag", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{
			Status:  "success",
			Message: "tag deleted successfully",
		})
	}
}

func tagIDParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "tagID")
	if raw == "" {
		return 0, errs.NewBadRequestError("missing tagID")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid tagID")
	}
	return uint(id), nil
}
