package api

import (
	"encoding/csv"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
)

type copyHandler struct {
	responder     Responder
	logger        zerolog.Logger
	copyEventRepo *database.CopyEventRepo
	promptRepo    *database.PromptRepo
}

func newCopyHandler(copyEventRepo *database.CopyEventRepo, promptRepo *database.PromptRepo) copyHandler {
	logger := log.With().Str("handlerName", "copyHandler").Logger()

	return copyHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		copyEventRepo: copyEventRepo,
		promptRepo:    promptRepo,
	}
}

// TrackCopyInput is the payload for recording a copy-to-clipboard action.
// UserID is set by the client when the visitor is signed in.
type TrackCopyInput struct {
	PromptID uint    `json:"prompt_id"`
	UserID   *string `json:"user_id,omitempty"`
}

// trackCopy records one copy event and bumps the prompt's copy counter
// @Summary Track copy
// @Description Records a copy-to-clipboard action against a prompt
// @Tags Copies
// @Accept json
// @Produce json
// @Param event body TrackCopyInput true "Copy event data"
// @Success 200 {object} StatusResponse "Copy recorded"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing prompt id"
// @Router /copy [post]
func (h copyHandler) trackCopy() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input TrackCopyInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode copy event request body")
			h.responder.WriteError(w, errs.NewMalformedPayloadError("copy event", err))
			return
		}
		if input.PromptID == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("prompt_id"))
			return
		}

		event := models.CopyEvent{
			PromptID: input.PromptID,
			UserID:   input.UserID,
		}
		if ip := clientIP(r); ip != "" {
			event.IPAddress = &ip
		}
		if ua := r.UserAgent(); ua != "" {
			event.UserAgent = &ua
		}
		if ref := r.Referer(); ref != "" {
			event.Referrer = &ref
		}

		if err := h.copyEventRepo.Add(&event); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "copy event", err))
			return
		}

		if err := h.promptRepo.IncrementCopyCount(input.PromptID); err != nil {
			// The event row is the source of truth for stats; a failed
			// counter bump is not worth failing the request over.
			h.logger.Error().Err(err).Uint("promptID", input.PromptID).Msg("Failed to increment copy count")
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "copy recorded"})
	}
}

// getCopyStats summarizes copy events over a trailing window.
func (h copyHandler) getCopyStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, days, err := copyWindowParams(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		stats, err := h.copyEventRepo.Stats(promptID, days)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "copy stats", err))
			return
		}

		h.responder.WriteJSON(w, stats)
	}
}

// getPopularPrompts lists the most-copied prompts in a trailing window.
func (h copyHandler) getPopularPrompts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, days, err := copyWindowParams(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		limit := 10
		if parsed, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && parsed > 0 {
			limit = parsed
		}

		popular, err := h.copyEventRepo.PopularPrompts(limit, days)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "popular prompts", err))
			return
		}

		h.responder.WriteJSON(w, popular)
	}
}

// exportCopyEvents streams the windowed copy log as a CSV download.
func (h copyHandler) exportCopyEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promptID, days, err := copyWindowParams(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		events, err := h.copyEventRepo.ListWithPrompts(promptID, days)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "copy events", err))
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="copy-events.csv"`)

		writer := csv.NewWriter(w)
		_ = writer.Write([]string{"ID", "Title", "User", "IP", "User-Agent", "Timestamp"})
		for _, event := range events {
			user := "anonymous"
			if event.UserID != nil && *event.UserID != "" {
				user = *event.UserID
			}
			_ = writer.Write([]string{
				strconv.FormatUint(uint64(event.ID), 10),
				event.Prompt.Title,
				user,
				stringOrEmpty(event.IPAddress),
				stringOrEmpty(event.UserAgent),
				event.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			})
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			h.logger.Error().Err(err).Msg("Failed to write copy event CSV")
		}
	}
}

func copyWindowParams(r *http.Request) (*uint, int, error) {
	q := r.URL.Query()

	var promptID *uint
	if raw := q.Get("promptId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, 0, errs.NewBadRequestError("promptId must be a positive integer")
		}
		id := uint(parsed)
		promptID = &id
	}

	days := 30
	if raw := q.Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return nil, 0, errs.NewBadRequestError("days must be a positive integer")
		}
		days = parsed
	}

	return promptID, days, nil
}

// clientIP prefers the first X-Forwarded-For hop, set by the reverse proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
