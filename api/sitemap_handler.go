package api

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/promptlib/backend/database"
)

const sitemapPromptLimit = 5000

type sitemapHandler struct {
	responder  Responder
	logger     zerolog.Logger
	promptRepo *database.PromptRepo
	tagRepo    *database.TagRepo
	baseURL    string
}

func newSitemapHandler(promptRepo *database.PromptRepo, tagRepo *database.TagRepo, baseURL string) sitemapHandler {
	logger := log.With().Str("handlerName", "sitemapHandler").Logger()

	return sitemapHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		promptRepo: promptRepo,
		tagRepo:    tagRepo,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// getSitemap renders the XML sitemap: the static pages, every public
// prompt, and every tag page.
func (h sitemapHandler) getSitemap() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		urls := []sitemapURL{
			{Loc: h.baseURL + "/", ChangeFreq: "daily", Priority: "1.0"},
			{Loc: h.baseURL + "/login", ChangeFreq: "monthly", Priority: "0.5"},
		}

		prompts, err := h.promptRepo.ListPublic(sitemapPromptLimit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "prompts", err))
			return
		}
		for _, prompt := range prompts {
			urls = append(urls, sitemapURL{
				Loc:        fmt.Sprintf("%s/prompt/%d", h.baseURL, prompt.ID),
				LastMod:    prompt.CreatedAt.UTC().Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   "0.8",
			})
		}

		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("list", "tags", err))
			return
		}
		for _, tag := range tags {
			urls = append(urls, sitemapURL{
				Loc:        h.baseURL + "/tag/" + tag.Slug,
				ChangeFreq: "weekly",
				Priority:   "0.6",
			})
		}

		body, err := xml.MarshalIndent(sitemapURLSet{
			Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
			URLs:  urls,
		}, "", "  ")
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to marshal sitemap")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Write([]byte(xml.Header))
		w.Write(body)
	}
}
