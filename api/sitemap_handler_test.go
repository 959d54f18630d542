package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapListsPublicContent(t *testing.T) {
	d, router := newTestRouter(t)
	tag := seedTestTag(t, d, "Writing", "writing")
	seedTestPrompt(t, d, "Published", true, tag.ID)
	seedTestPrompt(t, d, "Draft", false)

	w := doJSON(t, router, http.MethodGet, "/sitemap.xml", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")

	body := w.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "http://localhost:3000/login")
	assert.Contains(t, body, "http://localhost:3000/prompt/1")
	assert.Contains(t, body, "http://localhost:3000/tag/writing")
	// Drafts stay out of the index.
	assert.NotContains(t, body, "/prompt/2")
}
