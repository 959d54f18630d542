package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

func TestListPromptsPagination(t *testing.T) {
	d := newTestDatabase(t)
	for i := 1; i <= 25; i++ {
		seedPrompt(t, d, fmt.Sprintf("Prompt %02d", i), true)
	}

	page, err := d.PromptRepo().List(ListPromptsParams{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page.Prompts, 20)
	assert.EqualValues(t, 25, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)

	page, err = d.PromptRepo().List(ListPromptsParams{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, page.Prompts, 5)
	assert.Equal(t, 2, page.CurrentPage)
}

func TestListPromptsDefaults(t *testing.T) {
	d := newTestDatabase(t)
	seedPrompt(t, d, "Only one", true)

	page, err := d.PromptRepo().List(ListPromptsParams{Page: -3, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Prompts, 1)
}

func TestListPromptsPublicFilter(t *testing.T) {
	d := newTestDatabase(t)
	seedPrompt(t, d, "Published", true)
	seedPrompt(t, d, "Draft", false)

	isPublic := true
	page, err := d.PromptRepo().List(ListPromptsParams{IsPublic: &isPublic})
	require.NoError(t, err)
	require.Len(t, page.Prompts, 1)
	assert.Equal(t, "Published", page.Prompts[0].Title)

	page, err = d.PromptRepo().List(ListPromptsParams{})
	require.NoError(t, err)
	assert.Len(t, page.Prompts, 2)
}

func TestListPromptsTagFilterShortCircuit(t *testing.T) {
	d := newTestDatabase(t)
	tag := seedTag(t, d, "Writing", "writing")
	empty := seedTag(t, d, "Unused", "unused")
	seedPrompt(t, d, "Tagged", true, tag.ID)
	seedPrompt(t, d, "Untagged", true)

	page, err := d.PromptRepo().List(ListPromptsParams{TagID: &tag.ID})
	require.NoError(t, err)
	require.Len(t, page.Prompts, 1)
	assert.Equal(t, "Tagged", page.Prompts[0].Title)

	// A tag with no prompts must produce an empty page without touching
	// the prompts table.
	page, err = d.PromptRepo().List(ListPromptsParams{TagID: &empty.ID})
	require.NoError(t, err)
	assert.Empty(t, page.Prompts)
	assert.EqualValues(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListPromptsSearch(t *testing.T) {
	d := newTestDatabase(t)
	seedPrompt(t, d, "Email Summarizer", true)
	seedPrompt(t, d, "Code Reviewer", true)

	page, err := d.PromptRepo().List(ListPromptsParams{Search: "EMAIL"})
	require.NoError(t, err)
	require.Len(t, page.Prompts, 1)
	assert.Equal(t, "Email Summarizer", page.Prompts[0].Title)
}

func TestListPromptsSort(t *testing.T) {
	d := newTestDatabase(t)
	seedPrompt(t, d, "Bravo", true)
	seedPrompt(t, d, "Alpha", true)

	page, err := d.PromptRepo().List(ListPromptsParams{SortBy: "title", SortOrder: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Prompts, 2)
	assert.Equal(t, "Alpha", page.Prompts[0].Title)

	// Unknown sort columns must not reach the SQL string.
	_, err = d.PromptRepo().List(ListPromptsParams{SortBy: "id; DROP TABLE prompts"})
	require.NoError(t, err)
}

func TestCreateWithTagsRelations(t *testing.T) {
	d := newTestDatabase(t)
	tagA := seedTag(t, d, "Writing", "writing")
	tagB := seedTag(t, d, "Coding", "coding")

	prompt := seedPrompt(t, d, "Tagged prompt", true, tagA.ID, tagB.ID)

	found, err := d.PromptRepo().FindByID(prompt.ID, false)
	require.NoError(t, err)
	assert.Len(t, found.Tags, 2)
}

func TestCreateWithTagsRollsBack(t *testing.T) {
	d := newTestDatabase(t)
	tag := seedTag(t, d, "Writing", "writing")

	// Duplicate tag ids violate the join table's composite key; the
	// prompt row must roll back with the relation insert.
	prompt := &models.Prompt{Title: "Doomed", Content: "Some content here", IsPublic: true}
	err := d.PromptRepo().CreateWithTags(prompt, []uint{tag.ID, tag.ID})
	require.Error(t, err)

	page, err := d.PromptRepo().List(ListPromptsParams{})
	require.NoError(t, err)
	assert.Empty(t, page.Prompts)
}

func TestFindByIDPublicOnly(t *testing.T) {
	d := newTestDatabase(t)
	draft := seedPrompt(t, d, "Draft", false)

	_, err := d.PromptRepo().FindByID(draft.ID, true)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := d.PromptRepo().FindByID(draft.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Draft", found.Title)
}

func TestUpdatePromptMissingRow(t *testing.T) {
	d := newTestDatabase(t)
	err := d.PromptRepo().Update(9999, map[string]any{"title": "New"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestIncrementCounters(t *testing.T) {
	d := newTestDatabase(t)
	prompt := seedPrompt(t, d, "Counted", true)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.PromptRepo().IncrementViewCount(prompt.ID))
	}
	require.NoError(t, d.PromptRepo().IncrementCopyCount(prompt.ID))

	found, err := d.PromptRepo().FindByID(prompt.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, found.ViewCount)
	assert.Equal(t, 1, found.CopyCount)
}

func TestSetPublicToggle(t *testing.T) {
	d := newTestDatabase(t)
	prompt := seedPrompt(t, d, "Toggle me", true)

	require.NoError(t, d.PromptRepo().SetPublic(prompt.ID, false))
	found, err := d.PromptRepo().FindByID(prompt.ID, false)
	require.NoError(t, err)
	assert.False(t, found.IsPublic)

	require.NoError(t, d.PromptRepo().SetPublic(prompt.ID, true))
	found, err = d.PromptRepo().FindByID(prompt.ID, false)
	require.NoError(t, err)
	assert.True(t, found.IsPublic)
}

func TestListPublicExcludesDrafts(t *testing.T) {
	d := newTestDatabase(t)
	seedPrompt(t, d, "Published", true)
	seedPrompt(t, d, "Draft", false)

	prompts, err := d.PromptRepo().ListPublic(10)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "Published", prompts[0].Title)
}
