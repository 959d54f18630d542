package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
)

func TestAddTagSlugConflict(t *testing.T) {
	d := newTestDatabase(t)
	seedTag(t, d, "Writing", "writing")

	err := d.TagRepo().Add(&models.Tag{Name: "Other", Slug: "writing"})
	assert.ErrorIs(t, err, errs.ErrSlugTaken)

	err = d.TagRepo().Add(&models.Tag{Name: "Writing", Slug: "other"})
	assert.ErrorIs(t, err, errs.ErrTagNameTaken)
}

func TestUpdateTagExcludesOwnRow(t *testing.T) {
	d := newTestDatabase(t)
	tag := seedTag(t, d, "Writing", "writing")
	seedTag(t, d, "Coding", "coding")

	// Re-saving a tag's own name and slug is not a conflict.
	err := d.TagRepo().Update(tag.ID, map[string]any{"name": "Writing", "slug": "writing", "color": "green"})
	require.NoError(t, err)

	updated, err := d.TagRepo().FindByID(tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "green", updated.Color)

	// Taking another tag's slug is.
	err = d.TagRepo().Update(tag.ID, map[string]any{"slug": "coding"})
	assert.ErrorIs(t, err, errs.ErrSlugTaken)
}

func TestUpdateTagMissingRow(t *testing.T) {
	d := newTestDatabase(t)
	err := d.TagRepo().Update(9999, map[string]any{"name": "Ghost"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindBySlug(t *testing.T) {
	d := newTestDatabase(t)
	seedTag(t, d, "Writing", "writing")

	tag, err := d.TagRepo().FindBySlug("writing")
	require.NoError(t, err)
	assert.Equal(t, "Writing", tag.Name)

	_, err = d.TagRepo().FindBySlug("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListWithStats(t *testing.T) {
	d := newTestDatabase(t)
	writing := seedTag(t, d, "Writing", "writing")
	coding := seedTag(t, d, "Coding", "coding")
	seedTag(t, d, "Unused", "unused")

	seedPrompt(t, d, "First", true, writing.ID, coding.ID)
	seedPrompt(t, d, "Second", true, writing.ID)

	stats, err := d.TagRepo().ListWithStats()
	require.NoError(t, err)
	require.Len(t, stats, 3)

	counts := map[string]int{}
	for _, s := range stats {
		counts[s.Slug] = s.PromptCount
	}
	assert.Equal(t, 2, counts["writing"])
	assert.Equal(t, 1, counts["coding"])
	assert.Equal(t, 0, counts["unused"])
}

func TestPopularTagsOrder(t *testing.T) {
	d := newTestDatabase(t)
	writing := seedTag(t, d, "Writing", "writing")
	coding := seedTag(t, d, "Coding", "coding")

	seedPrompt(t, d, "First", true, writing.ID)
	seedPrompt(t, d, "Second", true, writing.ID)
	seedPrompt(t, d, "Third", true, coding.ID)

	popular, err := d.TagRepo().Popular(1)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "writing", popular[0].Slug)
	assert.Equal(t, 2, popular[0].PromptCount)
}

func TestCountByTag(t *testing.T) {
	d := newTestDatabase(t)
	tag := seedTag(t, d, "Writing", "writing")
	seedPrompt(t, d, "First", true, tag.ID)

	count, err := d.PromptTagRepo().CountByTag(tag.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestReplaceForPrompt(t *testing.T) {
	d := newTestDatabase(t)
	writing := seedTag(t, d, "Writing", "writing")
	coding := seedTag(t, d, "Coding", "coding")
	prompt := seedPrompt(t, d, "Retagged", true, writing.ID)

	require.NoError(t, d.PromptTagRepo().ReplaceForPrompt(prompt.ID, []uint{coding.ID}))
	ids, err := d.PromptTagRepo().FindPromptIDs(coding.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{prompt.ID}, ids)

	// Replacing with an empty set clears every relation.
	require.NoError(t, d.PromptTagRepo().ReplaceForPrompt(prompt.ID, nil))
	found, err := d.PromptRepo().FindByID(prompt.ID, false)
	require.NoError(t, err)
	assert.Empty(t, found.Tags)
}
