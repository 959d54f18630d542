package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlib/backend/errs"
)

type samplePayload struct {
	Title string  `json:"title" validate:"required,max=10"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Slug  string  `json:"slug" validate:"omitempty,slug"`
	Role  string  `json:"role" validate:"omitempty,oneof=user admin"`
}

func TestValidatePasses(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(samplePayload{Title: "ok", Slug: "my-slug-2"}))
}

func TestValidateReportsJSONFieldName(t *testing.T) {
	v := New()

	err := v.Validate(samplePayload{})
	require.Error(t, err)

	apiErr, ok := err.(*errs.ApiErr)
	require.True(t, ok)
	assert.Equal(t, "title", apiErr.Field)
	assert.ErrorIs(t, err, errs.ErrInvalidField)
}

func TestValidateSlugRule(t *testing.T) {
	v := New()

	cases := []struct {
		slug string
		ok   bool
	}{
		{"writing", true},
		{"prompt-engineering-101", true},
		{"Has Spaces", false},
		{"UPPER", false},
		{"trailing!", false},
	}
	for _, tc := range cases {
		err := v.Validate(samplePayload{Title: "ok", Slug: tc.slug})
		if tc.ok {
			assert.NoError(t, err, "slug %q", tc.slug)
		} else {
			assert.Error(t, err, "slug %q", tc.slug)
		}
	}
}

func TestValidateFriendlyMessages(t *testing.T) {
	v := New()
	bad := "nope"

	err := v.Validate(samplePayload{Title: "ok", Email: &bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid email address")

	err = v.Validate(samplePayload{Title: "ok", Role: "superuser"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")

	err = v.Validate(samplePayload{Title: "way too long for this"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not exceed 10 characters")
}
