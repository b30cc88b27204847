package query

import (
	"testing"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Validate_OK(t *testing.T) {
	f := NewFilter().
		Set("gender", "male").
		Set("dob", int64(1)).
		Set("registeredMin", 5).
		SetNested("location", "zip", int64(12345)).
		SetNested("picture", "large", "https://x")

	require.NoError(t, f.Validate(schema.User))
}

func TestFilter_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
	}{
		{"unknown key", NewFilter().Set("nickname", "x")},
		{"object used as scalar", NewFilter().Set("location", "x")},
		{"scalar used as object", NewFilter().SetNested("gender", "x", "y")},
		{"unknown nested key", NewFilter().SetNested("location", "country", "IE")},
		{"string on int field", NewFilter().Set("dob", "yesterday")},
		{"int on string field", NewFilter().Set("email", 5)},
		{"string on range key", NewFilter().Set("dobMax", "soon")},
		{"nested range key", NewFilter().SetNested("dobMax", "x", 1)},
		{"unsupported type", NewFilter().Set("gender", 1.5)},
		{"string on nested int", NewFilter().SetNested("location", "zip", "D02")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.filter.Validate(schema.User), common.ErrorValidation)
		})
	}
}

func TestFilter_TermsIsACopy(t *testing.T) {
	f := NewFilter().Set("gender", "male").SetNested("name", "first", "Ann")

	terms := f.Terms()
	terms[0].Value = "changed"
	terms[1].Nested[0].Value = "changed"

	assert.Equal(t, `gender = "male" AND name.first = "Ann"`, BuildQuery(f))
	assert.Equal(t, 2, f.Len())
}

func TestFilter_SetNestedReplacesScalar(t *testing.T) {
	f := NewFilter().Set("location", "x").SetNested("location", "city", "Cork")

	terms := f.Terms()
	require.Len(t, terms, 1)
	assert.True(t, terms[0].IsNested())
	assert.Nil(t, terms[0].Value)
}

func TestFilter_NilIsEmpty(t *testing.T) {
	var f *Filter
	assert.Equal(t, 0, f.Len())
	assert.Nil(t, f.Terms())
	assert.NoError(t, f.Validate(schema.User))
}
