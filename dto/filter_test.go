package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posts-api/repositories"
)

func TestListPostsQueryToCriteria(t *testing.T) {
	t.Run("empty query has no constraints", func(t *testing.T) {
		c, err := ListPostsQuery{}.ToCriteria()
		require.NoError(t, err)
		assert.Equal(t, repositories.PostCriteria{}, c)
	})

	t.Run("all fields", func(t *testing.T) {
		c, err := ListPostsQuery{
			Title:     "Go",
			From:      "2024-01-01",
			To:        "2024-01-31",
			Published: "false",
			Page:      "2",
			Limit:     "5",
			Tags:      []string{"x", "y"},
		}.ToCriteria()
		require.NoError(t, err)

		require.NotNil(t, c.Title)
		assert.Equal(t, "Go", *c.Title)
		require.NotNil(t, c.From)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *c.From)
		require.NotNil(t, c.To)
		assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999000, time.UTC), *c.To)
		require.NotNil(t, c.Published)
		assert.False(t, *c.Published)
		assert.Equal(t, 2, c.Page)
		assert.Equal(t, 5, c.Limit)
		assert.Equal(t, []string{"x", "y"}, c.Tags)
	})

	t.Run("timestamp bounds are normalized to UTC", func(t *testing.T) {
		c, err := ListPostsQuery{From: "2024-01-01T09:00:00+09:00", To: "2024-01-02T10:30:00"}.ToCriteria()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *c.From)
		assert.Equal(t, time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC), *c.To)
	})

	t.Run("limit above maximum is clamped", func(t *testing.T) {
		c, err := ListPostsQuery{Limit: "1000"}.ToCriteria()
		require.NoError(t, err)
		assert.Equal(t, repositories.MaxPageSize, c.Limit)
	})

	t.Run("same-day range covers the whole day", func(t *testing.T) {
		c, err := ListPostsQuery{From: "2024-01-01", To: "2024-01-01"}.ToCriteria()
		require.NoError(t, err)
		assert.True(t, c.To.After(*c.From))
	})
}

func TestListPostsQueryToCriteriaRejects(t *testing.T) {
	testCases := []struct {
		name      string
		query     ListPostsQuery
		wantField string
	}{
		{"non-boolean published", ListPostsQuery{Published: "yes"}, "published"},
		{"non-numeric page", ListPostsQuery{Page: "abc"}, "page"},
		{"zero page", ListPostsQuery{Page: "0"}, "page"},
		{"negative limit", ListPostsQuery{Limit: "-1"}, "limit"},
		{"page beyond maximum", ListPostsQuery{Page: "10000001"}, "page"},
		{"malformed from", ListPostsQuery{From: "yesterday"}, "from"},
		{"malformed to", ListPostsQuery{To: "2024-13-01"}, "to"},
		{"inverted range", ListPostsQuery{From: "2024-02-01", To: "2024-01-01"}, "from"},
		{"blank tag", ListPostsQuery{Tags: []string{"x", ""}}, "tags"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := testCase.query.ToCriteria()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, testCase.wantField, verr.Field)
		})
	}
}

func TestNewPageMeta(t *testing.T) {
	assert.Equal(t, PageMeta{Total: 12, Page: 2, Limit: 5, TotalPages: 3}, NewPageMeta(12, 2, 5))
	assert.Equal(t, PageMeta{Total: 0, Page: 1, Limit: 10, TotalPages: 0}, NewPageMeta(0, 1, 10))
	assert.Equal(t, PageMeta{Total: 10, Page: 1, Limit: 10, TotalPages: 1}, NewPageMeta(10, 1, 10))
}
