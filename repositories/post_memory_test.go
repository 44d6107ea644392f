package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posts-api/models"
)

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func seedPosts(t *testing.T, repo *MemoryPostRepository, posts ...models.Post) {
	t.Helper()
	for i := range posts {
		require.NoError(t, repo.Create(context.Background(), &posts[i]))
	}
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestMemoryPostRepositoryCreateAssignsSequentialIDs(t *testing.T) {
	repo := NewMemoryPostRepository()
	a := models.Post{Title: "a", Content: "a", Tags: pq.StringArray{}}
	b := models.Post{Title: "b", Content: "b", Tags: pq.StringArray{}}
	seedPosts(t, repo, a)
	seedPosts(t, repo, b)

	got, err := repo.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Title)
}

func TestMemoryPostRepositoryListPagination(t *testing.T) {
	repo := NewMemoryPostRepository()
	for i := 0; i < 12; i++ {
		seedPosts(t, repo, models.Post{Title: "p", Content: "c", Tags: pq.StringArray{}, CreatedAt: baseTime})
	}

	posts, total, err := repo.List(context.Background(), PostCriteria{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, []uint{6, 7, 8, 9, 10}, postIDs(posts))

	posts, total, err = repo.List(context.Background(), PostCriteria{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Equal(t, []uint{11, 12}, postIDs(posts))

	posts, total, err = repo.List(context.Background(), PostCriteria{Page: 4, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Empty(t, posts)
}

func TestMemoryPostRepositoryListFilters(t *testing.T) {
	repo := NewMemoryPostRepository()
	seedPosts(t, repo,
		models.Post{Title: "Intro to Go", Tags: pq.StringArray{"x"}, CreatedAt: baseTime},
		models.Post{Title: "Databases", Tags: pq.StringArray{"z"}, Published: true, CreatedAt: baseTime.AddDate(0, 0, 1)},
		models.Post{Title: "GOLANG tips", Tags: pq.StringArray{"y", "z"}, Published: true, CreatedAt: baseTime.AddDate(0, 0, 2)},
		models.Post{Title: "untagged", Tags: pq.StringArray{}, CreatedAt: baseTime.AddDate(0, 0, 3)},
	)
	day2 := baseTime.AddDate(0, 0, 1)
	day3 := baseTime.AddDate(0, 0, 2)

	testCases := []struct {
		name      string
		criteria  PostCriteria
		wantIDs   []uint
		wantTotal int64
	}{
		{"no filter", PostCriteria{}, []uint{1, 2, 3, 4}, 4},
		{"title case-insensitive", PostCriteria{Title: strPtr("go")}, []uint{1, 3}, 2},
		{"tags overlap", PostCriteria{Tags: []string{"x", "y"}}, []uint{1, 3}, 2},
		{"tags no overlap", PostCriteria{Tags: []string{"nope"}}, []uint{}, 0},
		{"published", PostCriteria{Published: boolPtr(true)}, []uint{2, 3}, 2},
		{"unpublished", PostCriteria{Published: boolPtr(false)}, []uint{1, 4}, 2},
		{"from inclusive", PostCriteria{From: &day2}, []uint{2, 3, 4}, 3},
		{"to inclusive", PostCriteria{To: &day2}, []uint{1, 2}, 2},
		{"range", PostCriteria{From: &day2, To: &day3}, []uint{2, 3}, 2},
		{"combined", PostCriteria{Title: strPtr("go"), Tags: []string{"z"}, Published: boolPtr(true)}, []uint{3}, 1},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			posts, total, err := repo.List(context.Background(), testCase.criteria)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantTotal, total)
			assert.Equal(t, testCase.wantIDs, postIDs(posts))
		})
	}
}

func TestMemoryPostRepositorySaveAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	p := models.Post{Title: "old", Content: "c", Tags: pq.StringArray{"a"}}
	seedPosts(t, repo, p)

	updated := models.Post{ID: 1, Title: "new", Content: "c", Tags: pq.StringArray{"b"}}
	require.NoError(t, repo.Save(ctx, &updated))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, pq.StringArray{"b"}, got.Tags)

	n, err := repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Save(ctx, &updated), ErrNotFound)
}

func TestMemoryPostRepositoryDoesNotAliasTags(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPostRepository()
	p := models.Post{Title: "t", Content: "c", Tags: pq.StringArray{"a"}}
	require.NoError(t, repo.Create(ctx, &p))

	p.Tags[0] = "mutated"
	got, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"a"}, got.Tags)

	got.Tags[0] = "mutated again"
	again, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"a"}, again.Tags)
}
