package repositories

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"posts-api/models"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestBuildPostPredicates(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		criteria PostCriteria
		want     []Predicate
	}{
		{
			name:     "no criteria",
			criteria: PostCriteria{Page: 2, Limit: 5},
			want:     []Predicate{},
		},
		{
			name:     "empty title is ignored",
			criteria: PostCriteria{Title: strPtr("")},
			want:     []Predicate{},
		},
		{
			name:     "title only",
			criteria: PostCriteria{Title: strPtr("Go")},
			want:     []Predicate{{Field: FieldTitle, Op: OpContainsFold, Value: "Go"}},
		},
		{
			name:     "date range",
			criteria: PostCriteria{From: &from, To: &to},
			want: []Predicate{
				{Field: FieldCreatedAt, Op: OpGTE, Value: from},
				{Field: FieldCreatedAt, Op: OpLTE, Value: to},
			},
		},
		{
			name:     "published false is still a constraint",
			criteria: PostCriteria{Published: boolPtr(false)},
			want:     []Predicate{{Field: FieldPublished, Op: OpEq, Value: false}},
		},
		{
			name:     "tags add not null and overlap",
			criteria: PostCriteria{Tags: []string{"x", "y"}},
			want: []Predicate{
				{Field: FieldTags, Op: OpNotNull},
				{Field: FieldTags, Op: OpOverlap, Value: []string{"x", "y"}},
			},
		},
		{
			name:     "empty tag list is ignored",
			criteria: PostCriteria{Tags: []string{}},
			want:     []Predicate{},
		},
		{
			name: "all criteria in fixed order",
			criteria: PostCriteria{
				Title: strPtr("a"), From: &from, To: &to, Published: boolPtr(true), Tags: []string{"t"},
			},
			want: []Predicate{
				{Field: FieldTitle, Op: OpContainsFold, Value: "a"},
				{Field: FieldCreatedAt, Op: OpGTE, Value: from},
				{Field: FieldCreatedAt, Op: OpLTE, Value: to},
				{Field: FieldPublished, Op: OpEq, Value: true},
				{Field: FieldTags, Op: OpNotNull},
				{Field: FieldTags, Op: OpOverlap, Value: []string{"t"}},
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, BuildPostPredicates(testCase.criteria))
		})
	}
}

func TestBuildPostPredicatesCopiesTags(t *testing.T) {
	tags := []string{"x"}
	preds := BuildPostPredicates(PostCriteria{Tags: tags})
	tags[0] = "changed"

	assert.Equal(t, []string{"x"}, preds[1].Value)
}

func TestPredicateMatches(t *testing.T) {
	created := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	post := models.Post{
		Title:     "Hello Go World",
		Published: true,
		Tags:      pq.StringArray{"go", "db"},
		CreatedAt: created,
	}

	testCases := []struct {
		name string
		pred Predicate
		want bool
	}{
		{"title case-insensitive", Predicate{Field: FieldTitle, Op: OpContainsFold, Value: "go w"}, true},
		{"title miss", Predicate{Field: FieldTitle, Op: OpContainsFold, Value: "rust"}, false},
		{"from inclusive", Predicate{Field: FieldCreatedAt, Op: OpGTE, Value: created}, true},
		{"from after", Predicate{Field: FieldCreatedAt, Op: OpGTE, Value: created.Add(time.Second)}, false},
		{"to inclusive", Predicate{Field: FieldCreatedAt, Op: OpLTE, Value: created}, true},
		{"to before", Predicate{Field: FieldCreatedAt, Op: OpLTE, Value: created.Add(-time.Second)}, false},
		{"published eq", Predicate{Field: FieldPublished, Op: OpEq, Value: true}, true},
		{"published ne", Predicate{Field: FieldPublished, Op: OpEq, Value: false}, false},
		{"tags defined", Predicate{Field: FieldTags, Op: OpNotNull}, true},
		{"tags overlap", Predicate{Field: FieldTags, Op: OpOverlap, Value: []string{"x", "db"}}, true},
		{"tags disjoint", Predicate{Field: FieldTags, Op: OpOverlap, Value: []string{"z"}}, false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.pred.Matches(post))
		})
	}

	t.Run("nil tags are not defined", func(t *testing.T) {
		assert.False(t, Predicate{Field: FieldTags, Op: OpNotNull}.Matches(models.Post{}))
	})
}

func TestNormalizeWindow(t *testing.T) {
	testCases := []struct {
		name        string
		page, limit int
		want        Window
	}{
		{"defaults", 0, 0, Window{Page: 1, Limit: 10, Offset: 0}},
		{"second page", 2, 5, Window{Page: 2, Limit: 5, Offset: 5}},
		{"limit capped", 1, 500, Window{Page: 1, Limit: 100, Offset: 0}},
		{"negative values", -3, -1, Window{Page: 1, Limit: 10, Offset: 0}},
		{"page capped", MaxPage + 1, 1, Window{Page: MaxPage, Limit: 1, Offset: MaxPage - 1}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, NormalizeWindow(testCase.page, testCase.limit))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
