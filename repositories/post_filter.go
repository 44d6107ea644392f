package repositories

import (
	"strings"
	"time"

	"posts-api/models"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 10_000_000
)

// PostCriteria narrows a post listing. A nil pointer or empty slice means
// no constraint on that dimension.
type PostCriteria struct {
	Title     *string
	From      *time.Time
	To        *time.Time
	Published *bool
	Tags      []string
	Page      int
	Limit     int
}

// PostField names a column of the posts table.
type PostField string

const (
	FieldTitle     PostField = "title"
	FieldCreatedAt PostField = "created_at"
	FieldPublished PostField = "published"
	FieldTags      PostField = "tags"
)

// Op is the comparison a Predicate applies to its field.
type Op int

const (
	// OpContainsFold matches when the field contains Value, ignoring case.
	OpContainsFold Op = iota + 1
	OpGTE
	OpLTE
	OpEq
	OpNotNull
	// OpOverlap matches when the array field shares at least one element with Value.
	OpOverlap
)

func (o Op) String() string {
	switch o {
	case OpContainsFold:
		return "contains_fold"
	case OpGTE:
		return "gte"
	case OpLTE:
		return "lte"
	case OpEq:
		return "eq"
	case OpNotNull:
		return "not_null"
	case OpOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// Predicate is a single condition on a post. Value holds a string, time.Time,
// bool or []string depending on Op, and is nil for OpNotNull.
type Predicate struct {
	Field PostField
	Op    Op
	Value any
}

// BuildPostPredicates maps criteria to the list of predicates every matching
// post must satisfy. The list is empty when no criterion is set.
func BuildPostPredicates(c PostCriteria) []Predicate {
	preds := make([]Predicate, 0, 6)

	if c.Title != nil && *c.Title != "" {
		preds = append(preds, Predicate{Field: FieldTitle, Op: OpContainsFold, Value: *c.Title})
	}
	if c.From != nil {
		preds = append(preds, Predicate{Field: FieldCreatedAt, Op: OpGTE, Value: *c.From})
	}
	if c.To != nil {
		preds = append(preds, Predicate{Field: FieldCreatedAt, Op: OpLTE, Value: *c.To})
	}
	if c.Published != nil {
		preds = append(preds, Predicate{Field: FieldPublished, Op: OpEq, Value: *c.Published})
	}
	if len(c.Tags) > 0 {
		tags := append([]string(nil), c.Tags...)
		preds = append(preds,
			Predicate{Field: FieldTags, Op: OpNotNull},
			Predicate{Field: FieldTags, Op: OpOverlap, Value: tags},
		)
	}
	return preds
}

// Matches evaluates the predicate against p in memory.
func (pr Predicate) Matches(p models.Post) bool {
	switch pr.Field {
	case FieldTitle:
		if pr.Op == OpContainsFold {
			return strings.Contains(strings.ToLower(p.Title), strings.ToLower(pr.Value.(string)))
		}
	case FieldCreatedAt:
		bound := pr.Value.(time.Time)
		switch pr.Op {
		case OpGTE:
			return !p.CreatedAt.Before(bound)
		case OpLTE:
			return !p.CreatedAt.After(bound)
		}
	case FieldPublished:
		if pr.Op == OpEq {
			return p.Published == pr.Value.(bool)
		}
	case FieldTags:
		switch pr.Op {
		case OpNotNull:
			return p.Tags != nil
		case OpOverlap:
			return p.HasAnyTag(pr.Value.([]string))
		}
	}
	return false
}

// MatchesAll reports whether p satisfies every predicate.
func MatchesAll(preds []Predicate, p models.Post) bool {
	for _, pr := range preds {
		if !pr.Matches(p) {
			return false
		}
	}
	return true
}

// Window is a normalized page request.
type Window struct {
	Page   int
	Limit  int
	Offset int
}

// NormalizeWindow applies the default page and page size and caps them at
// MaxPage and MaxPageSize.
func NormalizeWindow(page, limit int) Window {
	if page <= 0 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Window{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// escapeLike escapes the LIKE wildcards in s so it matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
