package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"posts-api/repositories"
)

// ListPostsQuery holds the raw query string of GET /posts. Every field is
// optional; ToCriteria converts and validates them.
type ListPostsQuery struct {
	Title     string   `form:"title"`
	From      string   `form:"from"`
	To        string   `form:"to"`
	Published string   `form:"published"`
	Page      string   `form:"page"`
	Limit     string   `form:"limit"`
	Tags      []string `form:"tags"`
}

// ValidationError reports a malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ToCriteria coerces the query strings into typed criteria. Blank values are
// treated as absent.
func (q ListPostsQuery) ToCriteria() (repositories.PostCriteria, error) {
	var c repositories.PostCriteria

	if q.Title != "" {
		title := q.Title
		c.Title = &title
	}

	if s := strings.TrimSpace(q.From); s != "" {
		from, err := parseDateBound(s, false)
		if err != nil {
			return c, invalid("from", "must be an ISO 8601 date or timestamp, got %q", s)
		}
		c.From = &from
	}
	if s := strings.TrimSpace(q.To); s != "" {
		to, err := parseDateBound(s, true)
		if err != nil {
			return c, invalid("to", "must be an ISO 8601 date or timestamp, got %q", s)
		}
		c.To = &to
	}
	if c.From != nil && c.To != nil && c.From.After(*c.To) {
		return c, invalid("from", "must not be after to")
	}

	if s := strings.TrimSpace(q.Published); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return c, invalid("published", "must be true or false, got %q", s)
		}
		c.Published = &b
	}

	page, err := parsePositive("page", q.Page, repositories.MaxPage)
	if err != nil {
		return c, err
	}
	c.Page = page

	limit, err := parsePositive("limit", q.Limit, 0)
	if err != nil {
		return c, err
	}
	if limit > repositories.MaxPageSize {
		limit = repositories.MaxPageSize
	}
	c.Limit = limit

	for _, t := range q.Tags {
		if t == "" {
			return c, invalid("tags", "must not contain empty tags")
		}
	}
	if len(q.Tags) > 0 {
		c.Tags = append([]string(nil), q.Tags...)
	}

	return c, nil
}

// parsePositive returns 0 for an empty value. max <= 0 means unbounded.
func parsePositive(field, raw string, max int) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid(field, "must be a number, got %q", s)
	}
	if n < 1 {
		return 0, invalid(field, "must be at least 1")
	}
	if max > 0 && n > max {
		return 0, invalid(field, "must be at most %d", max)
	}
	return n, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

const dateLayout = "2006-01-02"

// parseDateBound accepts RFC 3339 timestamps, zone-less timestamps (UTC) and
// plain dates. A plain date used as an upper bound covers the whole day.
func parseDateBound(s string, upper bool) (time.Time, error) {
	if d, err := time.Parse(dateLayout, s); err == nil {
		if upper {
			return d.AddDate(0, 0, 1).Add(-time.Microsecond), nil
		}
		return d, nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
