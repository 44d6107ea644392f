package services

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"

	"posts-api/dto"
	"posts-api/events"
	"posts-api/internal/logger"
	"posts-api/internal/trace"
	"posts-api/models"
	"posts-api/repositories"
)

// PostEventPublisher receives an event after every successful mutation.
type PostEventPublisher interface {
	PublishPostEvent(ctx context.Context, evt events.PostEvent) error
}

// PostService encapsulates business logic for posts and DTO mapping.
type PostService struct {
	repo      repositories.PostRepository
	publisher PostEventPublisher
	now       func() time.Time
}

// NewPostService wires the service. A nil publisher disables events.
func NewPostService(repo repositories.PostRepository, publisher PostEventPublisher) *PostService {
	return &PostService{
		repo:      repo,
		publisher: publisher,
		now: func() time.Time {
			// millisecond precision survives every store unchanged
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string
}

// UpdatePostInput carries a partial update. Nil fields are left unchanged.
type UpdatePostInput struct {
	Title     *string
	Content   *string
	Tags      *[]string
	Published *bool
}

// Create stores a new unpublished post and returns it with its id and timestamps.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (dto.PostDTO, error) {
	now := s.now()
	p := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Tags:      copyTags(in.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return dto.PostDTO{}, &StoreError{Op: "create post", Err: err}
	}

	s.logMutation(ctx, "post created", p.ID)
	s.publish(ctx, events.PostCreated, p.ID, p)
	return dto.NewPostDTO(*p), nil
}

// FindAll returns one page of posts matching c and the total number of matches.
func (s *PostService) FindAll(ctx context.Context, c repositories.PostCriteria) (dto.Pagination[dto.PostDTO], error) {
	posts, total, err := s.repo.List(ctx, c)
	if err != nil {
		return dto.Pagination[dto.PostDTO]{}, &StoreError{Op: "list posts", Err: err}
	}

	w := repositories.NormalizeWindow(c.Page, c.Limit)
	out := make([]dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, dto.NewPostDTO(p))
	}
	return dto.Pagination[dto.PostDTO]{
		Meta: dto.NewPageMeta(total, w.Page, w.Limit),
		Data: out,
	}, nil
}

// FindOne loads a post by primary key.
func (s *PostService) FindOne(ctx context.Context, id uint) (dto.PostDTO, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return dto.PostDTO{}, err
	}
	return dto.NewPostDTO(*p), nil
}

// Update merges the provided fields into the stored post and refreshes UpdatedAt.
// There is no compare-and-swap: concurrent updates to one post are last-writer-wins.
func (s *PostService) Update(ctx context.Context, id uint, in UpdatePostInput) (dto.PostDTO, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return dto.PostDTO{}, err
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Tags != nil {
		p.Tags = copyTags(*in.Tags)
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, p); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return dto.PostDTO{}, &NotFoundError{ID: id}
		}
		return dto.PostDTO{}, &StoreError{Op: "update post", Err: err}
	}

	s.logMutation(ctx, "post updated", id)
	s.publish(ctx, events.PostUpdated, id, p)
	return dto.NewPostDTO(*p), nil
}

// Remove hard-deletes a post.
func (s *PostService) Remove(ctx context.Context, id uint) (dto.DeleteResultDTO, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return dto.DeleteResultDTO{}, &StoreError{Op: "delete post", Err: err}
	}
	if n == 0 {
		return dto.DeleteResultDTO{}, &NotFoundError{ID: id}
	}

	s.logMutation(ctx, "post deleted", id)
	s.publish(ctx, events.PostDeleted, id, nil)
	return dto.DeleteResultDTO{Deleted: true}, nil
}

// Ping reports whether the post store is reachable.
func (s *PostService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *PostService) load(ctx context.Context, id uint) (*models.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &StoreError{Op: "find post", Err: err}
	}
	return p, nil
}

// publish is best effort: the mutation is already committed, so a failed
// publish is logged and not returned.
func (s *PostService) publish(ctx context.Context, t events.EventType, id uint, p *models.Post) {
	if s.publisher == nil {
		return
	}
	evt := events.NewPostEvent(t, id, p)
	if err := s.publisher.PublishPostEvent(ctx, evt); err != nil {
		logger.ErrorWithFields("publish post event failed", logger.Fields{
			"event_id":   evt.ID,
			"event_type": string(t),
			"post_id":    id,
			"request_id": trace.RequestIDFromContext(ctx),
			"error":      err.Error(),
		})
	}
}

func (s *PostService) logMutation(ctx context.Context, msg string, id uint) {
	logger.InfoWithFields(msg, logger.Fields{
		"post_id":    id,
		"request_id": trace.RequestIDFromContext(ctx),
	})
}

// copyTags always returns a non-nil slice so the column is never NULL.
func copyTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, len(tags))
	copy(out, tags)
	return out
}
