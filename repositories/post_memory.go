package repositories

import (
	"context"
	"sort"
	"sync"

	"posts-api/models"
)

// MemoryPostRepository keeps posts in process memory. It evaluates the same
// predicates as the database stores and is used for local runs and tests.
type MemoryPostRepository struct {
	mu     sync.RWMutex
	posts  map[uint]models.Post
	lastID uint
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[uint]models.Post)}
}

func (r *MemoryPostRepository) Create(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	p.ID = r.lastID
	r.posts[p.ID] = clonePost(*p)
	return nil
}

func (r *MemoryPostRepository) FindByID(_ context.Context, id uint) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (r *MemoryPostRepository) List(_ context.Context, c PostCriteria) ([]models.Post, int64, error) {
	preds := BuildPostPredicates(c)
	w := NormalizeWindow(c.Page, c.Limit)

	r.mu.RLock()
	matched := make([]models.Post, 0)
	for _, p := range r.posts {
		if MatchesAll(preds, p) {
			matched = append(matched, clonePost(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if w.Offset >= len(matched) {
		return []models.Post{}, total, nil
	}
	end := w.Offset + w.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[w.Offset:end], total, nil
}

func (r *MemoryPostRepository) Save(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID]; !ok {
		return ErrNotFound
	}
	r.posts[p.ID] = clonePost(*p)
	return nil
}

func (r *MemoryPostRepository) Delete(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return 0, nil
	}
	delete(r.posts, id)
	return 1, nil
}

func (r *MemoryPostRepository) Ping(context.Context) error {
	return nil
}

// clonePost copies the tag slice so callers cannot alias stored state.
func clonePost(p models.Post) models.Post {
	if p.Tags != nil {
		p.Tags = append(make([]string, 0, len(p.Tags)), p.Tags...)
	}
	return p
}
