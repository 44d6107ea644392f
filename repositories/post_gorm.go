package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"posts-api/models"
)

// GormPostRepository stores posts in Postgres through GORM.
type GormPostRepository struct {
	db *gorm.DB
}

func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Create inserts a new post row. Id and timestamps are written back into p.
func (r *GormPostRepository) Create(ctx context.Context, p *models.Post) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// FindByID fetches exactly one row by primary key.
func (r *GormPostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select post %d: %w", id, err)
	}
	return &p, nil
}

// List counts every matching row and then loads the requested page ordered by id.
func (r *GormPostRepository) List(ctx context.Context, c PostCriteria) ([]models.Post, int64, error) {
	scope := postPredicateScope(BuildPostPredicates(c))
	w := NormalizeWindow(c.Page, c.Limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	posts := make([]models.Post, 0, w.Limit)
	if total == 0 || int64(w.Offset) >= total {
		return posts, total, nil
	}

	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("id ASC").
		Offset(w.Offset).
		Limit(w.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("select posts (offset=%d, limit=%d): %w", w.Offset, w.Limit, err)
	}
	return posts, total, nil
}

// Save writes the mutable columns of p. Rows deleted in the meantime are not
// recreated.
func (r *GormPostRepository) Save(ctx context.Context, p *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"title":      p.Title,
			"content":    p.Content,
			"published":  p.Published,
			"tags":       p.Tags,
			"updated_at": p.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update post %d: %w", p.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormPostRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete post %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormPostRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// postPredicateScope applies the predicates as a single AND-ed WHERE clause.
func postPredicateScope(preds []Predicate) func(*gorm.DB) *gorm.DB {
	exprs := gormPredicateExprs(preds)
	return func(db *gorm.DB) *gorm.DB {
		if len(exprs) == 0 {
			return db
		}
		return db.Where(clause.And(exprs...))
	}
}

// gormPredicateExprs translates predicates into parameterized SQL fragments.
// Field names come from the PostField constants and are never user input.
func gormPredicateExprs(preds []Predicate) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(preds))
	for _, pr := range preds {
		col := string(pr.Field)
		switch pr.Op {
		case OpContainsFold:
			exprs = append(exprs, clause.Expr{
				SQL:  col + " ILIKE ?",
				Vars: []any{"%" + escapeLike(pr.Value.(string)) + "%"},
			})
		case OpGTE:
			exprs = append(exprs, clause.Expr{SQL: col + " >= ?", Vars: []any{pr.Value}})
		case OpLTE:
			exprs = append(exprs, clause.Expr{SQL: col + " <= ?", Vars: []any{pr.Value}})
		case OpEq:
			exprs = append(exprs, clause.Expr{SQL: col + " = ?", Vars: []any{pr.Value}})
		case OpNotNull:
			exprs = append(exprs, clause.Expr{SQL: col + " IS NOT NULL"})
		case OpOverlap:
			exprs = append(exprs, clause.Expr{
				SQL:  col + " && ?::text[]",
				Vars: []any{pq.StringArray(pr.Value.([]string))},
			})
		}
	}
	return exprs
}
