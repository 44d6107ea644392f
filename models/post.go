package models

import (
	"time"

	"github.com/lib/pq"
)

// Post is the only persisted entity.
// Table: posts (Postgres), collection: posts (Mongo).
type Post struct {
	ID        uint           `gorm:"primaryKey" bson:"_id" json:"id"`
	Title     string         `gorm:"type:text;not null" bson:"title" json:"title"`
	Content   string         `gorm:"type:text;not null" bson:"content" json:"content"`
	Published bool           `gorm:"not null;default:false" bson:"published" json:"published"`
	Tags      pq.StringArray `gorm:"type:text[];not null" bson:"tags" json:"tags"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" bson:"updated_at" json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

// HasAnyTag reports whether p shares at least one tag with tags.
func (p Post) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		for _, own := range p.Tags {
			if own == t {
				return true
			}
		}
	}
	return false
}
