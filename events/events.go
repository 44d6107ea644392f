package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"posts-api/models"
)

// EventType names a post lifecycle event.
type EventType string

const (
	PostCreated EventType = "post.created"
	PostUpdated EventType = "post.updated"
	PostDeleted EventType = "post.deleted"
)

const (
	eventSource  = "posts-api"
	eventVersion = "1"
)

// BaseEvent is embedded in every event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

// PostEvent is emitted after a post is created, updated or deleted.
// Post carries the stored state and is nil for deletions.
type PostEvent struct {
	BaseEvent
	PostID uint         `json:"post_id"`
	Post   *models.Post `json:"post,omitempty"`
}

// NewPostEvent stamps a fresh event id and timestamp.
func NewPostEvent(t EventType, postID uint, post *models.Post) PostEvent {
	return PostEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      t,
			Timestamp: time.Now().UTC(),
			Source:    eventSource,
			Version:   eventVersion,
		},
		PostID: postID,
		Post:   post,
	}
}

// SerializeEvent encodes a post event and returns its type.
func SerializeEvent(event PostEvent) ([]byte, EventType, error) {
	switch event.Type {
	case PostCreated, PostUpdated, PostDeleted:
	default:
		return nil, "", fmt.Errorf("unknown event type: %q", event.Type)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return nil, "", fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	return data, event.Type, nil
}
