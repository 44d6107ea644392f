package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posts-api/events"
	"posts-api/models"
)

type recordingBus struct {
	topics []string
	events []Event
	err    error
}

func (b *recordingBus) Publish(ctx context.Context, topic string, event Event) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish called without deadline")
	}
	b.topics = append(b.topics, topic)
	b.events = append(b.events, event)
	return b.err
}

func (b *recordingBus) Close() {}

func decodePostEvent(t *testing.T, evt Event) events.PostEvent {
	t.Helper()
	var out events.PostEvent
	require.NoError(t, json.Unmarshal(evt.Payload, &out))
	return out
}

func TestPostEventPublisher(t *testing.T) {
	bus := &recordingBus{}
	pub := NewPostEventPublisher(bus, NewTopic("posts"))
	post := &models.Post{ID: 5, Title: "hello", Content: "world", Tags: pq.StringArray{"x"}}
	evt := events.NewPostEvent(events.PostCreated, 5, post)

	require.NoError(t, pub.PublishPostEvent(context.Background(), evt))

	require.Len(t, bus.events, 1)
	assert.Equal(t, []string{"posts"}, bus.topics)
	got := bus.events[0]
	assert.Equal(t, evt.ID, got.ID)
	assert.Equal(t, "5", got.Key)
	assert.Equal(t, string(events.PostCreated), got.Type)

	decoded := decodePostEvent(t, got)
	assert.Equal(t, uint(5), decoded.PostID)
	assert.Equal(t, events.PostCreated, decoded.Type)
	require.NotNil(t, decoded.Post)
	assert.Equal(t, "hello", decoded.Post.Title)
	assert.Equal(t, pq.StringArray{"x"}, decoded.Post.Tags)
}

func TestPostEventPublisherPropagatesBusError(t *testing.T) {
	bus := &recordingBus{err: errors.New("broker down")}
	pub := NewPostEventPublisher(bus, NewTopic("posts"))

	err := pub.PublishPostEvent(context.Background(), events.NewPostEvent(events.PostDeleted, 1, nil))
	assert.EqualError(t, err, "broker down")
}

func TestPostEventPublisherRejectsUnknownType(t *testing.T) {
	bus := &recordingBus{}
	pub := NewPostEventPublisher(bus, NewTopic("posts"))

	err := pub.PublishPostEvent(context.Background(), events.NewPostEvent("post.archived", 1, nil))
	assert.Error(t, err)
	assert.Empty(t, bus.events)
}

func TestNopEventBus(t *testing.T) {
	var bus EventBus = NopEventBus{}
	assert.NoError(t, bus.Publish(context.Background(), "posts", Event{ID: "1"}))
	bus.Close()
}
