package eventbus

import (
	"context"
	"strconv"
	"time"

	"posts-api/events"
)

// PostEventPublisher writes post lifecycle events to a single topic.
type PostEventPublisher struct {
	bus     EventBus
	topic   Topic
	timeout time.Duration
}

func NewPostEventPublisher(bus EventBus, topic Topic) *PostEventPublisher {
	return &PostEventPublisher{bus: bus, topic: topic, timeout: 5 * time.Second}
}

// PublishPostEvent waits at most the publisher timeout for the delivery report.
func (p *PostEventPublisher) PublishPostEvent(ctx context.Context, evt events.PostEvent) error {
	data, typ, err := events.SerializeEvent(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.bus.Publish(ctx, p.topic.Base(), Event{
		ID:      evt.ID,
		Key:     strconv.FormatUint(uint64(evt.PostID), 10),
		Type:    string(typ),
		Payload: data,
	})
}
