// internal/events/publisher.go

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"cityscout/internal/domain/resource"
)

// RefreshEvent announces that a resource batch was fetched and persisted.
type RefreshEvent struct {
	ID         string        `json:"id"`
	Kind       resource.Kind `json:"kind"`
	LocationID int64         `json:"location_id"`
	Records    int           `json:"records"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Publisher publishes refresh events to NATS. A nil Publisher is valid and
// publishes nothing, so event delivery stays optional.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a publisher rooted at the given subject prefix.
// Events for a kind go to "<subject>.<kind>".
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	return &Publisher{nc: nc, subject: subject}
}

// PublishRefresh announces a freshly persisted batch.
func (p *Publisher) PublishRefresh(kind resource.Kind, locationID int64, records int, createdAt time.Time) error {
	if p == nil || p.nc == nil {
		return nil
	}

	ev := RefreshEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		LocationID: locationID,
		Records:    records,
		CreatedAt:  createdAt,
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling refresh event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", p.subject, kind)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing refresh event: %w", err)
	}
	return nil
}
