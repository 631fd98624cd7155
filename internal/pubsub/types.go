package pubsub

import (
	"time"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// noopClient is used when no Google Cloud project is configured.
type noopClient struct{}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventAvailabilityChanged EventType = "availability-changed"
	EventDayDeleted          EventType = "day-deleted"
)

// AvailabilityChanged is published after every successful availability write.
type AvailabilityChanged struct {
	Date     string    `msgpack:"date"`
	Kind     string    `msgpack:"kind"`
	PlayerID string    `msgpack:"player_id,omitempty"`
	At       time.Time `msgpack:"at"`
}

// DayDeleted is published after a day was cleared.
type DayDeleted struct {
	Date    string    `msgpack:"date"`
	Removed int64     `msgpack:"removed"`
	At      time.Time `msgpack:"at"`
}

// PushEnvelope is the JSON body of a Pub/Sub push request.
type PushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"`
	} `json:"message"`
}
