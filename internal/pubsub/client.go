package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a client for projectID. Without a project, events are only
// logged so the service runs without Google Cloud.
func New(ctx context.Context, projectID string) (PubSubClient, error) {
	if projectID == "" {
		log.Warn("GCP_PROJECT is not set, events will not be published")
		return noopClient{}, nil
	}
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	teardown := func() {
		if err := pubSubC.Close(); err != nil {
			log.Error("Failed to close pubsub client", "error", err)
		}
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, nil
}

func (c *client) SendMessage(ctx context.Context, topic EventType, data any) error {
	msgpackData, err := Encode(data)
	if err != nil {
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(string(topic)).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Debug("Published message", "topic", topic, "serverID", serverID)
	return nil
}

func (c *client) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (c *client) Close() {
	c.teardown()
}

func (noopClient) SendMessage(ctx context.Context, topic EventType, data any) error {
	log.Debug("Skipping event publish, no project configured", "topic", topic)
	return nil
}

func (noopClient) ProcessMessage(data []byte, returnValue any) error {
	return Decode(data, returnValue)
}

func (noopClient) Close() {}

// Encode serialises an event payload.
func Encode(data any) ([]byte, error) {
	b, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return b, nil
}

// Decode reads an event payload into returnValue.
func Decode(data []byte, returnValue any) error {
	if err := msgpack.Unmarshal(data, returnValue); err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return fmt.Errorf("failed to decode event: %w", err)
	}
	return nil
}

// UnwrapPush extracts the payload of a Pub/Sub push request body.
func UnwrapPush(body []byte) ([]byte, error) {
	var envelope PushEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid push envelope: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid push data: %w", err)
	}
	return raw, nil
}

// WrapPush builds a push request body around payload.
func WrapPush(subscription string, payload []byte) ([]byte, error) {
	var envelope PushEnvelope
	envelope.Subscription = subscription
	envelope.Message.Data = base64.StdEncoding.EncodeToString(payload)
	return json.Marshal(envelope)
}
