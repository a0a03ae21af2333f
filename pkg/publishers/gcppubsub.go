package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// topicPublisher hides the PublishResult future so tests can fake a topic.
type topicPublisher interface {
	publish(ctx context.Context, msg *pubsub.Message) (string, error)
	stop()
}

type pubsubTopic struct {
	topic *pubsub.Topic
}

func (t pubsubTopic) publish(ctx context.Context, msg *pubsub.Message) (string, error) {
	return t.topic.Publish(ctx, msg).Get(ctx)
}

func (t pubsubTopic) stop() { t.topic.Stop() }

type gcpPubSubPublisher struct {
	id     string
	topic  topicPublisher
	client *pubsub.Client
	log    Logger
}

// newGCPPubSubPublisher connects to Pub/Sub. PUBSUB_EMULATOR_HOST is honoured
// by the client library itself.
func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.GCPPubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := cfg.GCPPubSub
	var opts []option.ClientOption
	if c.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.Endpoint))
	}
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, c.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubPublisher{
		id:     cfg.ID,
		topic:  pubsubTopic{topic: client.Topic(c.Topic)},
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (g *gcpPubSubPublisher) ID() string   { return g.id }
func (g *gcpPubSubPublisher) Type() string { return TypeGCPPubSub }

// Publish blocks until the server acknowledges the message.
func (g *gcpPubSubPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	id, err := g.topic.publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"kind": evt.Kind},
	})
	if err != nil {
		g.log.ErrorObj("pubsub publisher send failed", "publisher_pubsub_error", deliveryFields(g.id, evt, err))
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	fields := deliveryFields(g.id, evt, nil)
	fields["message_id"] = id
	g.log.DebugObj("pubsub publisher delivered event", "publisher_pubsub_delivery", fields)
	return nil
}

// Close flushes pending messages and releases the client connection.
func (g *gcpPubSubPublisher) Close() error {
	if g.topic != nil {
		g.topic.stop()
	}
	if g.client == nil {
		return nil
	}
	if err := g.client.Close(); err != nil {
		return fmt.Errorf("close pubsub client: %w", err)
	}
	return nil
}
