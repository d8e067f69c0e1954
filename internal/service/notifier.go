package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	commonredis "pagecraft/common/redis"
)

// Change kinds published to subscribers.
const (
	ChangeProfileSaved       = "profile.saved"
	ChangeProfilePublished   = "profile.published"
	ChangeProfileUnpublished = "profile.unpublished"
	ChangePageSaved          = "page.saved"
	ChangeTaskChanged        = "task.changed"
	ChangeTaskAssigned       = "task.assigned"
	ChangeClientChanged      = "client.changed"
)

// ChangeEvent tells other open sessions of the same user that something
// was persisted.
type ChangeEvent struct {
	UserID   string    `json:"userId"`
	Kind     string    `json:"kind"`
	EntityID string    `json:"entityId,omitempty"`
	At       time.Time `json:"at"`
}

// ChangeNotifier is best-effort: failures are logged and swallowed.
type ChangeNotifier interface {
	Notify(ctx context.Context, ev ChangeEvent)
}

// MQTTPublisher is the part of common/mqtt.Client the notifier uses.
type MQTTPublisher interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	QoS() byte
}

type changeNotifier struct {
	mqtt        MQTTPublisher
	topicPrefix string
	redis       *redis.Client
	stream      string
	maxLen      int64
	logger      *zap.Logger
}

// NewChangeNotifier fans events out to MQTT (<prefix>/<userID>/changes)
// and a Redis stream. Either sink may be nil.
func NewChangeNotifier(mq MQTTPublisher, topicPrefix string, rdb *redis.Client, stream string, logger *zap.Logger) ChangeNotifier {
	if topicPrefix == "" {
		topicPrefix = "pagecraft"
	}
	return &changeNotifier{
		mqtt:        mq,
		topicPrefix: topicPrefix,
		redis:       rdb,
		stream:      stream,
		maxLen:      10000,
		logger:      logger,
	}
}

func (n *changeNotifier) Notify(ctx context.Context, ev ChangeEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	if n.mqtt != nil {
		payload, err := json.Marshal(ev)
		if err == nil {
			err = n.mqtt.Publish(ChangeTopic(n.topicPrefix, ev.UserID), n.mqtt.QoS(), false, payload)
		}
		if err != nil {
			n.logger.Warn("Failed to publish change event to MQTT",
				zap.String("user_id", ev.UserID),
				zap.String("kind", ev.Kind),
				zap.Error(err),
			)
		}
	}

	if n.redis != nil && n.stream != "" {
		if _, err := commonredis.PublishJSONToStream(ctx, n.redis, n.stream, n.maxLen, ev); err != nil {
			n.logger.Warn("Failed to publish change event to stream",
				zap.String("stream", n.stream),
				zap.String("user_id", ev.UserID),
				zap.String("kind", ev.Kind),
				zap.Error(err),
			)
		}
	}
}

// ChangeTopic MQTT topic for one user's change feed
func ChangeTopic(prefix, userID string) string {
	return prefix + "/" + userID + "/changes"
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ChangeEvent) {}
