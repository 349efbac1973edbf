package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremetrics "github.com/kilianp07/evrange/core/metrics"
	"github.com/kilianp07/evrange/core/model"
	"github.com/kilianp07/evrange/infra/logger"
)

// Publisher sends route decisions to per-trip MQTT topics. It implements
// metrics.DecisionSink so it can be configured as the "mqtt" sink.
type Publisher struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// DecisionMessage is the JSON payload published for each decision.
type DecisionMessage struct {
	ID        string              `json:"id"`
	Source    string              `json:"source,omitempty"`
	Timestamp int64               `json:"timestamp"`
	Snapshot  model.TripSnapshot  `json:"snapshot"`
	Decision  model.RouteDecision `json:"decision"`
}

// RejectionMessage is published when the advisor refuses a snapshot.
type RejectionMessage struct {
	ID        string `json:"id"`
	Source    string `json:"source,omitempty"`
	Reason    string `json:"reason"`
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// DecisionTopic returns the topic decisions of trip id are published on.
func DecisionTopic(prefix, id string) string {
	return fmt.Sprintf("%s/%s/decision", prefix, id)
}

// RejectionTopic returns the topic rejections of trip id are published on.
func RejectionTopic(prefix, id string) string {
	return fmt.Sprintf("%s/%s/rejection", prefix, id)
}

// NewPublisher connects to the broker.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:     log,
	}, nil
}

// RecordDecision publishes the decision on <prefix>/<id>/decision.
func (p *Publisher) RecordDecision(ev coremetrics.DecisionEvent) error {
	payload, err := json.Marshal(DecisionMessage{
		ID:        ev.ID,
		Source:    ev.Source,
		Timestamp: ev.Time.UnixMilli(),
		Snapshot:  ev.Snapshot,
		Decision:  ev.Decision,
	})
	if err != nil {
		return err
	}
	return p.publish(DecisionTopic(p.prefix, ev.ID), ev.ID, payload)
}

// RecordRejection publishes the rejection on <prefix>/<id>/rejection.
func (p *Publisher) RecordRejection(ev coremetrics.RejectionEvent) error {
	payload, err := json.Marshal(RejectionMessage{
		ID:        ev.ID,
		Source:    ev.Source,
		Reason:    ev.Reason,
		Error:     ev.Error,
		Timestamp: ev.Time.UnixMilli(),
	})
	if err != nil {
		return err
	}
	return p.publish(RejectionTopic(p.prefix, ev.ID), ev.ID, payload)
}

func (p *Publisher) publish(topic, id string, payload []byte) error {
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, p.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published %s", topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.maxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s for %s: %w", topic, id, publishErr)
}

// Close gracefully closes the MQTT connection.
func (p *Publisher) Close() error {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
	return nil
}
