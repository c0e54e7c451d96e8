// Package publish mirrors element updates to an MQTT broker.
//
// Each [store.Update] is published as JSON to "<prefix>/<widget>" with
// QoS 0 and the retained flag set, so a late subscriber immediately sees the
// last render of every widget.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jpalmerr/homeboard/internal/store"
)

const (
	// DefaultTopicPrefix is used when Config.TopicPrefix is empty.
	DefaultTopicPrefix = "homeboard"

	defaultClientID       = "homeboard"
	defaultPublishTimeout = 5 * time.Second
	snapshotTopic         = "snapshot"
)

// Config configures the broker connection.
type Config struct {
	// Broker is the broker URL, e.g. "tcp://localhost:1883".
	Broker   string
	ClientID string
	Username string
	Password string

	// TopicPrefix is prepended to every topic.
	TopicPrefix string

	// Timeout bounds connecting and each publish.
	Timeout time.Duration
}

// client is the part of mqtt.Client the publisher uses.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher publishes store updates to MQTT.
type Publisher struct {
	client  client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// Connect dials the broker and returns a ready [Publisher].
func Connect(cfg Config, logger *slog.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker is required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = defaultClientID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPublishTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true).
		SetCleanSession(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "broker", cfg.Broker, "error", err)
	}
	opts.OnConnect = func(mqtt.Client) {
		logger.Info("mqtt connected", "broker", cfg.Broker)
	}

	c := mqtt.NewClient(opts)
	tk := c.Connect()
	if !tk.WaitTimeout(cfg.Timeout) {
		c.Disconnect(0)
		return nil, fmt.Errorf("mqtt connect to %s timed out", cfg.Broker)
	}
	if err := tk.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}

	return newPublisher(c, cfg.TopicPrefix, cfg.Timeout, logger), nil
}

func newPublisher(c client, prefix string, timeout time.Duration, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &Publisher{client: c, prefix: prefix, timeout: timeout, logger: logger}
}

// Topic returns the topic a widget's updates are published to.
func (p *Publisher) Topic(widget string) string {
	return p.prefix + "/" + widget
}

// Publish sends one update and waits for the broker to accept it.
func (p *Publisher) Publish(u store.Update) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}

	topic := p.Topic(u.Widget)
	tk := p.client.Publish(topic, 0, true, payload)
	if !tk.WaitTimeout(p.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := tk.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Run publishes the current snapshot, then every update from st until ctx
// is cancelled. Failed publishes are logged and skipped.
func (p *Publisher) Run(ctx context.Context, st store.Store) {
	ch := st.Subscribe()
	defer st.Unsubscribe(ch)

	snapshot := store.Update{Widget: snapshotTopic, Elements: st.Snapshot(), At: time.Now()}
	if err := p.Publish(snapshot); err != nil {
		p.logger.Warn("mqtt publish failed", "widget", snapshot.Widget, "error", err.Error())
	}

	for {
		select {
		case u, ok := <-ch:
			if !ok {
				return
			}
			if err := p.Publish(u); err != nil {
				p.logger.Warn("mqtt publish failed", "widget", u.Widget, "error", err.Error())
				continue
			}
			p.logger.Debug("mqtt published", "topic", p.Topic(u.Widget), "elements", len(u.Elements))
		case <-ctx.Done():
			return
		}
	}
}

// Close disconnects from the broker, allowing 250ms for in-flight work.
func (p *Publisher) Close() {
	if p == nil || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}
