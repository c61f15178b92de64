package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/itohio/goforce/pkg/config"
	"github.com/itohio/goforce/pkg/gauge"
)

const publishTimeout = time.Second

// Payload is the JSON document published per tick.
type Payload struct {
	TimeMs     uint64  `json:"t_ms"`
	Fx         float32 `json:"fx"`
	Fy         float32 `json:"fy"`
	Fz         float32 `json:"fz"`
	Combined   float32 `json:"combined"`
	HighScore  float32 `json:"high_score"`
	State      string  `json:"state"`
	Celebrated bool    `json:"celebrated"`
}

// NewPayload extracts the published fields from a snapshot.
func NewPayload(s gauge.Snapshot) Payload {
	return Payload{
		TimeMs:     s.Frame.TimestampMs,
		Fx:         s.Frame.X,
		Fy:         s.Frame.Y,
		Fz:         s.Frame.Z,
		Combined:   s.Frame.Combined,
		HighScore:  s.HighScore,
		State:      s.State.String(),
		Celebrated: s.Celebrated,
	}
}

// publisher is the part of mqtt.Client used here.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes snapshots as JSON.
type MQTTPublisher struct {
	client publisher
	topic  string
}

var _ Sink = (*MQTTPublisher)(nil)

// NewMQTTPublisher connects to the configured broker.
func NewMQTTPublisher(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}

	return newMQTTPublisher(client, cfg.Topic), nil
}

func newMQTTPublisher(client publisher, topic string) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic}
}

// Send publishes s and waits for the publish to complete.
func (p *MQTTPublisher) Send(s gauge.Snapshot) error {
	payload, err := json.Marshal(NewPayload(s))
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", p.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
