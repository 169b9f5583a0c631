// Package publish exports raw samples to an MQTT broker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mklimuk/accgyro"
)

const disconnectQuiesce = 250

// Reading is a single acquisition of both sensors.
type Reading struct {
	Time time.Time      `json:"time"`
	Gyro accgyro.Sample `json:"gyro"`
	Acc  accgyro.Sample `json:"acc"`
}

// Client is the subset of the paho client used for publishing.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

type MQTT struct {
	client Client
	topic  string
}

// Connect opens a connection to broker (e.g. "tcp://localhost:1883").
func Connect(ctx context.Context, broker, clientID, topic string) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	token := client.Connect()
	if err := wait(ctx, token); err != nil {
		return nil, fmt.Errorf("could not connect to mqtt broker %s: %w", broker, err)
	}
	return NewMQTT(client, topic), nil
}

func NewMQTT(client Client, topic string) *MQTT {
	return &MQTT{client: client, topic: topic}
}

func (m *MQTT) Publish(ctx context.Context, r Reading) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	err = wait(ctx, m.client.Publish(m.topic, 0, false, payload))
	if err != nil {
		return fmt.Errorf("could not publish reading on %s: %w", m.topic, err)
	}
	return nil
}

func (m *MQTT) Close() {
	m.client.Disconnect(disconnectQuiesce)
}

// Encode returns the JSON payload published for r.
func Encode(r Reading) ([]byte, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("could not encode reading: %w", err)
	}
	return payload, nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
