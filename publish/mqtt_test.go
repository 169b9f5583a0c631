package publish

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/accgyro"
)

type doneToken struct {
	mqtt.Token
	err  error
	done chan struct{}
}

func newDoneToken(err error) *doneToken {
	ch := make(chan struct{})
	close(ch)
	return &doneToken{err: err, done: ch}
}

func (t *doneToken) Done() <-chan struct{} {
	return t.done
}

func (t *doneToken) Error() error {
	return t.err
}

type fakeClient struct {
	topic        string
	payload      []byte
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.payload = payload.([]byte)
	return newDoneToken(c.err)
}

func (c *fakeClient) Disconnect(quiesce uint) {
	c.disconnected = true
}

var reading = Reading{
	Time: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	Gyro: accgyro.Sample{X: 100, Y: 200, Z: -200},
	Acc:  accgyro.Sample{X: 32767, Y: 1, Z: -1},
}

func TestEncode(t *testing.T) {
	payload, err := Encode(reading)
	require.NoError(t, err)
	assert.JSONEq(t, `{"time":"2026-10-14T12:00:00Z","gyro":{"x":100,"y":200,"z":-200},"acc":{"x":32767,"y":1,"z":-1}}`, string(payload))
}

func TestMQTT_Publish(t *testing.T) {
	client := &fakeClient{}
	m := NewMQTT(client, "accgyro/raw")
	require.NoError(t, m.Publish(context.Background(), reading))
	assert.Equal(t, "accgyro/raw", client.topic)
	expected, _ := Encode(reading)
	assert.Equal(t, expected, client.payload)
	m.Close()
	assert.True(t, client.disconnected)
}

func TestMQTT_PublishFailure(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	m := NewMQTT(client, "accgyro/raw")
	assert.Error(t, m.Publish(context.Background(), reading))
}

func TestWait_ContextDone(t *testing.T) {
	token := &doneToken{done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, wait(ctx, token), context.Canceled)
}
