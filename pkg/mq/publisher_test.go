package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	declared   []string
	declareErr error
	publishErr error
	sent       []published
	closed     bool
}

func (c *fakeChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if c.declareErr != nil {
		return c.declareErr
	}
	if kind == "topic" && durable {
		c.declared = append(c.declared, name)
	}
	return nil
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.sent = append(c.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishJSON(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "invoice.exchange", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice.exchange"}, ch.declared)

	require.NoError(t, p.PublishJSON(context.Background(), "invoice.generate", map[string]any{"amount": 1000}))

	require.Len(t, ch.sent, 1)
	sent := ch.sent[0]
	assert.Equal(t, "invoice.exchange", sent.exchange)
	assert.Equal(t, "invoice.generate", sent.key)
	assert.Equal(t, "application/json", sent.msg.ContentType)
	assert.Equal(t, amqp.Persistent, sent.msg.DeliveryMode)
	assert.NotEmpty(t, sent.msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(sent.msg.Body, &body))
	assert.Equal(t, 1000.0, body["amount"])
}

func TestPublishJSONErrors(t *testing.T) {
	ch := &fakeChannel{publishErr: errors.New("channel closed")}
	p, err := newPublisher(ch, "invoice.exchange", zap.NewNop())
	require.NoError(t, err)

	err = p.PublishJSON(context.Background(), "invoice.generate", struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")

	err = p.PublishJSON(context.Background(), "invoice.generate", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode")
}

func TestNewPublisherClosesChannelWhenDeclareFails(t *testing.T) {
	ch := &fakeChannel{declareErr: errors.New("access refused")}

	_, err := newPublisher(ch, "invoice.exchange", zap.NewNop())

	require.Error(t, err)
	assert.True(t, ch.closed)
}
