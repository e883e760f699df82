// Package mqtt implements the MQTT transport for devicely.
//
// MQTT is well-suited for device farms and lab rigs that already share a
// broker. This transport subscribes to a request topic filter such as
// devicely/convert/+ and publishes each result to <reply_to>/<client>, where
// <client> is the last segment of the request topic.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/nadzzz/devicely/internal/message"
	"github.com/nadzzz/devicely/internal/transport"
)

const connectTimeout = 10 * time.Second

// Options configures the MQTT transport.
type Options struct {
	Broker   string
	Topic    string // request subscription filter
	ReplyTo  string // result topic prefix
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Transport implements transport.Transport over MQTT.
type Transport struct {
	opts Options

	mu     sync.Mutex
	client paho.Client
}

// New creates a new MQTT transport.
func New(opts Options) *Transport {
	if opts.ClientID == "" {
		host, _ := os.Hostname()
		opts.ClientID = "devicely-" + host
	}
	if opts.ReplyTo == "" {
		opts.ReplyTo = "devicely/result"
	}
	return &Transport{opts: opts}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "mqtt" }

// Listen connects to the MQTT broker and subscribes to the configured topic.
// Subscriptions are restored after every reconnect.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	onMessage := func(c paho.Client, m paho.Message) {
		reply, body := t.process(ctx, handler, m.Topic(), m.Payload())
		tok := c.Publish(reply, t.opts.QoS, false, body)
		if !tok.WaitTimeout(connectTimeout) || tok.Error() != nil {
			slog.Error("mqtt publish failed", "topic", reply, "error", tok.Error())
		}
	}

	co := paho.NewClientOptions().
		AddBroker(t.opts.Broker).
		SetClientID(t.opts.ClientID).
		SetUsername(t.opts.Username).
		SetPassword(t.opts.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOrderMatters(false).
		SetOnConnectHandler(func(c paho.Client) {
			tok := c.Subscribe(t.opts.Topic, t.opts.QoS, onMessage)
			if !tok.WaitTimeout(connectTimeout) || tok.Error() != nil {
				slog.Error("mqtt subscribe failed", "topic", t.opts.Topic, "error", tok.Error())
				return
			}
			slog.Info("mqtt subscribed", "topic", t.opts.Topic)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			slog.Warn("mqtt connection lost", "error", err)
		})

	client := paho.NewClient(co)
	t.mu.Lock()
	t.client = client
	t.mu.Unlock()

	tok := client.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect %s: timed out", t.opts.Broker)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", t.opts.Broker, err)
	}

	slog.Info("mqtt transport listening", "broker", t.opts.Broker, "topic", t.opts.Topic)
	<-ctx.Done()
	return t.Close()
}

// process converts one request payload and returns the reply topic and the
// encoded result. Failures are reported in the result's error field.
func (t *Transport) process(ctx context.Context, handler transport.Handler, topic string, payload []byte) (string, []byte) {
	sender := senderFromTopic(topic)
	reply := t.opts.ReplyTo + "/" + sender
	logger := slog.With("topic", topic, "sender", sender)

	var req message.ConvertRequest
	var result *message.ConvertResult
	if err := json.Unmarshal(payload, &req); err != nil {
		// A non-JSON payload is the instruction text itself.
		if !json.Valid(payload) {
			req.Text = string(payload)
		} else {
			result = &message.ConvertResult{Error: "invalid json: " + err.Error()}
		}
	}

	if result == nil {
		req.Source = "mqtt:" + sender
		var err error
		result, err = handler(ctx, &req)
		if err != nil {
			logger.Error("convert failed", "error", err, "code", transport.Classify(err).String())
			if result == nil {
				result = &message.ConvertResult{RequestID: req.ID}
			}
			result.Error = err.Error()
		}
	}

	body, err := json.Marshal(result)
	if err != nil {
		body = []byte(`{"error":"encoding result failed"}`)
	}
	return reply, body
}

// senderFromTopic returns the last topic level, or "anonymous" for topics
// without one.
func senderFromTopic(topic string) string {
	i := strings.LastIndexByte(topic, '/')
	if i < 0 || i == len(topic)-1 {
		return "anonymous"
	}
	return topic[i+1:]
}

// Close disconnects from the MQTT broker.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.client == nil {
		return nil
	}
	t.client.Disconnect(250)
	t.client = nil
	return nil
}
