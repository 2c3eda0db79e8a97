package telemetry

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/bbsmith24/yamura-pyrometer/internal/logger"
	"github.com/bbsmith24/yamura-pyrometer/internal/session"
	"github.com/bbsmith24/yamura-pyrometer/internal/units"
)

// bufferCapacity bounds how many messages ride out a broker outage. A full
// 18-cell session plus system chatter fits many times over.
const bufferCapacity = 256

// RealPublisher publishes to an MQTT broker. While the connection is down,
// messages accumulate in a ring buffer and replay on reconnect; the track
// paddock loses WiFi often enough that dropping readings is not acceptable.
type RealPublisher struct {
	client paho.Client
	log    *logger.Logger

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewRealPublisher creates a publisher dialing the given broker. A broker
// that is down at startup is tolerated: paho retries in the background and
// the buffer holds messages until the connection lands.
func NewRealPublisher(broker, clientID string, log *logger.Logger) (*RealPublisher, error) {
	if log == nil {
		log = logger.Nop()
	}
	p := &RealPublisher{
		log:    log,
		buffer: newRingBuffer(bufferCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.drain()
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Warnw("broker not reachable yet, buffering", "broker", broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

// PublishReading sends one accepted cell reading. QoS 0: readings arrive
// every few seconds and a lost one is visible in the session payload anyway.
func (p *RealPublisher) PublishReading(ev ReadingEvent) error {
	payload, err := FormatReading(ev)
	if err != nil {
		return fmt.Errorf("format reading: %w", err)
	}
	return p.publish(TopicReadings, 0, false, payload)
}

// PublishSession sends a completed session grid. QoS 1: session results are
// the point of the exercise.
func (p *RealPublisher) PublishSession(rec session.Record, unit units.Unit) error {
	payload, err := FormatSession(rec, unit)
	if err != nil {
		return fmt.Errorf("format session: %w", err)
	}
	return p.publish(TopicSessions, 1, false, payload)
}

// PublishSystem sends a system lifecycle event. QoS 1.
func (p *RealPublisher) PublishSystem(ev SystemEvent) error {
	payload, err := FormatSystem(ev)
	if err != nil {
		return fmt.Errorf("format system: %w", err)
	}
	return p.publish(TopicSystem, 1, ev.Retained, payload)
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		dropped := p.buffer.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		buffered := p.buffer.len()
		p.mu.Unlock()
		if dropped {
			p.log.Warnw("telemetry buffer full, dropping oldest", "capacity", bufferCapacity)
		} else {
			p.log.Debugw("broker offline, buffered message", "topic", topic, "buffered", buffered)
		}
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout on %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// drain replays buffered messages after a reconnect, oldest first.
func (p *RealPublisher) drain() {
	p.mu.Lock()
	msgs, dropped := p.buffer.drainAll()
	p.mu.Unlock()

	if dropped > 0 {
		p.log.Warnw("telemetry messages lost while offline", "dropped", dropped)
	}
	if len(msgs) == 0 {
		return
	}

	p.log.Infow("replaying buffered telemetry", "count", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			p.log.Warnw("replay timeout", "topic", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			p.log.Warnw("replay failed", "topic", m.topic, "error", err)
		}
	}
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
