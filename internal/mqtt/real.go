package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

// bufferCapacity is how many messages are kept while offline.
const bufferCapacity = 100

// RealPublisher publishes to an actual MQTT broker.
// Messages published while disconnected are buffered and replayed in
// order once the connection is back. Publish waits for the broker, so the
// control loop reaches it through a Queue.
type RealPublisher struct {
	client paho.Client
	log    *zap.SugaredLogger
	isOpen func() bool

	mu        sync.Mutex
	buf       *ringBuffer
	connected bool // set after the first successful connection
}

// NewRealPublisher creates a publisher for the given broker. It connects in
// the background and never blocks on an unreachable broker.
func NewRealPublisher(broker string, log *zap.SugaredLogger) *RealPublisher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	p := &RealPublisher{
		log: log,
		buf: newRingBuffer(bufferCapacity),
	}

	will, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("reflow-hotplate").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warnw("mqtt connection lost", "error", err)
		})

	p.client = paho.NewClient(opts)
	p.isOpen = p.client.IsConnectionOpen
	p.client.Connect()
	return p
}

// takePending marks the connection as up and returns everything buffered
// while it was down.
func (p *RealPublisher) takePending() (reconnect bool, pending []bufferedMsg) {
	p.mu.Lock()
	defer p.mu.Unlock()
	reconnect = p.connected
	p.connected = true
	return reconnect, p.buf.drainAll()
}

// onConnect replays buffered messages and announces reconnects.
func (p *RealPublisher) onConnect(c paho.Client) {
	reconnect, pending := p.takePending()

	p.log.Infow("mqtt connected", "buffered", len(pending), "reconnect", reconnect)

	for _, m := range pending {
		token := c.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
			p.log.Warnw("mqtt replay failed", "topic", m.topic, "error", token.Error())
		}
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		c.Publish(TopicSystem, 1, false, payload)
	}
}

// Publish sends a controller event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	if err := p.publish(Topic, 0, false, payload); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) so lifecycle events are delivered
	if err := p.publish(TopicSystem, 1, event.Retained, payload); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	// The open check and the push share the lock with takePending, so a
	// message is either replayed by onConnect or published directly.
	p.mu.Lock()
	if !p.isOpen() {
		if p.buf.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained}) {
			p.log.Warnw("mqtt buffer full, dropping oldest", "capacity", bufferCapacity)
		}
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("timeout")
	}
	return token.Error()
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.isOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
