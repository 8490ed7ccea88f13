package heartbeat

import (
	"context"
	"time"
)

// kst is a fixed UTC+9 offset; see internal/liveness for the same choice.
var kst = time.FixedZone("KST", 9*60*60)

const reconnectPoll = 125 * time.Millisecond

// Logger is the minimal logging surface the Publisher needs.
type Logger interface {
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Error(string, ...any) {}

// client is the subset of the MQTT client the Publisher needs.
type client interface {
	IsConnected() bool
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Publisher runs the two independent periodic publishers over a shared
// MQTT client handle.
type Publisher struct {
	mqtt         client
	startupDelay time.Duration
	interval     time.Duration
	logger       Logger
	now          func() time.Time
}

// New constructs a Publisher. startupDelay and interval correspond to
// SchedulerConfig.StartupDelay/HeartbeatInterval.
func New(mqttClient client, startupDelay, interval time.Duration) *Publisher {
	return &Publisher{mqtt: mqttClient, startupDelay: startupDelay, interval: interval, logger: noopLogger{}, now: time.Now}
}

// SetLogger sets the logger used to report publish failures.
func (p *Publisher) SetLogger(logger Logger) {
	p.logger = logger
}

// Start launches both publishers as detached goroutines. They run until
// ctx is cancelled.
func (p *Publisher) Start(ctx context.Context) {
	go p.run(ctx, "timestamp", p.timestampPayload)
	go p.run(ctx, "beacon", func() []byte { return []byte("ping") })
}

func (p *Publisher) timestampPayload() []byte {
	return []byte(p.now().In(kst).Format("01021504"))
}

// run publishes payloadFunc() on topic every p.interval, after an
// initial p.startupDelay. While the client reports disconnected, it
// polls every 125ms instead of publishing.
func (p *Publisher) run(ctx context.Context, topic string, payloadFunc func() []byte) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(p.startupDelay):
	}

	for {
		for !p.mqtt.IsConnected() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectPoll):
			}
		}

		if err := p.mqtt.Publish(topic, payloadFunc(), 0, false); err != nil {
			p.logger.Error("heartbeat publish failed", "topic", topic, "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}
	}
}
