package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
// These are integration tests and require a running broker at
// 127.0.0.1:1883 (e.g. mosquitto with default settings).
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Host: "127.0.0.1:1883",
	}
}

func TestConnect(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestConnectInvalidBroker(t *testing.T) {
	cfg := testConfig()
	cfg.Host = "127.0.0.1:19999"

	_, err := Connect(cfg, "dolphin-test-invalid")
	if err == nil {
		t.Fatal("Connect() expected error for invalid broker")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClose(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-close")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close(), want false")
	}
}

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestHealthCheck(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-health")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v, want nil", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-health-cancel")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() expected error for cancelled context")
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-health-disc")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close() //nolint:errcheck // Test cleanup

	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestPublish(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-pub")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.Publish(TopicBeacon, []byte("ping"), 0, false); err != nil {
		t.Errorf("Publish() error = %v", err)
	}
}

func TestPublishEmptyTopic(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-pub-empty")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.Publish("", []byte("x"), 0, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish() error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublishInvalidQoS(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-pub-qos")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.Publish(TopicBeacon, []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish() error = %v, want ErrInvalidQoS", err)
	}
}

func TestPublishDisconnected(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-pub-disc")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	client.Close() //nolint:errcheck // Test cleanup

	if err := client.Publish(TopicBeacon, []byte("x"), 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
}

func TestSubscribeAndDispatch(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-sub")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	received := make(chan string, 1)
	err = client.Subscribe(TopicControllerStatus, 1, func(topic string, payload []byte) error {
		received <- topic
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !client.HasSubscription(TopicControllerStatus) {
		t.Error("HasSubscription() = false, want true")
	}
	if client.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", client.SubscriptionCount())
	}

	time.Sleep(100 * time.Millisecond)
	if err := client.PublishString("AGL12/status/controller", "payload", 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case topic := <-received:
		if topic != "AGL12/status/controller" {
			t.Errorf("received topic = %q, want AGL12/status/controller", topic)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for message")
	}
}

func TestSubscribeEmptyTopic(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-sub-empty")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.Subscribe("", 1, func(string, []byte) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe() error = %v, want ErrInvalidTopic", err)
	}
}

func TestSubscribeNilHandler(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-sub-nil")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.Subscribe(TopicBeacon, 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe() error = %v, want ErrSubscribeFailed", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-unsub")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if err := client.Subscribe(TopicDisplayDeviceStatus, 1, func(string, []byte) error { return nil }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := client.Unsubscribe(TopicDisplayDeviceStatus); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
	if client.HasSubscription(TopicDisplayDeviceStatus) {
		t.Error("HasSubscription() = true after Unsubscribe(), want false")
	}
}

func TestOnConnectCallback(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-callback")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	called := make(chan struct{}, 1)
	client.SetOnConnect(func() {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	select {
	case <-called:
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDeviceIDFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"AGL12/status/controller", "AGL12"},
		{"DGL3/status/dispDevice", "DGL3"},
		{"beacon", "beacon"},
	}
	for _, tt := range tests {
		if got := DeviceIDFromTopic(tt.topic); got != tt.want {
			t.Errorf("DeviceIDFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestMultipleSubscriptions(t *testing.T) {
	client, err := Connect(testConfig(), "dolphin-test-multi-sub")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	var mu sync.Mutex
	seen := map[string]bool{}
	handler := func(topic string, _ []byte) error {
		mu.Lock()
		seen[topic] = true
		mu.Unlock()
		return nil
	}

	if err := client.Subscribe(TopicControllerStatus, 1, handler); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := client.Subscribe(TopicDisplayDeviceStatus, 1, handler); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if client.SubscriptionCount() != 2 {
		t.Errorf("SubscriptionCount() = %d, want 2", client.SubscriptionCount())
	}
}
