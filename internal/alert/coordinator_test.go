package alert

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeSender struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeSender) SendAll(ctx context.Context, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestCoordinatorQueueSends(t *testing.T) {
	sender := &fakeSender{}
	c := New(sender, 4, time.Minute)

	c.Queue("AGL12", KindMalformedPayload, Data{Type: "AGL", ID: 12})

	waitFor(t, func() bool { return sender.count() == 1 })
}

func TestCoordinatorDedupesWithinWindow(t *testing.T) {
	sender := &fakeSender{}
	c := New(sender, 4, time.Minute)

	c.Queue("AGL12", KindRedAbnormalCurrent, Data{Type: "AGL", ID: 12, Ampere: 0})
	c.Queue("AGL12", KindRedAbnormalCurrent, Data{Type: "AGL", ID: 12, Ampere: 0})

	waitFor(t, func() bool { return sender.count() >= 1 })
	time.Sleep(20 * time.Millisecond)

	if got := sender.count(); got != 1 {
		t.Errorf("count = %d, want 1 (second queue should be deduped)", got)
	}
}

func TestCoordinatorAllowsAfterWindowExpires(t *testing.T) {
	sender := &fakeSender{}
	c := New(sender, 4, 10*time.Millisecond)

	c.Queue("AGL12", KindRS485CommError, Data{Type: "AGL", ID: 12})
	waitFor(t, func() bool { return sender.count() == 1 })

	time.Sleep(20 * time.Millisecond)
	c.Queue("AGL12", KindRS485CommError, Data{Type: "AGL", ID: 12})
	waitFor(t, func() bool { return sender.count() == 2 })
}

func TestRenderTemplates(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		data Data
	}{
		{"lte fault", KindLTEFault, Data{Place: "Main St", Type: "AGL", ID: 12}},
		{"lte resumed", KindLTEResumed, Data{Place: "Main St", Type: "AGL", ID: 12}},
		{"red abnormal", KindRedAbnormalCurrent, Data{Place: "Main St", Type: "AGL", ID: 12, Ampere: 0}},
		{"green abnormal", KindGreenAbnormalCurrent, Data{Place: "Main St", Type: "AGL", ID: 12, Ampere: 500}},
		{"rs485", KindRS485CommError, Data{Place: "Main St", Type: "AGL", ID: 12}},
		{"malformed", KindMalformedPayload, Data{Type: "AGL", ID: 12}},
		{"broker connected", KindBrokerConnected, Data{}},
		{"broker disconnected", KindBrokerDisconnected, Data{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.kind, tt.data); got == "" {
				t.Errorf("Render(%v) returned empty string", tt.kind)
			}
		})
	}
}
