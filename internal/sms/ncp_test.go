package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
)

func TestSignDeterministic(t *testing.T) {
	got := sign("POST", "/sms/v2/services/svc/messages", "1000", "access", "secret")
	again := sign("POST", "/sms/v2/services/svc/messages", "1000", "access", "secret")
	if got != again {
		t.Error("sign() is not deterministic for identical inputs")
	}

	other := sign("GET", "/sms/v2/services/svc/messages", "1000", "access", "secret")
	if got == other {
		t.Error("sign() should differ when the method changes")
	}
}

func TestNCPClientSendPollsToCompletion(t *testing.T) {
	var pollCount int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range []string{"x-ncp-apigw-timestamp", "x-ncp-iam-access-key", "x-ncp-apigw-signature-v2"} {
			if r.Header.Get(h) == "" {
				t.Errorf("missing required header %s", h)
			}
		}

		switch {
		case r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(ncpSmsResponse{RequestID: "req-1", StatusCode: "202", StatusName: "success"})
		case r.Method == http.MethodGet:
			pollCount++
			status := "SENDING"
			if pollCount >= 2 {
				status = "COMPLETED"
			}
			json.NewEncoder(w).Encode(ncpSmsMessagesPage{
				StatusCode: "202",
				StatusName: "success",
				Messages: []ncpMessageWire{{
					RequestID: "req-1",
					MessageID: "msg-1",
					Status:    status,
					To:        "01012345678",
				}},
			})
		}
	}))
	defer server.Close()

	cfg := config.SMSConfig{
		NCPAccessKey:    "access",
		NCPSecretKey:    "secret",
		NCPSmsID:        "svc",
		PollInterval:    5 * time.Millisecond,
		PollMaxAttempts: 5,
	}
	client := NewNCPClient(cfg, "0415889816")
	client.SetBaseURL(server.URL)

	msg, err := client.Send(context.Background(), "01012345678", "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg == nil || msg.Status != "COMPLETED" {
		t.Fatalf("Send() = %+v, want status COMPLETED", msg)
	}
}

func TestNCPClientSendRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ncpSmsResponse{StatusCode: "400", StatusName: "fail"})
	}))
	defer server.Close()

	client := NewNCPClient(config.SMSConfig{PollMaxAttempts: 1}, "0415889816")
	client.SetBaseURL(server.URL)

	msg, err := client.Send(context.Background(), "01012345678", "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if msg != nil {
		t.Errorf("Send() = %+v, want nil on rejection", msg)
	}
}

func TestMessageToNumber(t *testing.T) {
	m := Message{To: "01012345678", CountryCode: "82", TelcoCode: "KTF"}
	got := m.ToNumber()
	want := "KT +82 10-1234-5678"
	if got != want {
		t.Errorf("ToNumber() = %q, want %q", got, want)
	}
}
