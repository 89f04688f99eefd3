package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
	"github.com/vladislavdragonenkov/order-service/internal/service/notification"
)

func TestClient_Submit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body["type"] != domain.NotificationTypeOrderConfirmation {
			t.Errorf("unexpected notification type %q", body["type"])
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := notification.NewClient(srv.URL, time.Second, nil)
	err := client.Submit(context.Background(), domain.Notification{
		Username: "alice",
		Email:    "alice@example.com",
		Subject:  "Order Created Successfully",
		Message:  "Order ORD-0A1B2C3D for Laptop has been created. Total: $999.99",
		Type:     domain.NotificationTypeOrderConfirmation,
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
}

func TestClient_Submit_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := notification.NewClient(srv.URL, time.Second, nil)
	if err := client.Submit(context.Background(), domain.Notification{}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
