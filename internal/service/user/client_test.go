package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/order-service/internal/service/user"
)

func TestClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/auth/user/alice" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"username":"alice","email":"alice@example.com","role":"USER","active":true}`))
	}))
	defer srv.Close()

	client := user.NewClient(srv.URL, time.Second, nil)
	got, err := client.Fetch(context.Background(), "alice")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" || !got.Active {
		t.Fatalf("unexpected user payload: %+v", got)
	}
}

func TestClient_Fetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := user.NewClient(srv.URL, time.Second, nil)
	if _, err := client.Fetch(context.Background(), "ghost"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestClient_Fetch_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := user.NewClient(srv.URL, time.Second, nil)
	if _, err := client.Fetch(context.Background(), "alice"); err == nil {
		t.Fatal("expected transport error when service is unreachable")
	}
}
