package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndSucceed()

	event := NewOrderEvent(EventTypeOrderCreated, "ORD-AAAA1111", "alice", "PENDING", map[string]any{
		"total": "999.99",
	})

	if err := producer.Publish(TopicOrderEvents, "ORD-AAAA1111", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_Publish_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(EventTypePaymentFailed, "ORD-AAAA1111", "alice", "PAYMENT_FAILED", nil)

	if err := producer.Publish(TopicOrderEvents, "ORD-AAAA1111", event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	event := NewOrderEvent(EventTypeStatusUpdated, "ORD-AAAA1111", "alice", "SHIPPED", map[string]any{
		"previous_status": "PAYMENT_COMPLETED",
	})

	if event.EventType != EventTypeStatusUpdated {
		t.Errorf("expected event type %s, got %s", EventTypeStatusUpdated, event.EventType)
	}
	if event.OrderNumber != "ORD-AAAA1111" {
		t.Errorf("unexpected order number %s", event.OrderNumber)
	}
	if event.Username != "alice" {
		t.Errorf("unexpected username %s", event.Username)
	}
	if event.Status != "SHIPPED" {
		t.Errorf("unexpected status %s", event.Status)
	}
	if event.Metadata["previous_status"] != "PAYMENT_COMPLETED" {
		t.Error("metadata not set correctly")
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}
