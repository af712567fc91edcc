package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"failsift-agent/src/contracts"
)

func TestInMemoryBroker_PublishSubscribe(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	key := "payments-service#10"
	value := []byte(`{"job":"payments-service","build_number":10}`)

	// Subscribe before publishing
	msgChan, err := broker.Subscribe(ctx, contracts.TopicReports, "test-group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := broker.Publish(ctx, contracts.TopicReports, key, value); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-msgChan:
		if msg.Topic != contracts.TopicReports {
			t.Errorf("Expected topic %s, got %s", contracts.TopicReports, msg.Topic)
		}
		if msg.Key != key {
			t.Errorf("Expected key %s, got %s", key, msg.Key)
		}
		if string(msg.Value) != string(value) {
			t.Errorf("Expected value %s, got %s", string(value), string(msg.Value))
		}
		if msg.Offset != 0 {
			t.Errorf("Expected first offset 0, got %d", msg.Offset)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

func TestInMemoryBroker_OffsetsIncrease(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	msgChan, err := broker.Subscribe(ctx, contracts.TopicReports, "test-group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := broker.Publish(ctx, contracts.TopicReports, "key", []byte("value")); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}

	for want := int64(0); want < 3; want++ {
		select {
		case msg := <-msgChan:
			if msg.Offset != want {
				t.Errorf("Expected offset %d, got %d", want, msg.Offset)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("Timeout waiting for message %d", want)
		}
	}
}

func TestInMemoryBroker_MultipleSubscribers(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()

	sub1, err := broker.Subscribe(ctx, contracts.TopicReports, "group1")
	if err != nil {
		t.Fatalf("Subscribe 1 failed: %v", err)
	}
	sub2, err := broker.Subscribe(ctx, contracts.TopicReports, "group2")
	if err != nil {
		t.Fatalf("Subscribe 2 failed: %v", err)
	}

	report := contracts.FailureReport{Job: "payments-service", BuildNumber: 10}
	value, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := broker.Publish(ctx, contracts.TopicReports, report.Key(), value); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Both subscribers receive the report.
	for i, sub := range []<-chan Message{sub1, sub2} {
		select {
		case msg := <-sub:
			var got contracts.FailureReport
			if err := json.Unmarshal(msg.Value, &got); err != nil {
				t.Fatalf("Subscriber %d: failed to decode report: %v", i+1, err)
			}
			if got.BuildNumber != 10 {
				t.Errorf("Subscriber %d: build number = %d, expected 10", i+1, got.BuildNumber)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("Subscriber %d: timeout waiting for message", i+1)
		}
	}
}

func TestInMemoryBroker_ClosedBroker(t *testing.T) {
	broker := NewInMemoryBroker()
	broker.Close()

	ctx := context.Background()

	err := broker.Publish(ctx, contracts.TopicReports, "key", []byte("value"))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Publish on closed broker: error = %v, expected ErrClosed", err)
	}

	_, err = broker.Subscribe(ctx, contracts.TopicReports, "group")
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe on closed broker: error = %v, expected ErrClosed", err)
	}
}

func TestInMemoryBroker_CloseClosesChannels(t *testing.T) {
	broker := NewInMemoryBroker()

	msgChan, err := broker.Subscribe(context.Background(), contracts.TopicReports, "group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	broker.Close()

	select {
	case _, ok := <-msgChan:
		if ok {
			t.Error("Expected channel to be closed after Close()")
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for channel close")
	}
}
