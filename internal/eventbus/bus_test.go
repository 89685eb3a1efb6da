package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestBusPublishBroadcast(t *testing.T) {
	bus := NewDocEventBus()
	calledA := false
	calledB := false

	bus.Subscribe(DocEventCreated, func(ctx context.Context, event DocEvent) error {
		calledA = true
		return nil
	})
	bus.Subscribe(DocEventCreated, func(ctx context.Context, event DocEvent) error {
		calledB = true
		return nil
	})

	if err := bus.Publish(context.Background(), DocEventCreated, DocEvent{Type: DocEventCreated}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !calledA || !calledB {
		t.Fatalf("expected handlers to be called")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewDocEventBus()
	called := false
	unsubscribe := bus.Subscribe(DocEventUpdated, func(ctx context.Context, event DocEvent) error {
		called = true
		return nil
	})
	unsubscribe()

	if err := bus.Publish(context.Background(), DocEventUpdated, DocEvent{Type: DocEventUpdated}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatalf("expected handler to be unsubscribed")
	}
}

func TestBusPublishJoinErrors(t *testing.T) {
	bus := NewDocEventBus()
	bus.Subscribe(DocEventDeleted, func(ctx context.Context, event DocEvent) error {
		return errors.New("err-a")
	})
	bus.Subscribe(DocEventDeleted, func(ctx context.Context, event DocEvent) error {
		return errors.New("err-b")
	})

	if err := bus.Publish(context.Background(), DocEventDeleted, DocEvent{Type: DocEventDeleted}); err == nil {
		t.Fatalf("expected error")
	}
}
