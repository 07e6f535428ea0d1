package sessync

import "testing"

func TestBroadcasterDeliversInRegistrationOrder(t *testing.T) {
	b := NewBroadcaster()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		b.Subscribe(func() { order = append(order, i) })
	}

	b.Publish()

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected delivery in registration order, got %v", order)
	}
}

func TestBroadcasterNoReplay(t *testing.T) {
	b := NewBroadcaster()
	b.Publish()

	called := false
	b.Subscribe(func() { called = true })

	if called {
		t.Fatal("subscriber must not see a publish that preceded registration")
	}

	b.Publish()
	if !called {
		t.Fatal("subscriber missed a later publish")
	}
}

func TestBroadcasterUnsubscribe(t *testing.T) {
	b := NewBroadcaster()

	count := 0
	cancel := b.Subscribe(func() { count++ })

	b.Publish()
	cancel()
	cancel() // idempotent
	b.Publish()

	if count != 1 {
		t.Fatalf("expected exactly one delivery, got %d", count)
	}
}

func TestBroadcasterSubscribeDuringDelivery(t *testing.T) {
	b := NewBroadcaster()

	lateCalled := false
	b.Subscribe(func() {
		b.Subscribe(func() { lateCalled = true })
	})

	b.Publish()
	if lateCalled {
		t.Fatal("handler added during delivery must not receive the in-flight publish")
	}

	b.Publish()
	if !lateCalled {
		t.Fatal("handler added during delivery missed the next publish")
	}
}

func TestBroadcasterUnsubscribePreservesOthers(t *testing.T) {
	b := NewBroadcaster()

	var order []string
	cancelA := b.Subscribe(func() { order = append(order, "a") })
	b.Subscribe(func() { order = append(order, "b") })
	b.Subscribe(func() { order = append(order, "c") })

	cancelA()
	b.Publish()

	if len(order) != 2 || order[0] != "b" || order[1] != "c" {
		t.Fatalf("expected b,c after removing a, got %v", order)
	}
}
