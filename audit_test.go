package sessync

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sessync/sessync/identity"
	"github.com/sessync/sessync/store"
)

func TestDispatcherDeliversToChannelSink(t *testing.T) {
	sink := NewChannelSink(8)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 8}, sink)
	defer d.close()

	d.emit(context.Background(), AuditEvent{EventType: "login_success", Success: true})

	select {
	case event := <-sink.Events():
		if event.EventType != "login_success" || !event.Success {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	// A sink that never consumes: the single-slot buffer saturates after
	// the run loop takes one event and one more sits in the channel.
	blocked := make(chan struct{})
	sink := blockingSink{release: blocked}
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)
	defer func() {
		close(blocked)
		d.close()
	}()

	for i := 0; i < 10; i++ {
		d.emit(context.Background(), AuditEvent{EventType: "logout"})
	}

	if d.droppedCount() == 0 {
		t.Fatal("expected dropped events with a saturated one-slot buffer")
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("disabled audit must not start a dispatcher")
	}
	d.emit(context.Background(), AuditEvent{}) // nil-safe
	d.close()
	if d.droppedCount() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: "login_failure", Error: "invalid credentials"})
	sink.Emit(context.Background(), AuditEvent{EventType: "logout", Success: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var event AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("line not valid JSON: %v", err)
	}
	if event.EventType != "login_failure" || event.Error != "invalid credentials" {
		t.Fatalf("unexpected decoded event %+v", event)
	}
}

func TestMachineEmitsLoginAuditEvents(t *testing.T) {
	sink := NewChannelSink(8)
	mem := store.NewMemory()
	clock := newFakeClock()

	client := &mockIdentityClient{authErr: identity.ErrInvalidCredentials}
	machine, err := New().
		WithStore(mem).
		WithIdentityClient(client).
		WithClock(clock.Now).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	t.Cleanup(machine.Close)

	if machine.Login(context.Background(), "a@b.com", "bad") {
		t.Fatal("expected login failure")
	}

	select {
	case event := <-sink.Events():
		if event.EventType != "login_failure" || event.Success {
			t.Fatalf("unexpected event %+v", event)
		}
		if event.ID == "" {
			t.Fatal("expected event ID")
		}
		if event.Email != "a@b.com" {
			t.Fatalf("expected email in event, got %q", event.Email)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for login_failure event")
	}
}
