package amqp

import (
	"context"
	"errors"
	"testing"
)

type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAck) Ack(bool) error { f.acked = true; return nil }
func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestSettle(t *testing.T) {
	good, err := NewSeedRequestMessage("req_1", "http").ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantNack    bool
		wantRequeue bool
		wantHandled bool
	}{
		{name: "handled", body: good, wantAck: true, wantHandled: true},
		{name: "handler failure requeues", body: good, handlerErr: errors.New("feed down"), wantNack: true, wantRequeue: true, wantHandled: true},
		{name: "malformed json dropped", body: []byte("{"), wantNack: true},
		{name: "missing request id dropped", body: []byte(`{"source":"http"}`), wantNack: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			handled := false
			settle(context.Background(), tt.body, ack, func(_ context.Context, m *SeedRequestMessage) error {
				handled = true
				if m.RequestID != "req_1" {
					t.Errorf("request id = %q", m.RequestID)
				}
				return tt.handlerErr
			})
			if handled != tt.wantHandled {
				t.Errorf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if ack.acked != tt.wantAck || ack.nacked != tt.wantNack || ack.requeued != tt.wantRequeue {
				t.Errorf("ack=%v nack=%v requeue=%v, want %v/%v/%v",
					ack.acked, ack.nacked, ack.requeued, tt.wantAck, tt.wantNack, tt.wantRequeue)
			}
		})
	}
}

func TestPublishWithoutConnection(t *testing.T) {
	var c *Client
	if err := c.PublishSeedRequest(context.Background(), NewSeedRequestMessage("req_1", "cli")); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := (&Client{}).ConsumeSeedRequests(context.Background(), nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}
