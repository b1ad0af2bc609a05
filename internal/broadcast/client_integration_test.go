//go:build integration

package broadcast

import (
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_SessionEventRoundTrip(t *testing.T) {
	natsURL := skipWithoutNATS(t)

	client, err := NewClient(natsURL, os.Getenv("NATS_TOKEN"), slog.Default())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	raw, err := nats.Connect(natsURL)
	if err != nil {
		t.Fatalf("raw connect failed: %v", err)
	}
	defer raw.Close()

	userID := uuid.New()
	received := make(chan Event, 1)
	sub, err := raw.Subscribe("scribe.profile."+userID.String()+".events", func(msg *nats.Msg) {
		var ev Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			t.Errorf("unmarshal event: %v", err)
			return
		}
		received <- ev
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	pub := NewSessionPublisher(client)
	if err := pub.Publish(userID, Event{
		Type:       EventNodeAdded,
		ActionType: "skill",
		Entity:     "Go",
	}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case ev := <-received:
		if ev.Type != EventNodeAdded || ev.Entity != "Go" {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.Timestamp.IsZero() {
			t.Error("expected a timestamp to be stamped on publish")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for session event")
	}
}

func TestIntegration_GraphUpsertPublish(t *testing.T) {
	natsURL := skipWithoutNATS(t)

	client, err := NewClient(natsURL, os.Getenv("NATS_TOKEN"), slog.Default())
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	raw, err := nats.Connect(natsURL)
	if err != nil {
		t.Fatalf("raw connect failed: %v", err)
	}
	defer raw.Close()

	received := make(chan GraphUpsert, 2)
	sub, err := raw.Subscribe("scribe.graph.upsert", func(msg *nats.Msg) {
		var up GraphUpsert
		if err := json.Unmarshal(msg.Data, &up); err != nil {
			t.Errorf("unmarshal upsert: %v", err)
			return
		}
		received <- up
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer sub.Unsubscribe()

	userID, nodeID := uuid.New(), uuid.New()
	g := NewGraphPublisher(client)
	if err := g.UpsertNode(userID, "Skill", "Go", nodeID); err != nil {
		t.Fatalf("UpsertNode failed: %v", err)
	}
	if err := g.UpsertRelationship(userID, "HAS_SKILL", nodeID); err != nil {
		t.Fatalf("UpsertRelationship failed: %v", err)
	}

	for _, wantOp := range []string{"node", "relationship"} {
		select {
		case up := <-received:
			if up.Op != wantOp {
				t.Errorf("expected op %q, got %q", wantOp, up.Op)
			}
			if up.UserID != userID.String() {
				t.Errorf("wrong user id on %s upsert: %s", wantOp, up.UserID)
			}
		case <-time.After(3 * time.Second):
			t.Fatalf("timed out waiting for %s upsert", wantOp)
		}
	}
}
