package broadcast

import (
	"time"

	"github.com/google/uuid"
)

const graphSubject = "scribe.graph.upsert"

// GraphUpsert is the idempotent create-if-absent payload the graph-mirror
// collaborator consumes. The mirror is not authoritative; replaying an
// upsert must be harmless.
type GraphUpsert struct {
	Op           string    `json:"op"` // "node" or "relationship"
	UserID       string    `json:"user_id"`
	NodeKind     string    `json:"node_kind,omitempty"`
	NodeName     string    `json:"node_name,omitempty"`
	NodeID       string    `json:"node_id,omitempty"`
	Relationship string    `json:"relationship,omitempty"`
	TargetID     string    `json:"target_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// GraphPublisher mirrors committed facts to the graph store as upsert events.
type GraphPublisher struct {
	client *Client
}

func NewGraphPublisher(client *Client) *GraphPublisher {
	return &GraphPublisher{client: client}
}

func (g *GraphPublisher) UpsertNode(userID uuid.UUID, kind, name string, nodeID uuid.UUID) error {
	return g.client.Publish(graphSubject, GraphUpsert{
		Op:        "node",
		UserID:    userID.String(),
		NodeKind:  kind,
		NodeName:  name,
		NodeID:    nodeID.String(),
		Timestamp: time.Now().UTC(),
	})
}

func (g *GraphPublisher) UpsertRelationship(userID uuid.UUID, relationship string, targetID uuid.UUID) error {
	return g.client.Publish(graphSubject, GraphUpsert{
		Op:           "relationship",
		UserID:       userID.String(),
		Relationship: relationship,
		TargetID:     targetID.String(),
		Timestamp:    time.Now().UTC(),
	})
}
